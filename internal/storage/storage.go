// Package storage is the single-file SQLite backend used for local development and tests.
package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"carelink-backend/internal/models"
	"carelink-backend/internal/services"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Storage struct {
	db *gorm.DB
}

var _ services.Store = (*Storage)(nil)

// Publisher receives every message this storage inserts.
type Publisher interface {
	Publish(msg models.Message)
}

func New(dbPath string) (*Storage, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		slog.Error("storage: Failed to connect to database", "error", err, "path", dbPath)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps ":memory:" databases shared.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Storage) migrate() error {
	err := s.db.AutoMigrate(&userRow{}, &roomRow{}, &participantRow{}, &messageRow{}, &helpRequestRow{}, &helperRow{})
	if err != nil {
		slog.Error("storage: Failed to migrate database", "error", err)
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// OnMessage makes pub the change feed for chat_messages: it fires after every committed insert.
func (s *Storage) OnMessage(pub Publisher) error {
	return s.db.Callback().Create().
		After("gorm:commit_or_rollback_transaction").
		Register("carelink:publish_message", func(tx *gorm.DB) {
			if tx.Error != nil {
				return
			}
			if row, ok := tx.Statement.Dest.(*messageRow); ok {
				pub.Publish(row.toModel())
			}
		})
}

func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// mapError translates gorm and sqlite errors into the service error taxonomy.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrNotFound
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "no such table"):
		return fmt.Errorf("%w: %s", services.ErrNotConfigured, msg)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %s", services.ErrConflict, msg)
	}
	return err
}
