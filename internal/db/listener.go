package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"carelink-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageChannel is the NOTIFY channel the chat_messages insert trigger writes to.
const MessageChannel = "chat_messages"

const listenRetryDelay = 2 * time.Second

// Publisher receives every message inserted into chat_messages.
type Publisher interface {
	Publish(msg models.Message)
}

type messageNotice struct {
	ID     int64 `json:"id"`
	RoomID int64 `json:"room_id"`
}

// Listen holds one pool connection on LISTEN chat_messages and forwards each inserted
// message to pub until ctx is done. A dropped connection is re-acquired after a short delay;
// notifications sent while it was down are not replayed.
func (s *Store) Listen(ctx context.Context, pub Publisher) {
	for {
		err := s.listenOnce(ctx, pub)
		if ctx.Err() != nil {
			return
		}
		slog.Warn("db: Message listener stopped, retrying", "error", err, "delay", listenRetryDelay)

		select {
		case <-ctx.Done():
			return
		case <-time.After(listenRetryDelay):
		}
	}
}

func (s *Store) listenOnce(ctx context.Context, pub Publisher) error {
	conn, err := acquireListener(ctx, s.pool)
	if err != nil {
		return err
	}
	defer conn.Release()

	slog.Info("db: Listening for new messages", "channel", MessageChannel)
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		var notice messageNotice
		if err := json.Unmarshal([]byte(n.Payload), &notice); err != nil {
			slog.Warn("db: Bad message notification", "payload", n.Payload, "error", err)
			continue
		}

		msg, err := s.MessageByID(ctx, notice.ID)
		if err != nil {
			slog.Warn("db: Notified message not loadable", "message_id", notice.ID, "error", err)
			continue
		}
		pub.Publish(*msg)
	}
}

func acquireListener(ctx context.Context, pool *pgxpool.Pool) (*pgxpool.Conn, error) {
	if pool == nil {
		return nil, errors.New("no pool")
	}
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listener connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+MessageChannel); err != nil {
		conn.Release()
		return nil, mapError(err)
	}
	return conn, nil
}
