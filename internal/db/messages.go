package db

import (
	"context"

	"carelink-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const messageColumns = `id, room_id, sender_id, content, created_at`

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	if err := row.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

func (s *Store) InsertMessage(ctx context.Context, msg *models.Message) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO chat_messages (room_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, msg.RoomID, msg.SenderID, msg.Content, msg.CreatedAt).Scan(&msg.ID, &msg.CreatedAt)
	return mapError(err)
}

func (s *Store) MessageByID(ctx context.Context, id int64) (*models.Message, error) {
	return scanMessage(s.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM chat_messages WHERE id = $1`, id))
}

func (s *Store) MessagesByRoom(ctx context.Context, roomID int64) ([]models.Message, error) {
	return s.queryMessages(ctx, `
		SELECT `+messageColumns+` FROM chat_messages
		WHERE room_id = $1
		ORDER BY created_at ASC, id ASC
	`, roomID)
}

// LatestMessages picks one row per room; DISTINCT ON keeps the first row of each
// (created_at DESC, id DESC) group.
func (s *Store) LatestMessages(ctx context.Context, roomIDs []int64) (map[int64]models.Message, error) {
	msgs, err := s.queryMessages(ctx, `
		SELECT DISTINCT ON (room_id) `+messageColumns+` FROM chat_messages
		WHERE room_id = ANY($1)
		ORDER BY room_id, created_at DESC, id DESC
	`, roomIDs)
	if err != nil {
		return nil, err
	}
	latest := make(map[int64]models.Message, len(msgs))
	for _, m := range msgs {
		latest[m.RoomID] = m
	}
	return latest, nil
}

func (s *Store) queryMessages(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *m)
	}
	return msgs, mapError(rows.Err())
}
