package db

import (
	"context"
	"errors"
	"fmt"

	"carelink-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const roomSelect = `
	SELECT r.id, r.type, r.room_key, r.created_at,
	       COALESCE(array_agg(p.user_id ORDER BY p.user_id) FILTER (WHERE p.user_id IS NOT NULL), '{}')
	FROM chat_rooms r
	LEFT JOIN chat_room_participants p ON p.room_id = r.id`

func scanRoom(row pgx.Row) (*models.Room, error) {
	var room models.Room
	if err := row.Scan(&room.ID, &room.Type, &room.RoomKey, &room.CreatedAt, &room.Participants); err != nil {
		return nil, mapError(err)
	}
	return &room, nil
}

func (s *Store) FindRoomByKey(ctx context.Context, key string) (*models.Room, error) {
	return scanRoom(s.pool.QueryRow(ctx, roomSelect+` WHERE r.room_key = $1 GROUP BY r.id`, key))
}

func (s *Store) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	return scanRoom(s.pool.QueryRow(ctx, roomSelect+` WHERE r.id = $1 GROUP BY r.id`, id))
}

// UpsertRoom relies on the unique room_key: when a concurrent caller wins the insert,
// ON CONFLICT DO NOTHING returns no row and the winner's room is read back instead.
func (s *Store) UpsertRoom(ctx context.Context, room models.Room) (*models.Room, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO chat_rooms (type, room_key, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (room_key) DO NOTHING
		RETURNING id
	`, room.Type, room.RoomKey, room.CreatedAt).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = tx.Rollback(ctx)
		existing, err := s.FindRoomByKey(ctx, room.RoomKey)
		if err != nil {
			return nil, false, fmt.Errorf("read back room %s: %w", room.RoomKey, err)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, mapError(err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO chat_room_participants (room_id, user_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`, id, room.Participants); err != nil {
		return nil, false, mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}

	room.ID = id
	return &room, true, nil
}

func (s *Store) RoomsForUser(ctx context.Context, userID int64) ([]models.Room, error) {
	rows, err := s.pool.Query(ctx, roomSelect+`
		WHERE r.id IN (SELECT room_id FROM chat_room_participants WHERE user_id = $1)
		GROUP BY r.id
		ORDER BY r.id DESC
	`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, mapError(rows.Err())
}
