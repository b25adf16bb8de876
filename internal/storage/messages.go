package storage

import (
	"context"

	"carelink-backend/internal/models"
	"carelink-backend/internal/services"
)

func (s *Storage) InsertMessage(ctx context.Context, msg *models.Message) error {
	row := messageRow{RoomID: msg.RoomID, SenderID: msg.SenderID, Content: msg.Content, CreatedAt: msg.CreatedAt}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return mapError(err)
	}
	msg.ID = row.ID
	return nil
}

func (s *Storage) MessagesByRoom(ctx context.Context, roomID int64) ([]models.Message, error) {
	var rows []messageRow
	err := s.db.WithContext(ctx).Where("room_id = ?", roomID).Order("created_at ASC, id ASC").Find(&rows).Error
	if err != nil {
		return nil, mapError(err)
	}
	msgs := make([]models.Message, len(rows))
	for i, r := range rows {
		msgs[i] = r.toModel()
	}
	return msgs, nil
}

// LatestMessages keeps only rows that no other row of the same room sorts after.
func (s *Storage) LatestMessages(ctx context.Context, roomIDs []int64) (map[int64]models.Message, error) {
	if len(roomIDs) == 0 {
		return map[int64]models.Message{}, nil
	}
	var rows []messageRow
	err := s.db.WithContext(ctx).
		Where("room_id IN ?", roomIDs).
		Where(`NOT EXISTS (
			SELECT 1 FROM chat_messages n
			WHERE n.room_id = chat_messages.room_id
			  AND (n.created_at > chat_messages.created_at
			       OR (n.created_at = chat_messages.created_at AND n.id > chat_messages.id))
		)`).
		Find(&rows).Error
	if err != nil {
		return nil, mapError(err)
	}
	msgs := make([]models.Message, len(rows))
	for i, r := range rows {
		msgs[i] = r.toModel()
	}
	return services.LatestPerRoom(msgs), nil
}
