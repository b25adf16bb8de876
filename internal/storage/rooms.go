package storage

import (
	"context"

	"carelink-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func withParticipants(db *gorm.DB) *gorm.DB {
	return db.Preload("Participants", func(db *gorm.DB) *gorm.DB {
		return db.Order("user_id")
	})
}

func (s *Storage) FindRoomByKey(ctx context.Context, key string) (*models.Room, error) {
	var row roomRow
	if err := withParticipants(s.db.WithContext(ctx)).Where("room_key = ?", key).First(&row).Error; err != nil {
		return nil, mapError(err)
	}
	room := row.toModel()
	return &room, nil
}

func (s *Storage) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	var row roomRow
	if err := withParticipants(s.db.WithContext(ctx)).First(&row, id).Error; err != nil {
		return nil, mapError(err)
	}
	room := row.toModel()
	return &room, nil
}

func (s *Storage) UpsertRoom(ctx context.Context, room models.Room) (*models.Room, bool, error) {
	var (
		stored  roomRow
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := roomRow{Type: room.Type, RoomKey: room.RoomKey, CreatedAt: room.CreatedAt}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_key"}},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return withParticipants(tx).Where("room_key = ?", room.RoomKey).First(&stored).Error
		}

		for _, userID := range room.Participants {
			p := participantRow{RoomID: row.ID, UserID: userID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
				return err
			}
			row.Participants = append(row.Participants, p)
		}
		stored = row
		created = true
		return nil
	})
	if err != nil {
		return nil, false, mapError(err)
	}
	out := stored.toModel()
	return &out, created, nil
}

func (s *Storage) RoomsForUser(ctx context.Context, userID int64) ([]models.Room, error) {
	var rows []roomRow
	err := withParticipants(s.db.WithContext(ctx)).
		Where("id IN (SELECT room_id FROM chat_room_participants WHERE user_id = ?)", userID).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, mapError(err)
	}
	rooms := make([]models.Room, len(rows))
	for i, r := range rows {
		rooms[i] = r.toModel()
	}
	return rooms, nil
}
