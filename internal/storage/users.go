package storage

import (
	"context"
	"errors"
	"time"

	"carelink-backend/internal/models"
	"carelink-backend/internal/services"

	"gorm.io/gorm"
)

func (s *Storage) UpsertUserByIdentity(ctx context.Context, id models.Identity) (*models.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		err := tx.Where("provider = ? AND external_id = ?", id.Provider, id.ExternalID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = userRow{
				Provider:    id.Provider,
				ExternalID:  id.ExternalID,
				Name:        id.Name,
				Email:       id.Email,
				AvatarURL:   id.AvatarURL,
				LastLoginAt: &now,
			}
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}

		row.Name = id.Name
		row.AvatarURL = id.AvatarURL
		if id.Email != nil {
			row.Email = id.Email
		}
		row.LastLoginAt = &now
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	user := row.toModel()
	return &user, nil
}

func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, mapError(err)
	}
	user := row.toModel()
	return &user, nil
}

func (s *Storage) UsersByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error) {
	users := make(map[int64]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var rows []userRow
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, mapError(err)
	}
	for _, r := range rows {
		users[r.ID] = r.toModel()
	}
	return users, nil
}

func (s *Storage) UpdateRole(ctx context.Context, id int64, role string) error {
	return s.updateUser(ctx, id, map[string]any{"role": role})
}

func (s *Storage) SetRefreshTokenHash(ctx context.Context, id int64, hash *string) error {
	return s.updateUser(ctx, id, map[string]any{"refresh_token_hash": hash})
}

func (s *Storage) updateUser(ctx context.Context, id int64, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}
