package storage

import (
	"context"

	"carelink-backend/internal/models"
	"carelink-backend/internal/services"

	"gorm.io/gorm"
)

var (
	requestUpdateColumns = []string{"categories", "details", "status", "lat", "lng", "updated_at"}
	helperUpdateColumns  = []string{"name", "age", "categories", "introduction", "experience", "status", "lat", "lng", "updated_at"}
)

func (s *Storage) CreateHelpRequest(ctx context.Context, r *models.HelpRequest) error {
	row := newHelpRequestRow(r)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return mapError(err)
	}
	r.ID = row.ID
	return nil
}

func (s *Storage) GetHelpRequest(ctx context.Context, id int64) (*models.HelpRequest, error) {
	var row helpRequestRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, mapError(err)
	}
	r := row.toModel()
	return &r, nil
}

func (s *Storage) LatestHelpRequestByUser(ctx context.Context, userID int64) (*models.HelpRequest, error) {
	var row helpRequestRow
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").First(&row).Error
	if err != nil {
		return nil, mapError(err)
	}
	r := row.toModel()
	return &r, nil
}

func (s *Storage) ListHelpRequests(ctx context.Context, status string) ([]models.HelpRequest, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []helpRequestRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, mapError(err)
	}
	out := make([]models.HelpRequest, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *Storage) UpdateHelpRequest(ctx context.Context, r *models.HelpRequest) error {
	row := newHelpRequestRow(r)
	return affectedOne(s.db.WithContext(ctx).Model(&row).Select(requestUpdateColumns).Updates(&row))
}

func (s *Storage) DeleteHelpRequest(ctx context.Context, id int64) error {
	return affectedOne(s.db.WithContext(ctx).Delete(&helpRequestRow{}, id))
}

func (s *Storage) CreateHelperProfile(ctx context.Context, p *models.HelperProfile) error {
	row := newHelperRow(p)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return mapError(err)
	}
	p.ID = row.ID
	return nil
}

func (s *Storage) GetHelperProfile(ctx context.Context, id int64) (*models.HelperProfile, error) {
	var row helperRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, mapError(err)
	}
	profiles, err := s.withAvatars(ctx, []helperRow{row})
	if err != nil {
		return nil, err
	}
	return &profiles[0], nil
}

func (s *Storage) LatestHelperProfileByUser(ctx context.Context, userID int64) (*models.HelperProfile, error) {
	var row helperRow
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").First(&row).Error
	if err != nil {
		return nil, mapError(err)
	}
	profiles, err := s.withAvatars(ctx, []helperRow{row})
	if err != nil {
		return nil, err
	}
	return &profiles[0], nil
}

func (s *Storage) ListHelperProfiles(ctx context.Context, status string, withLocation bool) ([]models.HelperProfile, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if withLocation {
		q = q.Where("lat IS NOT NULL AND lng IS NOT NULL")
	}
	var rows []helperRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, mapError(err)
	}
	return s.withAvatars(ctx, rows)
}

func (s *Storage) UpdateHelperProfile(ctx context.Context, p *models.HelperProfile) error {
	row := newHelperRow(p)
	return affectedOne(s.db.WithContext(ctx).Model(&row).Select(helperUpdateColumns).Updates(&row))
}

func (s *Storage) DeleteHelperProfile(ctx context.Context, id int64) error {
	return affectedOne(s.db.WithContext(ctx).Delete(&helperRow{}, id))
}

// withAvatars fills in each profile's avatar from its owner's user row.
func (s *Storage) withAvatars(ctx context.Context, rows []helperRow) ([]models.HelperProfile, error) {
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	users, err := s.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.HelperProfile, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
		if u, ok := users[r.UserID]; ok {
			out[i].AvatarURL = u.AvatarURL
		}
	}
	return out, nil
}

func affectedOne(res *gorm.DB) error {
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}
