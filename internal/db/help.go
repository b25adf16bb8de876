package db

import (
	"context"

	"carelink-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const requestColumns = `id, user_id, name, categories, details, status, lat, lng, created_at, updated_at`

func scanRequest(row pgx.Row) (*models.HelpRequest, error) {
	var r models.HelpRequest
	err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.Categories, &r.Details, &r.Status,
		&r.Lat, &r.Lng, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &r, nil
}

func (s *Store) CreateHelpRequest(ctx context.Context, r *models.HelpRequest) error {
	return mapError(s.pool.QueryRow(ctx, `
		INSERT INTO help_requests (user_id, name, categories, details, status, lat, lng, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, r.UserID, r.Name, r.Categories, r.Details, r.Status, r.Lat, r.Lng, r.CreatedAt, r.UpdatedAt).Scan(&r.ID))
}

func (s *Store) GetHelpRequest(ctx context.Context, id int64) (*models.HelpRequest, error) {
	return scanRequest(s.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM help_requests WHERE id = $1`, id))
}

func (s *Store) LatestHelpRequestByUser(ctx context.Context, userID int64) (*models.HelpRequest, error) {
	return scanRequest(s.pool.QueryRow(ctx, `
		SELECT `+requestColumns+` FROM help_requests
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID))
}

func (s *Store) ListHelpRequests(ctx context.Context, status string) ([]models.HelpRequest, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+requestColumns+` FROM help_requests
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC, id DESC
	`, status)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []models.HelpRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, mapError(rows.Err())
}

func (s *Store) UpdateHelpRequest(ctx context.Context, r *models.HelpRequest) error {
	return s.execOne(ctx, `
		UPDATE help_requests
		SET categories = $2, details = $3, status = $4, lat = $5, lng = $6, updated_at = $7
		WHERE id = $1
	`, r.ID, r.Categories, r.Details, r.Status, r.Lat, r.Lng, r.UpdatedAt)
}

func (s *Store) DeleteHelpRequest(ctx context.Context, id int64) error {
	return s.execOne(ctx, `DELETE FROM help_requests WHERE id = $1`, id)
}

const helperSelect = `
	SELECT h.id, h.user_id, h.name, h.age, h.categories, h.introduction, h.experience, h.status,
	       h.lat, h.lng, u.avatar_url, h.created_at, h.updated_at
	FROM helper_applications h
	LEFT JOIN users u ON u.id = h.user_id`

func scanHelper(row pgx.Row) (*models.HelperProfile, error) {
	var p models.HelperProfile
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Age, &p.Categories, &p.Introduction, &p.Experience,
		&p.Status, &p.Lat, &p.Lng, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (s *Store) CreateHelperProfile(ctx context.Context, p *models.HelperProfile) error {
	return mapError(s.pool.QueryRow(ctx, `
		INSERT INTO helper_applications
			(user_id, name, age, categories, introduction, experience, status, lat, lng, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, p.UserID, p.Name, p.Age, p.Categories, p.Introduction, p.Experience, p.Status,
		p.Lat, p.Lng, p.CreatedAt, p.UpdatedAt).Scan(&p.ID))
}

func (s *Store) GetHelperProfile(ctx context.Context, id int64) (*models.HelperProfile, error) {
	return scanHelper(s.pool.QueryRow(ctx, helperSelect+` WHERE h.id = $1`, id))
}

func (s *Store) LatestHelperProfileByUser(ctx context.Context, userID int64) (*models.HelperProfile, error) {
	return scanHelper(s.pool.QueryRow(ctx, helperSelect+`
		WHERE h.user_id = $1
		ORDER BY h.created_at DESC, h.id DESC
		LIMIT 1
	`, userID))
}

func (s *Store) ListHelperProfiles(ctx context.Context, status string, withLocation bool) ([]models.HelperProfile, error) {
	rows, err := s.pool.Query(ctx, helperSelect+`
		WHERE ($1 = '' OR h.status = $1)
		  AND (NOT $2 OR (h.lat IS NOT NULL AND h.lng IS NOT NULL))
		ORDER BY h.created_at DESC, h.id DESC
	`, status, withLocation)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []models.HelperProfile
	for rows.Next() {
		p, err := scanHelper(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, mapError(rows.Err())
}

func (s *Store) UpdateHelperProfile(ctx context.Context, p *models.HelperProfile) error {
	return s.execOne(ctx, `
		UPDATE helper_applications
		SET name = $2, age = $3, categories = $4, introduction = $5, experience = $6,
		    status = $7, lat = $8, lng = $9, updated_at = $10
		WHERE id = $1
	`, p.ID, p.Name, p.Age, p.Categories, p.Introduction, p.Experience, p.Status, p.Lat, p.Lng, p.UpdatedAt)
}

func (s *Store) DeleteHelperProfile(ctx context.Context, id int64) error {
	return s.execOne(ctx, `DELETE FROM helper_applications WHERE id = $1`, id)
}
