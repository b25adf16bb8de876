package db

import (
	"context"

	"carelink-backend/internal/models"
	"carelink-backend/internal/services"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, provider, external_id, name, email, avatar_url, role, refresh_token_hash, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Provider, &u.ExternalID, &u.Name, &u.Email, &u.AvatarURL,
		&u.Role, &u.RefreshTokenHash, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// UpsertUserByIdentity keeps a known email when the provider stops sending it.
func (s *Store) UpsertUserByIdentity(ctx context.Context, id models.Identity) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		INSERT INTO users (provider, external_id, name, email, avatar_url, last_login_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (provider, external_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = COALESCE(EXCLUDED.email, users.email),
			avatar_url = EXCLUDED.avatar_url,
			last_login_at = EXCLUDED.last_login_at,
			updated_at = now()
		RETURNING `+userColumns,
		id.Provider, id.ExternalID, id.Name, id.Email, id.AvatarURL))
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Store) UsersByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error) {
	users := make(map[int64]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users[u.ID] = *u
	}
	return users, mapError(rows.Err())
}

func (s *Store) UpdateRole(ctx context.Context, id int64, role string) error {
	return s.execOne(ctx, `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, id, role)
}

func (s *Store) SetRefreshTokenHash(ctx context.Context, id int64, hash *string) error {
	return s.execOne(ctx, `UPDATE users SET refresh_token_hash = $2, updated_at = now() WHERE id = $1`, id, hash)
}

// execOne runs a statement that must touch exactly one row.
func (s *Store) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return services.ErrNotFound
	}
	return nil
}
