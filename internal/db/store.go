package db

import (
	"carelink-backend/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL implementation of services.Store.
type Store struct {
	pool *pgxpool.Pool
}

var _ services.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}
