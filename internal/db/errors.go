package db

import (
	"errors"
	"fmt"

	"carelink-backend/internal/services"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUndefinedTable  = "42P01"
	codeUniqueViolation = "23505"
)

// mapError translates driver errors into the service error taxonomy.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return services.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUndefinedTable:
			return fmt.Errorf("%w: %s", services.ErrNotConfigured, pgErr.Message)
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", services.ErrConflict, pgErr.ConstraintName)
		}
	}
	return err
}
