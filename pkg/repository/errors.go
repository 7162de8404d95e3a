package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgDuplicateKeyCode = "23505"

// MapError translates driver-level errors into the caller's sentinels:
// sql.ErrNoRows becomes notFoundErr and a PostgreSQL unique violation
// becomes duplicateErr. Anything else passes through unchanged so
// transient failures stay distinguishable.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgDuplicateKeyCode {
		return duplicateErr
	}

	return err
}
