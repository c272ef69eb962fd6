package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes recognized by MapError.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// ErrConstraint wraps check constraint violations, such as an out-of-range
// ticket status, that slipped past domain validation.
var ErrConstraint = errors.New("constraint violation")

// MapError translates database errors to domain errors: sql.ErrNoRows
// becomes notFoundErr and unique violations become duplicateErr, each
// annotated with the violated constraint when known. Check violations wrap
// ErrConstraint. Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return annotate(duplicateErr, pgErr.ConstraintName)
	case pgCheckViolation:
		return annotate(ErrConstraint, pgErr.ConstraintName)
	}
	return err
}

func annotate(err error, constraint string) error {
	if constraint == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, constraint)
}
