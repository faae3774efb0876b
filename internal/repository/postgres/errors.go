package postgres

import (
	"errors"
	"fmt"

	"mockreview/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return false
}

// IsPgInvalidInputError checks for malformed values such as a non-UUID id
func IsPgInvalidInputError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 22P02 = invalid_text_representation
		return pgErr.Code == "22P02"
	}
	return false
}

// MapError translates a driver error for the named resource into a domain error.
// Lookups by a malformed id are reported as not found.
func MapError(op, resource, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case IsPgNoRowsError(err), IsPgInvalidInputError(err):
		return fmt.Errorf("%s %s: %w", resource, id, domain.ErrNotFound)
	case IsPgForeignKeyError(err):
		return fmt.Errorf("%s references a missing record: %w", resource, domain.ErrNotFound)
	case IsPgDuplicateError(err):
		return &domain.ConflictError{
			Message:      fmt.Sprintf("%s already exists", resource),
			ResourceType: resource,
			ResourceID:   id,
		}
	default:
		return domain.NewStoreError(op, err)
	}
}
