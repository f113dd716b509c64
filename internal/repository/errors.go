package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique constraint rejects a write.
	ErrConflict = errors.New("record already exists")
	// ErrForeignKey is returned when a write references a missing parent row.
	ErrForeignKey = errors.New("referenced record does not exist")
	// ErrUnknownUser is returned when a history write names a user that no longer exists.
	ErrUnknownUser = errors.New("user does not exist")
)

// PostgreSQL error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translate maps driver errors onto the package sentinels and leaves others untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return ErrConflict
		case pqForeignKeyViolation:
			return ErrForeignKey
		}
	}
	return err
}

// violates reports whether err is a Postgres error raised by the named constraint.
func violates(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Constraint == constraint
}

type rowScanner interface {
	Scan(dest ...any) error
}
