package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrDuplicateName = errors.New("name already in use")
	ErrTransaction   = errors.New("transaction failed")
	ErrValidation    = errors.New("invalid input")
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation. The in-transaction uniqueness checks are a fast path; the real
// guarantee is the constraint, so violations at insert time map to the same
// domain error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
