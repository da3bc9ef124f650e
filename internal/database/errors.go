package database

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound indicates the requested task or template does not exist.
	// Callers distinguish this from validation failures and storage errors.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates an insert was rejected by a uniqueness
	// constraint. The daily generator folds this into its "skipped" result
	// rather than surfacing it as a failure.
	ErrDuplicate = errors.New("duplicate")
)

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique constraint violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
