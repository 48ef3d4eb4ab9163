// Package pgdb implements the Repository interfaces on PostgreSQL with sqlx.
//
// Uniqueness invariants live in the schema; unique violations are translated
// back to the matching domain conflict errors here.
package pgdb

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

// violatesUnique reports whether err is a unique violation on the named
// constraint.
func violatesUnique(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation && pqErr.Constraint == constraint
	}
	return false
}
