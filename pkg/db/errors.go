package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique violation.
// Named constraints, when given, must also match. The message fallback keeps
// the check working for the sqlite driver used in tests.
func IsUniqueViolation(err error, constraints ...string) bool {
	if err == nil {
		return false
	}

	code, constraint := pgErrorParts(err)
	isUnique := code == uniqueViolationCode ||
		strings.Contains(err.Error(), "duplicate key value") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
	if !isUnique {
		return false
	}

	for _, name := range constraints {
		if name == "" {
			continue
		}
		if constraint != name && !strings.Contains(err.Error(), name) {
			return false
		}
	}
	return true
}

func pgErrorParts(err error) (code, constraint string) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}
