package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	sqliteUniqueViolation = "UNIQUE constraint failed:"
)

// UniqueViolation reports whether err is a unique constraint violation and
// returns the constraint that fired: its name on Postgres, or the
// "table.column" sqlite reports. Offending values are never included.
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", false
		}
		return pgErr.ConstraintName, true
	}
	// sqlite: "UNIQUE constraint failed: employees.email"
	if _, column, found := strings.Cut(err.Error(), sqliteUniqueViolation); found {
		column, _, _ = strings.Cut(strings.TrimSpace(column), " ")
		return strings.TrimSuffix(column, ","), true
	}
	return "", false
}
