package dberrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
)

const (
	codeUniqueViolation = "23505"
	codeUndefinedTable  = "42P01"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUndefinedTable reports a query against a table that does not exist,
// typically a database that was never migrated.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUndefinedTable
}

// IsConnectionError reports SQLSTATE class 08 (connection exception).
func IsConnectionError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08")
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
