// Package pgerr translates PostgreSQL driver errors into the common error
// taxonomy. It is the only place that inspects driver-level error types.
package pgerr

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/staffbook/internal/common"
	"github.com/dmitrijs2005/staffbook/internal/netx"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes handled here.
const (
	uniqueViolation   = "23505"
	adminShutdown     = "57P01"
	crashShutdown     = "57P02"
	cannotConnectNow  = "57P03"
	connectionFailure = "08"
)

// Constraints maps a unique-constraint name to the field it guards.
type Constraints map[string]string

// Map wraps err for callers. sql.ErrNoRows becomes common.ErrorNotFound, a
// unique violation becomes *common.ConflictError for entity, and connection
// failures match common.ErrorStoreUnavailable. Anything else is wrapped as
// "db error".
func Map(err error, entity string, constraints Constraints) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &common.ConflictError{Entity: entity, Field: constraints[pgErr.ConstraintName]}
	}

	if IsUnavailable(err) {
		return fmt.Errorf("%w: %w", common.ErrorStoreUnavailable, err)
	}

	return fmt.Errorf("db error: %w", err)
}

// IsUnavailable reports whether err means the store could not be reached.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case adminShutdown, crashShutdown, cannotConnectNow:
			return true
		}
		return strings.HasPrefix(pgErr.Code, connectionFailure)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	return netx.IsUnreachable(err)
}
