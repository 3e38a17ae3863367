package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
)

// postgres error codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// database/sql does not export the error returned once the pool is closed.
const errDBClosedText = "sql: database is closed"

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// trapNoRowsErr maps psql "no rows" err to `notFound`.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return wrapErr(err, msg)
}

// wrapErr annotates err with msg. A closed pool cannot recover, so it becomes a shutdown error.
func wrapErr(err error, msg string) error {
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), errDBClosedText) {
		return core.NewShutdownError(msg + ": " + err.Error())
	}
	return errors.Wrap(err, msg)
}

// Executor is satisfied by *sqlx.DB and *sqlx.Tx.
type Executor interface {
	sqlx.ExtContext
}
