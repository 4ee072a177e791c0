package database

import (
	"database/sql"
	"database/sql/driver"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// Error kinds. Match them with errors.Is.
var (
	ErrConfig          = errors.New("database: configuration error")
	ErrConnectionLost  = errors.New("database: connection lost")
	ErrDatabase        = errors.New("database: query failed")
	ErrInstallation    = errors.New("database: not installed")
	ErrScriptExecution = errors.New("database: script execution failed")
)

const (
	msgConnect          = "Couldn't connect to the database using the given credentials. Check the settings file."
	msgConnectionLost   = "Connection to database was lost."
	msgEmptyQuery       = "Query and link cannot be empty."
	msgNotInstalled     = "Unable to handle this request. This site is not configured or the database is down."
	msgMissingTransform = "Transform requires an identifier."
)

// Error is returned by every operation that fails against the database.
// Message is safe to show to users; Query is kept for operators and is never
// part of Error().
type Error struct {
	Kind    error
	Message string
	Query   string
	Err     error
}

func newError(kind error, message, query string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Query: query, Err: cause}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool { return target == e.Kind }

// ScriptError collects the statements of a script that failed.
type ScriptError struct {
	Failures []error
}

func (e *ScriptError) Error() string {
	var b strings.Builder
	b.WriteString("There were a number of issues:")
	for _, err := range e.Failures {
		b.WriteString(" {")
		b.WriteString(err.Error())
		b.WriteString("};")
	}
	return b.String()
}

func (e *ScriptError) Is(target error) bool { return target == ErrScriptExecution }

func (e *ScriptError) Unwrap() []error { return e.Failures }

// asError returns err unchanged when it already is an *Error and wraps it as
// an ErrDatabase otherwise.
func asError(err error, query string) *Error {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr
	}
	return newError(ErrDatabase, err.Error(), query, err)
}

// normalize maps a driver error onto ErrConnectionLost or ErrDatabase.
func normalize(err error, query string) *Error {
	if connectionLost(err) {
		return newError(ErrConnectionLost, msgConnectionLost, query, err)
	}
	return asError(err, query)
}

func connectionLost(err error) bool {
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF):
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}
