package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kailas-cloud/docdex/internal/db"
)

// wrapErr attaches the operation name and classifies transient failures.
func wrapErr(op string, err error) error {
	return &db.Error{Op: op, Err: classify(err)}
}

// classify tags connection-level and serialization failures with
// db.ErrUnavailable so callers can retry them; everything else passes
// through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isTransientCause(err) {
		return fmt.Errorf("%w: %w", db.ErrUnavailable, err)
	}
	return err
}

func isTransientCause(err error) bool {
	// pool acquisition or statement deadline expired
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if pgconn.SafeToRetry(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return transientSQLState(pgErr.Code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

// transientSQLState matches SQLSTATE classes that indicate a retryable
// condition: connection exceptions (08), insufficient resources (53),
// operator intervention (57), and serialization/deadlock failures.
func transientSQLState(code string) bool {
	switch code {
	case "40001", "40P01":
		return true
	}
	for _, class := range []string{"08", "53", "57"} {
		if strings.HasPrefix(code, class) {
			return true
		}
	}
	return false
}
