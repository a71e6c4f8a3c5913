package database

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// RetryConfig defines how often and how patiently an operation is retried.
// Idempotent operations may be resent after a connection dropped mid-statement;
// the rest are resent only when the server provably did not apply them.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Idempotent   bool
}

// ReadRetryConfig covers selects, counts and keyed updates and deletes
func ReadRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		Idempotent:   true,
	}
}

// InsertRetryConfig covers inserts, which would duplicate rows if resent blindly
func InsertRetryConfig() RetryConfig {
	cfg := ReadRetryConfig()
	cfg.Idempotent = false
	return cfg
}

// SQLState extracts the PostgreSQL error code from pgdriver or pgx errors, "" if none
func SQLState(err error) string {
	var pgdErr pgdriver.Error
	if errors.As(err, &pgdErr) {
		return pgdErr.Field('C')
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

// notAppliedStates are failures after which the statement is known to have no
// effect: the connection was refused, or the transaction was rolled back.
var notAppliedStates = []string{
	"08001", // sqlclient_unable_to_establish_sqlconnection
	"08004", // sqlserver_rejected_establishment_of_sqlconnection
	"40001", // serialization_failure
	"40P01", // deadlock_detected
	"53300", // too_many_connections
	"57P03", // cannot_connect_now
}

// dialFailures are driver messages raised before a statement was sent
var dialFailures = []string{
	"connection refused",
	"no such host",
	"network is unreachable",
	"too many clients",
	"server is not accepting",
	"connection pool exhausted",
}

// midStatementFailures may hide a statement the server already applied
var midStatementFailures = []string{
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"eof",
	"connection closed",
	"bad connection",
	"temporary failure",
}

// transientState reports SQLSTATE classes worth another attempt: connection
// exceptions (08, except protocol violations), rolled back transactions,
// insufficient resources (53) and a server that is starting up.
func transientState(code string) bool {
	switch {
	case slices.Contains(notAppliedStates, code):
		return true
	case strings.HasPrefix(code, "08"):
		return code != "08P01"
	case strings.HasPrefix(code, "53"):
		return true
	}
	return false
}

func messageContains(err error, fragments []string) bool {
	msg := strings.ToLower(err.Error())
	return slices.ContainsFunc(fragments, func(f string) bool { return strings.Contains(msg, f) })
}

func permanent(err error) bool {
	return err == nil ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, sql.ErrNoRows)
}

// isRetryableError reports whether an idempotent operation may be run again
func isRetryableError(err error) bool {
	if permanent(err) {
		return false
	}
	if code := SQLState(err); code != "" {
		return transientState(code)
	}
	return messageContains(err, dialFailures) || messageContains(err, midStatementFailures)
}

// notApplied reports whether the server certainly did not apply the statement,
// which is the only case an insert may be resent.
func notApplied(err error) bool {
	if permanent(err) {
		return false
	}
	if code := SQLState(err); code != "" {
		return slices.Contains(notAppliedStates, code)
	}
	return messageContains(err, dialFailures)
}

func shouldRetry(err error, idempotent bool) bool {
	if idempotent {
		return isRetryableError(err)
	}
	return notApplied(err)
}

// RetryWithBackoff runs operation until it succeeds, fails permanently for the
// given policy, runs out of attempts or ctx ends. Delays grow exponentially.
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, operation func() error) error {
	attempts := max(cfg.MaxAttempts, 1)
	delay := cfg.InitialDelay

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = operation(); err == nil {
			return nil
		}
		if !shouldRetry(err, cfg.Idempotent) || attempt == attempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay)
	}
	return err
}
