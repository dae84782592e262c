package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-org-site/internal/config"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/internal/metrics"
	"github.com/MKhiriev/go-org-site/migrations"
	"github.com/sethvargo/go-retry"
)

const (
	defaultRetryAttempts = 3
	defaultRetryBase     = 50 * time.Millisecond
)

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// DB wraps *sql.DB with the SQL dialect it talks to, an error classifier for
// the retry loop and a logger.
type DB struct {
	*sql.DB
	dialect            string
	queries            *queries
	errorClassificator ErrorClassificator
	logger             *logger.Logger

	retryAttempts uint64
	retryBase     time.Duration
}

func newDB(conn *sql.DB, dialect string, classifier ErrorClassificator, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		dialect:            dialect,
		queries:            newQueries(dialect),
		errorClassificator: classifier,
		logger:             log,
		retryAttempts:      defaultRetryAttempts,
		retryBase:          defaultRetryBase,
	}
}

// NewDB opens a connection for the configured driver.
func NewDB(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres, "":
		return NewConnectPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		return NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate applies the embedded migrations of the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// withRetry runs fn until it succeeds, fails with a non-retryable error or
// the attempt budget is spent. op labels the retry metrics.
func (db *DB) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(db.retryAttempts, retry.NewExponential(db.retryBase))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		metrics.DBAttempts.WithLabelValues(op).Inc()

		err := fn(ctx)
		if err == nil {
			return nil
		}

		if db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable {
			metrics.DBRetries.WithLabelValues(op).Inc()
			logger.FromContext(ctx).Warn().
				Err(err).
				Str("func", "DB.withRetry").
				Str("op", op).
				Int("attempt", attempt).
				Msg("transient database error, retrying")
			return retry.RetryableError(err)
		}

		return err
	})
}

// inTx runs fn inside a transaction, retrying the whole transaction on
// transient errors. fn must not keep references to tx after it returns.
func (db *DB) inTx(ctx context.Context, op string, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return db.withRetry(ctx, op, func(ctx context.Context) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
		}
		defer tx.Rollback()

		if err := fn(ctx, tx); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
		}

		return nil
	})
}
