package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-org-site/internal/config"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/jackc/pgx/v5/pgconn"
)

var fixedNow = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	db := newDB(conn, config.DriverPostgres, NewPostgresErrorClassifier(), logger.Nop())
	db.retryBase = time.Millisecond
	return db, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func userRow() *sqlmock.Rows {
	return sqlmock.NewRows(userColumns)
}

func sessionRow() *sqlmock.Rows {
	return sqlmock.NewRows(sessionColumns)
}

func avatarRow() *sqlmock.Rows {
	return sqlmock.NewRows(avatarColumns)
}

func fixedClock() time.Time { return fixedNow }

