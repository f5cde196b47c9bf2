// Package store persists events, entries, per-entry choices, weather
// snapshots and attestations in an embedded analytical database, with
// schema migrations and lock-contention retries.
package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"weatherattest/internal/oracleerr"
	"weatherattest/observability"
)

const (
	retryTimeout     = 100 * time.Millisecond
	retryMaxAttempts = 5
)

// Store wraps the embedded event database. It holds no long-lived
// connection; read and write connections are opened on demand and closed
// after each operation, matching the reference oracle's connection model.
type Store struct {
	dsn string
}

// Open validates the DSN and applies pending migrations, returning a Store
// ready for use. The physical file (events.db3 in the reference layout) is
// created on first write if it does not already exist.
func Open(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, oracleerr.DataQuery(nil, "store: path must be configured")
	}
	s := &Store{dsn: trimmed}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	db, err := s.writeConn(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return oracleerr.DataQuery(err, "store: apply schema")
	}

	var version int
	row := db.QueryRowContext(ctx, `SELECT version FROM schema_version LIMIT 1`)
	switch err := row.Scan(&version); err {
	case sql.ErrNoRows:
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_version(version) VALUES (?)`, schemaVersion); err != nil {
			return oracleerr.DataQuery(err, "store: record schema version")
		}
	case nil:
		// Future migrations would branch on version here; version 1 is
		// the only schema this store knows about today.
	default:
		return oracleerr.DataQuery(err, "store: read schema version")
	}
	return nil
}

// readConn opens a connection for read operations, making up to
// retryMaxAttempts attempts, retryTimeout apart, while the database file is
// locked by a concurrent writer. It opens the same DSN as writeConn; the
// connection is not put in read-only mode.
func (s *Store) readConn(ctx context.Context) (*sql.DB, error) {
	return s.openWithRetry(ctx, "read")
}

// writeConn opens a read-write connection with the same retry policy.
func (s *Store) writeConn(ctx context.Context) (*sql.DB, error) {
	return s.openWithRetry(ctx, "write")
}

func (s *Store) openWithRetry(ctx context.Context, mode string) (*sql.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= retryMaxAttempts; attempt++ {
		db, err := s.tryOpen(ctx)
		if err == nil {
			return db, nil
		}
		lastErr = err
		if !isLockedErr(err) {
			return nil, oracleerr.DataQuery(err, "store: open %s connection", mode)
		}
		observability.DatabaseLockRetryTotal().WithLabelValues(mode, "retry").Inc()
		if attempt < retryMaxAttempts {
			time.Sleep(retryTimeout)
		}
	}
	observability.DatabaseLockRetryTotal().WithLabelValues(mode, "exhausted").Inc()
	return nil, oracleerr.DatabaseLockedf(lastErr, "store: %s connection still locked after %d attempts", mode, retryMaxAttempts)
}

func (s *Store) tryOpen(ctx context.Context) (*sql.DB, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, retryTimeout)
	defer cancel()

	db, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(attemptCtx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func isLockedErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "locked") || strings.Contains(msg, "busy") || strings.Contains(err.Error(), "context deadline exceeded")
}
