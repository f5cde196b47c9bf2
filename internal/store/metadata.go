package store

import (
	"context"
	"database/sql"
	"time"

	"weatherattest/internal/oracleerr"
)

// AddOracleMetadata records the oracle's own public key and display name.
// oracle_metadata holds a single row (singleton = 1); once it exists, a
// later call is ignored and leaves the stored key unchanged.
func (s *Store) AddOracleMetadata(ctx context.Context, pubkey []byte, name string, createdAt time.Time) error {
	db, err := s.writeConn(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		INSERT OR IGNORE INTO oracle_metadata (singleton, pubkey, name, created_at)
		VALUES (1, ?, ?, ?)
	`, pubkey, name, createdAt.UTC())
	if err != nil {
		return oracleerr.DataQuery(err, "store: insert oracle metadata")
	}
	return nil
}

// GetStoredPublicKey returns the oracle's public key as previously recorded
// by AddOracleMetadata, or NotFound before the first boot has run.
func (s *Store) GetStoredPublicKey(ctx context.Context) ([]byte, error) {
	db, err := s.readConn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var pubkey []byte
	row := db.QueryRowContext(ctx, `SELECT pubkey FROM oracle_metadata WHERE singleton = 1`)
	if err := row.Scan(&pubkey); err != nil {
		if err == sql.ErrNoRows {
			return nil, oracleerr.NotFoundf("store: oracle metadata not yet initialized")
		}
		return nil, oracleerr.DataQuery(err, "store: scan oracle metadata")
	}
	return pubkey, nil
}
