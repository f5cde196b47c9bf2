package store

import (
	"context"
	"database/sql"

	"weatherattest/internal/oracleerr"
)

// AddEntry inserts an entry and its per-station choices inside a single
// transaction, so a crash between the two inserts can never leave an entry
// without its expected observations.
func (s *Store) AddEntry(ctx context.Context, entry Entry, observations []ExpectedObservation) error {
	db, err := s.writeConn(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return oracleerr.DataQuery(err, "store: begin add entry %s", entry.ID)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO events_entries (id, event_id, score, created_at)
		VALUES (?, ?, ?, ?)
	`, entry.ID, entry.EventID, entry.Score, entry.CreatedAt.UTC()); err != nil {
		return oracleerr.DataQuery(err, "store: insert entry %s", entry.ID)
	}

	for _, obs := range observations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO expected_observations (entry_id, station, temp_high, temp_low, wind_speed)
			VALUES (?, ?, ?, ?, ?)
		`, entry.ID, obs.Station, choiceOrNil(obs.TempHigh), choiceOrNil(obs.TempLow), choiceOrNil(obs.WindSpeed)); err != nil {
			return oracleerr.DataQuery(err, "store: insert expected observation for entry %s station %s", entry.ID, obs.Station)
		}
	}

	if err := tx.Commit(); err != nil {
		return oracleerr.DataQuery(err, "store: commit add entry %s", entry.ID)
	}
	return nil
}

// GetEntry loads one entry together with its expected observations.
func (s *Store) GetEntry(ctx context.Context, eventID, entryID string) (Entry, []ExpectedObservation, error) {
	db, err := s.readConn(ctx)
	if err != nil {
		return Entry{}, nil, err
	}
	defer db.Close()

	var entry Entry
	row := db.QueryRowContext(ctx, `
		SELECT id, event_id, score, created_at FROM events_entries WHERE id = ? AND event_id = ?
	`, entryID, eventID)
	if err := row.Scan(&entry.ID, &entry.EventID, &entry.Score, &entry.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, nil, oracleerr.NotFoundf("store: entry %s not found for event %s", entryID, eventID)
		}
		return Entry{}, nil, oracleerr.DataQuery(err, "store: scan entry %s", entryID)
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	observations, err := s.listObservations(ctx, db, entryID)
	if err != nil {
		return Entry{}, nil, err
	}
	return entry, observations, nil
}

// ListEntries returns every entry registered against an event, ordered by
// creation so score-ranking (C5) is deterministic for equal scores.
func (s *Store) ListEntries(ctx context.Context, eventID string) ([]Entry, error) {
	db, err := s.readConn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, event_id, score, created_at FROM events_entries
		WHERE event_id = ? ORDER BY created_at ASC
	`, eventID)
	if err != nil {
		return nil, oracleerr.DataQuery(err, "store: list entries for event %s", eventID)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EventID, &e.Score, &e.CreatedAt); err != nil {
			return nil, oracleerr.DataQuery(err, "store: scan entry")
		}
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateEntryScores applies the rescoring pass's output in one statement
// per entry. It stops at the first failed update; callers batch per-event,
// so a failure leaves other events' scores unaffected.
func (s *Store) UpdateEntryScores(ctx context.Context, scores map[string]int) error {
	if len(scores) == 0 {
		return nil
	}
	db, err := s.writeConn(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	for entryID, score := range scores {
		if _, err := db.ExecContext(ctx, `UPDATE events_entries SET score = ? WHERE id = ?`, score, entryID); err != nil {
			return oracleerr.DataQuery(err, "store: update score for entry %s", entryID)
		}
	}
	return nil
}

func (s *Store) listObservations(ctx context.Context, db *sql.DB, entryID string) ([]ExpectedObservation, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT station, temp_high, temp_low, wind_speed FROM expected_observations WHERE entry_id = ?
	`, entryID)
	if err != nil {
		return nil, oracleerr.DataQuery(err, "store: list expected observations for entry %s", entryID)
	}
	defer rows.Close()

	var out []ExpectedObservation
	for rows.Next() {
		var obs ExpectedObservation
		var tempHigh, tempLow, windSpeed sql.NullString
		if err := rows.Scan(&obs.Station, &tempHigh, &tempLow, &windSpeed); err != nil {
			return nil, oracleerr.DataQuery(err, "store: scan expected observation")
		}
		obs.TempHigh = choiceFromNull(tempHigh)
		obs.TempLow = choiceFromNull(tempLow)
		obs.WindSpeed = choiceFromNull(windSpeed)
		out = append(out, obs)
	}
	return out, rows.Err()
}

func choiceOrNil(c *Choice) any {
	if c == nil {
		return nil
	}
	return string(*c)
}

func choiceFromNull(s sql.NullString) *Choice {
	if !s.Valid {
		return nil
	}
	c := Choice(s.String)
	return &c
}
