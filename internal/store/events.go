package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"weatherattest/internal/oracleerr"
)

// AddEvent persists a newly constructed event. The caller (C7) is
// responsible for having already run the outcome enumerator and built the
// announcement; the store treats both nonce and announcement as opaque
// blobs.
func (s *Store) AddEvent(ctx context.Context, ev Event) error {
	db, err := s.writeConn(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		INSERT INTO events (
			id, observation_date, signing_date, locations,
			total_allowed_entries, number_of_values_per_entry, number_of_places_win,
			nonce, announcement, attestation_signature, coordinator_pubkey, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ev.ID, ev.ObservationDate.UTC(), ev.SigningDate.UTC(), strings.Join(ev.Locations, ","),
		ev.TotalAllowedEntries, ev.NumberOfValuesPerEntry, ev.NumberOfPlacesWin,
		ev.Nonce, ev.Announcement, nullableBlob(ev.AttestationSignature), nullableString(ev.CoordinatorPubkey), ev.CreatedAt.UTC(),
	)
	if err != nil {
		return oracleerr.DataQuery(err, "store: insert event %s", ev.ID)
	}
	return nil
}

// GetEvent loads a single event by id.
func (s *Store) GetEvent(ctx context.Context, id string) (Event, error) {
	db, err := s.readConn(ctx)
	if err != nil {
		return Event{}, err
	}
	defer db.Close()

	row := db.QueryRowContext(ctx, `
		SELECT id, observation_date, signing_date, locations,
			total_allowed_entries, number_of_values_per_entry, number_of_places_win,
			nonce, announcement, attestation_signature, coordinator_pubkey, created_at
		FROM events WHERE id = ?
	`, id)
	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return Event{}, oracleerr.NotFoundf("store: event %s not found", id)
	}
	if err != nil {
		return Event{}, oracleerr.DataQuery(err, "store: scan event %s", id)
	}
	return ev, nil
}

// ListEventSummaries returns events with their entry counts, newest first,
// bounded by filter.Limit (defaulting to 100 when unset) to avoid an
// unbounded scan of the events table.
func (s *Store) ListEventSummaries(ctx context.Context, filter EventFilter) ([]EventSummary, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	db, err := s.readConn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT e.id, e.observation_date, e.signing_date, e.locations,
			e.total_allowed_entries, e.number_of_values_per_entry, e.number_of_places_win,
			e.nonce, e.announcement, e.attestation_signature, e.coordinator_pubkey, e.created_at,
			COUNT(en.id)
		FROM events e
		LEFT JOIN events_entries en ON en.event_id = e.id
		GROUP BY e.id
		ORDER BY e.created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, oracleerr.DataQuery(err, "store: list event summaries")
	}
	defer rows.Close()

	var out []EventSummary
	for rows.Next() {
		ev, total, err := scanEventSummary(rows)
		if err != nil {
			return nil, oracleerr.DataQuery(err, "store: scan event summary")
		}
		out = append(out, EventSummary{Event: ev, TotalEntries: total})
	}
	return out, rows.Err()
}

// GetActiveEvents returns every event without an attestation (Live,
// Running or Completed), the set the ETL controller refreshes and scores.
func (s *Store) GetActiveEvents(ctx context.Context) ([]Event, error) {
	return s.queryEvents(ctx, `
		SELECT id, observation_date, signing_date, locations,
			total_allowed_entries, number_of_values_per_entry, number_of_places_win,
			nonce, announcement, attestation_signature, coordinator_pubkey, created_at
		FROM events WHERE attestation_signature IS NULL
	`)
}

// GetEventsToSign returns the subset of the given event ids that are
// Completed (observation_date + 1 day reached, no attestation yet).
func (s *Store) GetEventsToSign(ctx context.Context, ids []string, now time.Time) ([]Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, now.UTC())

	return s.queryEvents(ctx, `
		SELECT id, observation_date, signing_date, locations,
			total_allowed_entries, number_of_values_per_entry, number_of_places_win,
			nonce, announcement, attestation_signature, coordinator_pubkey, created_at
		FROM events
		WHERE attestation_signature IS NULL
			AND id IN (`+placeholders+`)
			AND datetime(observation_date, '+1 day') <= ?
	`, args...)
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	db, err := s.readConn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, oracleerr.DataQuery(err, "store: query events")
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		ev, err := scanEventRow(rows)
		if err != nil {
			return nil, oracleerr.DataQuery(err, "store: scan event")
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// UpdateEventAttestation persists the revealed adaptor secret. Idempotent:
// if an attestation is already present this is a no-op, matching C5's
// never-overwrite invariant.
func (s *Store) UpdateEventAttestation(ctx context.Context, eventID string, attestation []byte) error {
	db, err := s.writeConn(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		UPDATE events SET attestation_signature = ?
		WHERE id = ? AND attestation_signature IS NULL
	`, attestation, eventID)
	if err != nil {
		return oracleerr.DataQuery(err, "store: update attestation for event %s", eventID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	return scanEventRow(row)
}

func scanEventRow(row rowScanner) (Event, error) {
	var ev Event
	var locations string
	var attestation, nonce, announcementBlob []byte
	var coordinator sql.NullString
	if err := row.Scan(
		&ev.ID, &ev.ObservationDate, &ev.SigningDate, &locations,
		&ev.TotalAllowedEntries, &ev.NumberOfValuesPerEntry, &ev.NumberOfPlacesWin,
		&nonce, &announcementBlob, &attestation, &coordinator, &ev.CreatedAt,
	); err != nil {
		return Event{}, err
	}
	ev.Nonce = nonce
	ev.Announcement = announcementBlob
	ev.AttestationSignature = attestation
	if coordinator.Valid {
		ev.CoordinatorPubkey = coordinator.String
	}
	if locations != "" {
		ev.Locations = strings.Split(locations, ",")
	}
	ev.ObservationDate = ev.ObservationDate.UTC()
	ev.SigningDate = ev.SigningDate.UTC()
	ev.CreatedAt = ev.CreatedAt.UTC()
	return ev, nil
}

func scanEventSummary(row rowScanner) (Event, int, error) {
	var ev Event
	var locations string
	var attestation, nonce, announcementBlob []byte
	var coordinator sql.NullString
	var total int
	if err := row.Scan(
		&ev.ID, &ev.ObservationDate, &ev.SigningDate, &locations,
		&ev.TotalAllowedEntries, &ev.NumberOfValuesPerEntry, &ev.NumberOfPlacesWin,
		&nonce, &announcementBlob, &attestation, &coordinator, &ev.CreatedAt, &total,
	); err != nil {
		return Event{}, 0, err
	}
	ev.Nonce = nonce
	ev.Announcement = announcementBlob
	ev.AttestationSignature = attestation
	if coordinator.Valid {
		ev.CoordinatorPubkey = coordinator.String
	}
	if locations != "" {
		ev.Locations = strings.Split(locations, ",")
	}
	ev.ObservationDate = ev.ObservationDate.UTC()
	ev.SigningDate = ev.SigningDate.UTC()
	ev.CreatedAt = ev.CreatedAt.UTC()
	return ev, total, nil
}

func nullableBlob(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
