// Package oracle is the public facade (C7): the operations an outer HTTP
// layer (out of scope here) calls to create events, register entries, and
// drive the ETL cycle.
package oracle

import (
	"context"
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"weatherattest/crypto"
	"weatherattest/internal/announcement"
	"weatherattest/internal/attestation"
	"weatherattest/internal/lifecycle"
	"weatherattest/internal/oracleerr"
	"weatherattest/internal/outcome"
	"weatherattest/internal/store"
	"weatherattest/internal/weatherdata"
)

// Oracle wires together every component behind the facade's operations.
type Oracle struct {
	store      *store.Store
	controller *lifecycle.Controller
	privateKey *crypto.PrivateKey
	logger     *slog.Logger
	tracer     trace.Tracer
}

// New constructs the facade. privateKey is the oracle's own signing key,
// already loaded or generated by the caller at startup. tracer may be nil,
// in which case CreateEvent and RunETL skip span creation.
func New(st *store.Store, weather *weatherdata.Layer, privateKey *crypto.PrivateKey, logger *slog.Logger, tracer trace.Tracer) *Oracle {
	signer := attestation.New(st, privateKey, logger)
	controller := lifecycle.New(st, weather, signer, lifecycle.WithLogger(logger))
	return &Oracle{store: st, controller: controller, privateKey: privateKey, logger: logger, tracer: tracer}
}

// startSpan begins a span named op when a tracer is configured, otherwise
// returns the context and a no-op end func unchanged.
func (o *Oracle) startSpan(ctx context.Context, op string) (context.Context, func()) {
	if o.tracer == nil {
		return ctx, func() {}
	}
	spanCtx, span := o.tracer.Start(ctx, op)
	return spanCtx, func() { span.End() }
}

// CreateEvent is the input to Oracle.CreateEvent: everything the caller
// chooses, before C1 and the announcement fill in the commitment fields.
type CreateEvent struct {
	ID                     string
	ObservationDate        time.Time
	SigningDate            time.Time
	Locations              []string
	TotalAllowedEntries    int
	NumberOfValuesPerEntry int
	NumberOfPlacesWin      int
	CoordinatorPubkey      string
}

// CreateEvent validates a new event's identifiers and dates, runs the
// outcome enumerator (C1), builds the event's announcement under a fresh
// nonce, and persists the result via C3.
func (o *Oracle) CreateEvent(ctx context.Context, in CreateEvent) (store.Event, error) {
	ctx, end := o.startSpan(ctx, "create_event")
	defer end()

	if err := validateEventUUIDv7(in.ID); err != nil {
		return store.Event{}, err
	}
	if !in.SigningDate.After(in.ObservationDate) {
		return store.Event{}, oracleerr.BadEventf("signing_date %s must be strictly after observation_date %s", in.SigningDate, in.ObservationDate)
	}
	now := time.Now().UTC()
	if in.ObservationDate.Before(now) || in.SigningDate.Before(now) {
		return store.Event{}, oracleerr.EventMaturityf("event dates must be in the future at creation: observation_date %s, signing_date %s, now %s", in.ObservationDate, in.SigningDate, now)
	}
	if len(in.Locations) == 0 {
		return store.Event{}, oracleerr.BadEventf("event must reference at least one station")
	}

	outcomes, err := outcome.Enumerate(in.NumberOfValuesPerEntry, in.NumberOfPlacesWin, in.TotalAllowedEntries)
	if err != nil {
		return store.Event{}, err
	}
	messages := outcome.Messages(outcomes)

	nonce, err := crypto.GenerateNonce()
	if err != nil {
		return store.Event{}, oracleerr.PrivateKeyf(err, "create_event: generate nonce")
	}

	ann := announcement.Announcement{
		PublicKey:       o.privateKey.PubKey().Bytes(),
		NoncePoint:      nonce.Point(),
		OutcomeMessages: messages,
		Expiry:          in.SigningDate.Add(7 * 24 * time.Hour),
	}
	encoded, err := announcement.Encode(ann)
	if err != nil {
		return store.Event{}, oracleerr.BadEventf("create_event: encode announcement: %v", err)
	}

	ev := store.Event{
		ID:                     in.ID,
		ObservationDate:        in.ObservationDate.UTC(),
		SigningDate:            in.SigningDate.UTC(),
		Locations:              in.Locations,
		TotalAllowedEntries:    in.TotalAllowedEntries,
		NumberOfValuesPerEntry: in.NumberOfValuesPerEntry,
		NumberOfPlacesWin:      in.NumberOfPlacesWin,
		Nonce:                  nonce.Bytes(),
		Announcement:           encoded,
		CoordinatorPubkey:      in.CoordinatorPubkey,
		CreatedAt:              time.Now().UTC(),
	}
	if err := o.store.AddEvent(ctx, ev); err != nil {
		return store.Event{}, err
	}
	return ev, nil
}

// AddEventEntry is the input to AddEntry.
type AddEventEntry struct {
	ID           string
	EventID      string
	Observations []store.ExpectedObservation
}

// AddEntry validates the entry's identifier, the parent event's existence,
// total choice budget across all stations and station membership, then persists the
// entry. Exceeding an event's capacity is logged but never rejected,
// matching invariant 5's soft cap.
func (o *Oracle) AddEntry(ctx context.Context, in AddEventEntry) (store.Entry, error) {
	if err := validateEntryUUIDv7(in.ID); err != nil {
		return store.Entry{}, err
	}

	ev, err := o.store.GetEvent(ctx, in.EventID)
	if err != nil {
		return store.Entry{}, err
	}

	nonNull := 0
	stations := make(map[string]bool, len(ev.Locations))
	for _, loc := range ev.Locations {
		stations[loc] = true
	}
	for _, obs := range in.Observations {
		if !stations[obs.Station] {
			return store.Entry{}, oracleerr.BadEntryf("station %q is not a location of event %s", obs.Station, ev.ID)
		}
		for _, choice := range []*store.Choice{obs.TempHigh, obs.TempLow, obs.WindSpeed} {
			if choice != nil {
				nonNull++
			}
		}
	}
	if nonNull > ev.NumberOfValuesPerEntry {
		return store.Entry{}, oracleerr.BadEntryf("entry %s predicts %d fields, exceeding number_of_values_per_entry %d", in.ID, nonNull, ev.NumberOfValuesPerEntry)
	}

	now := time.Now().UTC()
	if !now.Before(ev.ObservationDate) {
		o.logger.Warn("add_entry: event observation window already open, accepting late entry",
			"event_id", ev.ID, "entry_id", in.ID)
	}

	entries, err := o.store.ListEntries(ctx, ev.ID)
	if err != nil {
		return store.Entry{}, err
	}
	if len(entries) >= ev.TotalAllowedEntries {
		o.logger.Warn("add_entry: event at or over capacity, accepting anyway",
			"event_id", ev.ID, "entry_id", in.ID, "total_allowed_entries", ev.TotalAllowedEntries, "current_entries", len(entries))
	}

	entry := store.Entry{ID: in.ID, EventID: ev.ID, CreatedAt: now}
	if err := o.store.AddEntry(ctx, entry, in.Observations); err != nil {
		return store.Entry{}, err
	}
	return entry, nil
}

// GetEvent returns a single event by id.
func (o *Oracle) GetEvent(ctx context.Context, id string) (store.Event, error) {
	return o.store.GetEvent(ctx, id)
}

// GetEntry returns a single entry and its expected observations.
func (o *Oracle) GetEntry(ctx context.Context, eventID, entryID string) (store.Entry, []store.ExpectedObservation, error) {
	return o.store.GetEntry(ctx, eventID, entryID)
}

// ListEvents returns event summaries bounded by filter.
func (o *Oracle) ListEvents(ctx context.Context, filter store.EventFilter) ([]store.EventSummary, error) {
	return o.store.ListEventSummaries(ctx, filter)
}

// RunETL invokes the lifecycle controller end-to-end for one cycle. Callers
// are expected to launch this as a background task; it is not awaited by
// any request that triggers it.
func (o *Oracle) RunETL(ctx context.Context, processID string) error {
	ctx, end := o.startSpan(ctx, "run_etl")
	defer end()
	return o.controller.Run(ctx, processID)
}

// PublicKey returns the oracle's compressed public key, base64-encoded.
func (o *Oracle) PublicKey() string {
	return base64.StdEncoding.EncodeToString(o.privateKey.PubKey().CompressedBytes())
}

func validateEventUUIDv7(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return oracleerr.BadEventf("id %q is not a valid UUID: %v", id, err)
	}
	if parsed.Version() != 7 {
		return oracleerr.BadEventf("id %q must be UUIDv7, got version %d", id, parsed.Version())
	}
	return nil
}

func validateEntryUUIDv7(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return oracleerr.BadEntryf("id %q is not a valid UUID: %v", id, err)
	}
	if parsed.Version() != 7 {
		return oracleerr.BadEntryf("id %q must be UUIDv7, got version %d", id, parsed.Version())
	}
	return nil
}
