// Package lifecycle implements the ETL controller (C6): a demand-invoked
// task that refreshes weather, rescores active events, and signs the ones
// that have closed. Phases run strictly in order; within a phase, events
// are processed sequentially and a failure on one never blocks the rest.
package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"weatherattest/internal/attestation"
	"weatherattest/internal/scoring"
	"weatherattest/internal/store"
	"weatherattest/internal/weatherdata"
	"weatherattest/observability"
)

// Controller owns one ETL cycle's collaborators.
type Controller struct {
	store     *store.Store
	weather   *weatherdata.Layer
	signer    *attestation.Signer
	logger    *slog.Logger
	placesWin func(store.Event) int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger installs a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New constructs a Controller. placesWin resolves an event's
// number_of_places_win, already known to the caller from the event row.
func New(st *store.Store, weather *weatherdata.Layer, signer *attestation.Signer, opts ...Option) *Controller {
	c := &Controller{
		store:     st,
		weather:   weather,
		signer:    signer,
		logger:    slog.Default(),
		placesWin: func(ev store.Event) int { return ev.NumberOfPlacesWin },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes one ETL cycle: refresh weather, rescore, sign. Each phase
// processes every active event before the next phase begins.
func (c *Controller) Run(ctx context.Context, processID string) error {
	now := time.Now().UTC()
	events, err := c.store.GetActiveEvents(ctx)
	if err != nil {
		return err
	}
	c.logger.Info("lifecycle: etl cycle starting", "process_id", processID, "active_events", len(events))

	c.timedPhase("weather_refresh", func() { c.refreshWeather(ctx, events, now) })
	c.timedPhase("rescore", func() { c.rescore(ctx, events, now) })
	c.timedPhase("sign", func() { c.sign(ctx, events, now) })

	c.logger.Info("lifecycle: etl cycle complete", "process_id", processID)
	return nil
}

// timedPhase runs one ETL phase and records its wall-clock duration under
// the phase's name.
func (c *Controller) timedPhase(phase string, fn func()) {
	start := time.Now()
	fn()
	observability.ETLCycleDuration().WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

func (c *Controller) refreshWeather(ctx context.Context, events []store.Event, now time.Time) {
	for _, ev := range events {
		if err := c.refreshEventWeather(ctx, ev, now); err != nil {
			c.logger.Error("lifecycle: weather refresh failed", "event_id", ev.ID, "error", err)
		}
	}
}

func (c *Controller) refreshEventWeather(ctx context.Context, ev store.Event, now time.Time) error {
	windowEnd := ev.ObservationDate.Add(24 * time.Hour)
	observationsDue := !ev.ObservationDate.After(now)

	forecasts, err := c.weather.Forecasts(ev.ObservationDate, windowEnd, ev.Locations)
	if err != nil {
		return err
	}

	var observations []weatherdata.Observation
	if observationsDue {
		observations, err = c.weather.Observations(ev.ObservationDate, windowEnd, ev.Locations)
		if err != nil {
			return err
		}
	}

	observed := make(map[string]weatherdata.Observation, len(observations))
	for _, o := range observations {
		observed[o.StationID] = o
	}

	snapshots := make([]store.WeatherSnapshot, 0, len(forecasts))
	for _, f := range forecasts {
		snap := store.WeatherSnapshot{
			StationID: f.StationID,
			Forecasted: store.WeatherPoint{
				Date:      f.Date,
				TempLow:   float64(f.TempLow),
				TempHigh:  float64(f.TempHigh),
				WindSpeed: f.WindSpeed,
			},
			RecordedAt: now,
		}
		if o, ok := observed[f.StationID]; ok {
			snap.Observed = &store.WeatherPoint{
				Date:      o.Date,
				TempLow:   o.TempLow,
				TempHigh:  o.TempHigh,
				WindSpeed: o.WindSpeed,
			}
		}
		snapshots = append(snapshots, snap)
	}

	if len(snapshots) == 0 {
		return nil
	}
	return c.store.AddWeatherSnapshot(ctx, ev.ID, snapshots)
}

func (c *Controller) rescore(ctx context.Context, events []store.Event, now time.Time) {
	for _, ev := range events {
		if !shouldRescore(ev, now) {
			continue
		}
		if err := c.rescoreEvent(ctx, ev); err != nil {
			c.logger.Error("lifecycle: rescore failed", "event_id", ev.ID, "error", err)
		}
	}
}

// shouldRescore reports whether an event's status warrants a scoring pass:
// Running (observation window open) or Completed (window closed, not yet
// signed). Live events have no weather yet; Signed events are frozen.
func shouldRescore(ev store.Event, now time.Time) bool {
	status := store.StatusOf(ev, now)
	return status == store.Running || status == store.Completed
}

// shouldSign reports whether an event is ready for C5: its observation
// window has fully closed and it carries no attestation yet.
func shouldSign(ev store.Event, now time.Time) bool {
	return store.StatusOf(ev, now) == store.Completed
}

func (c *Controller) rescoreEvent(ctx context.Context, ev store.Event) error {
	weather, err := c.store.LatestWeather(ctx, ev.ID)
	if err != nil {
		return err
	}
	byStation := make(map[string]store.WeatherSnapshot, len(weather))
	for _, w := range weather {
		byStation[w.StationID] = w
	}

	entries, err := c.store.ListEntries(ctx, ev.ID)
	if err != nil {
		return err
	}

	scores := make(map[string]int, len(entries))
	for _, entry := range entries {
		_, observations, err := c.store.GetEntry(ctx, ev.ID, entry.ID)
		if err != nil {
			c.logger.Error("lifecycle: load entry for rescoring failed", "event_id", ev.ID, "entry_id", entry.ID, "error", err)
			continue
		}
		scores[entry.ID] = scoring.Score(c.logger, ev.ID, entry.ID, observations, byStation)
	}
	return c.store.UpdateEntryScores(ctx, scores)
}

func (c *Controller) sign(ctx context.Context, events []store.Event, now time.Time) {
	for _, ev := range events {
		if !shouldSign(ev, now) {
			continue
		}
		if err := c.signer.Sign(ctx, ev, c.placesWin(ev)); err != nil {
			c.logger.Error("lifecycle: sign failed", "event_id", ev.ID, "error", err)
			observability.EventsSignedTotal().WithLabelValues("error").Inc()
			continue
		}
		observability.EventsSignedTotal().WithLabelValues("signed").Inc()
	}
}
