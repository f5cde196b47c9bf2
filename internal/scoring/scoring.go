// Package scoring computes per-entry integer scores from the over/par/under
// choices an entry holds against a station's forecast and observation.
package scoring

import (
	"log/slog"
	"math"

	"weatherattest/internal/store"
)

// Score sums the per-field, per-station contribution of every expected
// observation an entry holds. It is a pure function of its inputs: the
// same (observations, weather) always yields the same total, so the ETL
// controller can re-score on every cycle without drifting.
func Score(logger *slog.Logger, eventID, entryID string, observations []store.ExpectedObservation, weather map[string]store.WeatherSnapshot) int {
	total := 0
	for _, obs := range observations {
		snap, ok := weather[obs.Station]
		if !ok {
			logger.Warn("scoring: missing weather snapshot for station",
				"event_id", eventID, "entry_id", entryID, "station", obs.Station)
			continue
		}
		if snap.Observed == nil {
			logger.Debug("scoring: station has no observation yet",
				"event_id", eventID, "entry_id", entryID, "station", obs.Station)
			continue
		}

		total += fieldScore(obs.TempHigh, snap.Forecasted.TempHigh, snap.Observed.TempHigh)
		total += fieldScore(obs.TempLow, snap.Forecasted.TempLow, snap.Observed.TempLow)
		total += fieldScore(obs.WindSpeed, float64(snap.Forecasted.WindSpeed), float64(snap.Observed.WindSpeed))
	}
	return total
}

// fieldScore compares one field's choice against its forecast baseline and
// observed truth. A nil choice (the entry didn't call this field)
// contributes zero without penalty.
func fieldScore(choice *store.Choice, forecast, observed float64) int {
	if choice == nil {
		return 0
	}
	obs := math.Round(observed)
	fcst := math.Round(forecast)

	switch *choice {
	case store.Par:
		if obs == fcst {
			return 2
		}
	case store.Over:
		if obs > fcst {
			return 1
		}
	case store.Under:
		if obs < fcst {
			return 1
		}
	}
	return 0
}
