package store

import (
	"context"
	"database/sql"

	"weatherattest/internal/oracleerr"
)

// AddWeatherSnapshot records one refresh-cycle reading per station for an
// event. Forecast fields are always present; Observed is nil until the
// observation day closes, matching the reference schema's nullable
// observed_* columns.
func (s *Store) AddWeatherSnapshot(ctx context.Context, eventID string, snapshots []WeatherSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	db, err := s.writeConn(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return oracleerr.DataQuery(err, "store: begin add weather for event %s", eventID)
	}
	defer tx.Rollback()

	for _, snap := range snapshots {
		hasObservation := 0
		var obsLow, obsHigh sql.NullFloat64
		var obsWind sql.NullInt64
		if snap.Observed != nil {
			hasObservation = 1
			obsLow = sql.NullFloat64{Float64: snap.Observed.TempLow, Valid: true}
			obsHigh = sql.NullFloat64{Float64: snap.Observed.TempHigh, Valid: true}
			obsWind = sql.NullInt64{Int64: int64(snap.Observed.WindSpeed), Valid: true}
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO weather (
				station_id, forecast_date, forecast_temp_low, forecast_temp_high, forecast_wind_speed,
				has_observation, observed_temp_low, observed_temp_high, observed_wind_speed, recorded_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			snap.StationID, snap.Forecasted.Date.UTC(), snap.Forecasted.TempLow, snap.Forecasted.TempHigh, snap.Forecasted.WindSpeed,
			hasObservation, obsLow, obsHigh, obsWind, snap.RecordedAt.UTC(),
		)
		if err != nil {
			return oracleerr.WeatherData(err, "store: insert weather row for station %s", snap.StationID)
		}
		weatherID, err := res.LastInsertId()
		if err != nil {
			return oracleerr.WeatherData(err, "store: read weather row id for station %s", snap.StationID)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events_weather (event_id, weather_id) VALUES (?, ?)
		`, eventID, weatherID); err != nil {
			return oracleerr.WeatherData(err, "store: link weather row to event %s", eventID)
		}
	}

	if err := tx.Commit(); err != nil {
		return oracleerr.DataQuery(err, "store: commit add weather for event %s", eventID)
	}
	return nil
}

// LatestWeather returns the most recently recorded snapshot per station for
// an event, the view the scoring and attestation passes read from.
func (s *Store) LatestWeather(ctx context.Context, eventID string) ([]WeatherSnapshot, error) {
	db, err := s.readConn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT w.station_id, w.forecast_date, w.forecast_temp_low, w.forecast_temp_high, w.forecast_wind_speed,
			w.has_observation, w.observed_temp_low, w.observed_temp_high, w.observed_wind_speed, w.recorded_at
		FROM weather w
		JOIN events_weather ew ON ew.weather_id = w.id
		JOIN (
			SELECT ew2.event_id, w2.station_id, MAX(w2.recorded_at) AS max_recorded
			FROM weather w2
			JOIN events_weather ew2 ON ew2.weather_id = w2.id
			WHERE ew2.event_id = ?
			GROUP BY ew2.event_id, w2.station_id
		) latest ON latest.event_id = ew.event_id AND latest.station_id = w.station_id AND latest.max_recorded = w.recorded_at
		WHERE ew.event_id = ?
	`, eventID, eventID)
	if err != nil {
		return nil, oracleerr.WeatherData(err, "store: query latest weather for event %s", eventID)
	}
	defer rows.Close()

	var out []WeatherSnapshot
	for rows.Next() {
		var snap WeatherSnapshot
		var hasObservation int
		var obsLow, obsHigh sql.NullFloat64
		var obsWind sql.NullInt64
		if err := rows.Scan(
			&snap.StationID, &snap.Forecasted.Date, &snap.Forecasted.TempLow, &snap.Forecasted.TempHigh, &snap.Forecasted.WindSpeed,
			&hasObservation, &obsLow, &obsHigh, &obsWind, &snap.RecordedAt,
		); err != nil {
			return nil, oracleerr.WeatherData(err, "store: scan weather row")
		}
		snap.Forecasted.Date = snap.Forecasted.Date.UTC()
		snap.RecordedAt = snap.RecordedAt.UTC()
		if hasObservation == 1 {
			snap.Observed = &WeatherPoint{
				Date:     snap.Forecasted.Date,
				TempLow:  obsLow.Float64,
				TempHigh: obsHigh.Float64,
				WindSpeed: int(obsWind.Int64),
			}
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}
