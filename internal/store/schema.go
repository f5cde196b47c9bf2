package store

const schemaVersion = 1

// schema mirrors the reference oracle's migration (oracle_metadata, events,
// events_entries, expected_observations, weather, events_weather) adapted
// to modernc.org/sqlite's dialect, applied as a single
// CREATE-TABLE-IF-NOT-EXISTS string on open.
const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS oracle_metadata (
    singleton INTEGER PRIMARY KEY CHECK (singleton = 1),
    pubkey BLOB NOT NULL,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    observation_date TIMESTAMP NOT NULL,
    signing_date TIMESTAMP NOT NULL,
    locations TEXT NOT NULL,
    total_allowed_entries INTEGER NOT NULL,
    number_of_values_per_entry INTEGER NOT NULL,
    number_of_places_win INTEGER NOT NULL,
    nonce BLOB NOT NULL,
    announcement BLOB NOT NULL,
    attestation_signature BLOB,
    coordinator_pubkey TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS events_entries (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES events(id),
    score INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_entries_event_id ON events_entries(event_id);

CREATE TABLE IF NOT EXISTS expected_observations (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    entry_id TEXT NOT NULL REFERENCES events_entries(id),
    station TEXT NOT NULL,
    temp_high TEXT,
    temp_low TEXT,
    wind_speed TEXT
);
CREATE INDEX IF NOT EXISTS idx_expected_observations_entry_id ON expected_observations(entry_id);

CREATE TABLE IF NOT EXISTS weather (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    station_id TEXT NOT NULL,
    forecast_date TIMESTAMP NOT NULL,
    forecast_temp_low INTEGER NOT NULL,
    forecast_temp_high INTEGER NOT NULL,
    forecast_wind_speed INTEGER NOT NULL,
    has_observation INTEGER NOT NULL DEFAULT 0,
    observed_temp_low REAL,
    observed_temp_high REAL,
    observed_wind_speed INTEGER,
    recorded_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS events_weather (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    event_id TEXT NOT NULL REFERENCES events(id),
    weather_id INTEGER NOT NULL REFERENCES weather(id)
);
CREATE INDEX IF NOT EXISTS idx_events_weather_event_id ON events_weather(event_id);
`
