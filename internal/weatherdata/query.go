package weatherdata

import (
	"database/sql"
	"sort"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	_ "modernc.org/sqlite"

	"weatherattest/internal/oracleerr"
)

// Layer answers forecast/observation/station queries by opening a fresh
// in-process analytical connection per call over whatever columnar files
// the File Index collaborator currently knows about.
type Layer struct {
	index FileIndex
}

// New constructs a query layer over the given file index.
func New(index FileIndex) *Layer {
	return &Layer{index: index}
}

// Forecasts returns one row per (station, calendar day) in [start, end].
// start is rolled back one day to capture forecasts generated the prior
// evening, matching the reference oracle's window.
func (l *Layer) Forecasts(start, end time.Time, stationIDs []string) ([]Forecast, error) {
	rows, err := l.loadForecastRows(start.AddDate(0, 0, -1), end)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	db, err := openAnalyticalConn()
	if err != nil {
		return nil, oracleerr.WeatherData(err, "open analytical connection")
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE forecast_rows (
		station_id TEXT, day TEXT, begin_time TEXT, end_time TEXT,
		min_temp INTEGER, max_temp INTEGER, wind_speed INTEGER)`); err != nil {
		return nil, oracleerr.WeatherData(err, "create forecast_rows table")
	}

	stmt, err := db.Prepare(`INSERT INTO forecast_rows VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, oracleerr.WeatherData(err, "prepare forecast insert")
	}
	defer stmt.Close()

	for _, r := range rows {
		begin, err := parseRFC3339(r.BeginTime)
		if err != nil {
			return nil, err
		}
		if _, err := stmt.Exec(r.StationID, begin.UTC().Format("2006-01-02"), r.BeginTime, r.EndTime, r.MinTemp, r.MaxTemp, r.WindSpeed); err != nil {
			return nil, oracleerr.WeatherData(err, "insert forecast row")
		}
	}

	query := `SELECT station_id, day, MIN(begin_time), MAX(end_time), MIN(min_temp), MAX(max_temp), MAX(wind_speed)
		FROM forecast_rows`
	args := []any{}
	if len(stationIDs) > 0 {
		query += " WHERE station_id IN (" + placeholders(len(stationIDs)) + ")"
		for _, s := range stationIDs {
			args = append(args, s)
		}
	}
	query += " GROUP BY station_id, day ORDER BY station_id, day"

	result, err := db.Query(query, args...)
	if err != nil {
		return nil, oracleerr.WeatherData(err, "aggregate forecast rows")
	}
	defer result.Close()

	var out []Forecast
	for result.Next() {
		var stationID, day, beginStr, endStr string
		var minTemp, maxTemp, windSpeed int
		if err := result.Scan(&stationID, &day, &beginStr, &endStr, &minTemp, &maxTemp, &windSpeed); err != nil {
			return nil, oracleerr.WeatherData(err, "scan forecast row")
		}
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, oracleerr.WeatherData(err, "parse forecast day")
		}
		begin, err := parseRFC3339(beginStr)
		if err != nil {
			return nil, err
		}
		end, err := parseRFC3339(endStr)
		if err != nil {
			return nil, err
		}
		out = append(out, Forecast{
			StationID: stationID,
			Date:      date,
			StartTime: begin,
			EndTime:   end,
			TempLow:   minTemp,
			TempHigh:  maxTemp,
			WindSpeed: windSpeed,
		})
	}
	return out, result.Err()
}

// Observations returns one row per station over [start, end].
func (l *Layer) Observations(start, end time.Time, stationIDs []string) ([]Observation, error) {
	rows, err := l.loadObservationRows(start, end)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	db, err := openAnalyticalConn()
	if err != nil {
		return nil, oracleerr.WeatherData(err, "open analytical connection")
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE observation_rows (
		station_id TEXT, generated_at TEXT, temp REAL, wind_speed INTEGER)`); err != nil {
		return nil, oracleerr.WeatherData(err, "create observation_rows table")
	}

	stmt, err := db.Prepare(`INSERT INTO observation_rows VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, oracleerr.WeatherData(err, "prepare observation insert")
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.StationID, r.GeneratedAt, r.TemperatureValue, r.WindSpeed); err != nil {
			return nil, oracleerr.WeatherData(err, "insert observation row")
		}
	}

	query := `SELECT station_id, MIN(generated_at), MAX(generated_at), MIN(temp), MAX(temp), MAX(wind_speed)
		FROM observation_rows`
	args := []any{}
	if len(stationIDs) > 0 {
		query += " WHERE station_id IN (" + placeholders(len(stationIDs)) + ")"
		for _, s := range stationIDs {
			args = append(args, s)
		}
	}
	query += " GROUP BY station_id ORDER BY station_id"

	result, err := db.Query(query, args...)
	if err != nil {
		return nil, oracleerr.WeatherData(err, "aggregate observation rows")
	}
	defer result.Close()

	var out []Observation
	for result.Next() {
		var stationID, minGen, maxGen string
		var tempLow, tempHigh float64
		var windSpeed int
		if err := result.Scan(&stationID, &minGen, &maxGen, &tempLow, &tempHigh, &windSpeed); err != nil {
			return nil, oracleerr.WeatherData(err, "scan observation row")
		}
		begin, err := parseRFC3339(minGen)
		if err != nil {
			return nil, err
		}
		end, err := parseRFC3339(maxGen)
		if err != nil {
			return nil, err
		}
		out = append(out, Observation{
			StationID: stationID,
			Date:      begin.UTC().Truncate(24 * time.Hour),
			StartTime: begin,
			EndTime:   end,
			TempLow:   tempLow,
			TempHigh:  tempHigh,
			WindSpeed: windSpeed,
		})
	}
	return out, result.Err()
}

// Stations returns the unique stations seen in observation files over the
// last four hours.
func (l *Layer) Stations() ([]Station, error) {
	now := time.Now().UTC()
	rows, err := l.loadObservationRows(now.Add(-4*time.Hour), now)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]Station)
	for _, r := range rows {
		seen[r.StationID] = Station{
			ID:        r.StationID,
			Name:      r.StationName,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		}
	}

	out := make([]Station, 0, len(seen))
	for _, s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (l *Layer) loadForecastRows(start, end time.Time) ([]forecastRow, error) {
	filenames, err := l.index.ListFiles(FileParams{Start: start, End: end, Forecasts: true})
	if err != nil {
		return nil, oracleerr.WeatherData(err, "list forecast files")
	}
	if len(filenames) == 0 {
		return nil, nil
	}
	paths, err := l.index.ResolvePaths(filenames)
	if err != nil {
		return nil, oracleerr.WeatherData(err, "resolve forecast file paths")
	}

	var out []forecastRow
	for _, path := range paths {
		rows, err := readParquet[forecastRow](path)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func (l *Layer) loadObservationRows(start, end time.Time) ([]observationRow, error) {
	filenames, err := l.index.ListFiles(FileParams{Start: start, End: end, Observations: true})
	if err != nil {
		return nil, oracleerr.WeatherData(err, "list observation files")
	}
	if len(filenames) == 0 {
		return nil, nil
	}
	paths, err := l.index.ResolvePaths(filenames)
	if err != nil {
		return nil, oracleerr.WeatherData(err, "resolve observation file paths")
	}

	var out []observationRow
	for _, path := range paths {
		rows, err := readParquet[observationRow](path)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func readParquet[T any](path string) ([]T, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, oracleerr.WeatherData(err, "open parquet file %s", path)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(T), 1)
	if err != nil {
		return nil, oracleerr.WeatherData(err, "read parquet schema %s", path)
	}
	defer pr.ReadStop()

	count := int(pr.GetNumRows())
	rows := make([]T, count)
	if count > 0 {
		if err := pr.Read(&rows); err != nil {
			return nil, oracleerr.WeatherData(err, "read parquet rows %s", path)
		}
	}
	return rows, nil
}

func openAnalyticalConn() (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	return db, nil
}

func placeholders(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ", "
		}
		out += "?"
	}
	return out
}

func parseRFC3339(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, oracleerr.WeatherData(err, "parse timestamp %q", value)
	}
	return t.UTC(), nil
}
