package weatherdata

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type fakeIndex struct {
	files map[string]string // filename -> absolute path
}

func (f *fakeIndex) ListFiles(params FileParams) ([]string, error) {
	var out []string
	for name := range f.files {
		out = append(out, name)
	}
	return out, nil
}

func (f *fakeIndex) ResolvePaths(filenames []string) ([]string, error) {
	out := make([]string, 0, len(filenames))
	for _, name := range filenames {
		out = append(out, f.files[name])
	}
	return out, nil
}

func writeForecastFixture(t *testing.T, path string, rows []forecastRow) {
	t.Helper()
	fw, err := local.NewLocalFileWriter(path)
	require.NoError(t, err)
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(forecastRow), 1)
	require.NoError(t, err)
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		row := r
		require.NoError(t, pw.Write(&row))
	}
	require.NoError(t, pw.WriteStop())
}

func writeObservationFixture(t *testing.T, path string, rows []observationRow) {
	t.Helper()
	fw, err := local.NewLocalFileWriter(path)
	require.NoError(t, err)
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(observationRow), 1)
	require.NoError(t, err)
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		row := r
		require.NoError(t, pw.Write(&row))
	}
	require.NoError(t, pw.WriteStop())
}

func TestForecastsAggregatesPerStationPerDay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forecasts_2025-01-01T00:00:00Z.parquet")
	writeForecastFixture(t, path, []forecastRow{
		{StationID: "PFNO", BeginTime: "2025-01-01T06:00:00Z", EndTime: "2025-01-01T12:00:00Z", MinTemp: 9, MaxTemp: 35, WindSpeed: 8},
		{StationID: "PFNO", BeginTime: "2025-01-01T12:00:00Z", EndTime: "2025-01-01T18:00:00Z", MinTemp: 10, MaxTemp: 30, WindSpeed: 6},
	})

	layer := New(&fakeIndex{files: map[string]string{"forecasts_2025-01-01T00:00:00Z.parquet": path}})
	forecasts, err := layer.Forecasts(
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		nil,
	)
	require.NoError(t, err)
	require.Len(t, forecasts, 1)
	require.Equal(t, "PFNO", forecasts[0].StationID)
	require.Equal(t, 9, forecasts[0].TempLow)
	require.Equal(t, 35, forecasts[0].TempHigh)
	require.Equal(t, 8, forecasts[0].WindSpeed)
}

func TestObservationsAggregatesPerStation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "observations_2025-01-02T00:00:00Z.parquet")
	writeObservationFixture(t, path, []observationRow{
		{StationID: "KSAW", StationName: "Sanford", Latitude: 43.4, Longitude: -70.7, GeneratedAt: "2025-01-02T01:00:00Z", TemperatureValue: 20.4, WindSpeed: 3},
		{StationID: "KSAW", StationName: "Sanford", Latitude: 43.4, Longitude: -70.7, GeneratedAt: "2025-01-02T02:00:00Z", TemperatureValue: 25.0, WindSpeed: 10},
	})

	layer := New(&fakeIndex{files: map[string]string{"observations_2025-01-02T00:00:00Z.parquet": path}})
	observations, err := layer.Observations(
		time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		[]string{"KSAW"},
	)
	require.NoError(t, err)
	require.Len(t, observations, 1)
	require.Equal(t, 20.4, observations[0].TempLow)
	require.Equal(t, 25.0, observations[0].TempHigh)
	require.Equal(t, 10, observations[0].WindSpeed)
}

func TestForecastsReturnsEmptyWhenNoFiles(t *testing.T) {
	layer := New(&fakeIndex{files: map[string]string{}})
	forecasts, err := layer.Forecasts(time.Now(), time.Now(), nil)
	require.NoError(t, err)
	require.Empty(t, forecasts)
}
