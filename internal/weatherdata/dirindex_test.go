package weatherdata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDirIndexListFilesFiltersByKindAndWindow(t *testing.T) {
	root := t.TempDir()
	day := "2026-07-31"
	require.NoError(t, os.MkdirAll(filepath.Join(root, day), 0o755))

	forecastName := "forecasts_2026-07-31T06:00:00Z.parquet"
	observationName := "observations_2026-07-31T12:00:00Z.parquet"
	for _, name := range []string{forecastName, observationName} {
		require.NoError(t, os.WriteFile(filepath.Join(root, day, name), []byte("x"), 0o644))
	}

	idx := NewDirIndex(root)
	start := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 31, 23, 59, 59, 0, time.UTC)

	forecasts, err := idx.ListFiles(FileParams{Start: start, End: end, Forecasts: true})
	require.NoError(t, err)
	require.Equal(t, []string{forecastName}, forecasts)

	observations, err := idx.ListFiles(FileParams{Start: start, End: end, Observations: true})
	require.NoError(t, err)
	require.Equal(t, []string{observationName}, observations)
}

func TestDirIndexListFilesExcludesOutOfWindowDays(t *testing.T) {
	root := t.TempDir()
	day := "2026-01-01"
	require.NoError(t, os.MkdirAll(filepath.Join(root, day), 0o755))
	name := "forecasts_2026-01-01T06:00:00Z.parquet"
	require.NoError(t, os.WriteFile(filepath.Join(root, day, name), []byte("x"), 0o644))

	idx := NewDirIndex(root)
	start := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 31, 23, 59, 59, 0, time.UTC)

	files, err := idx.ListFiles(FileParams{Start: start, End: end, Forecasts: true})
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestDirIndexResolvePathsReconstructsDateFolder(t *testing.T) {
	idx := NewDirIndex("/data")
	paths, err := idx.ResolvePaths([]string{"observations_2026-07-31T12:00:00Z.parquet"})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join("/data", "2026-07-31", "observations_2026-07-31T12:00:00Z.parquet")}, paths)
}

func TestDirIndexListFilesMissingRootReturnsEmpty(t *testing.T) {
	idx := NewDirIndex(filepath.Join(t.TempDir(), "does-not-exist"))
	files, err := idx.ListFiles(FileParams{Start: time.Now(), End: time.Now(), Forecasts: true})
	require.NoError(t, err)
	require.Empty(t, files)
}
