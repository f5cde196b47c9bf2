package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadScheduleMissingFileReturnsZeroValue(t *testing.T) {
	sched, err := LoadSchedule(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), sched.Interval.Duration)
}

func TestLoadScheduleParsesIntervalDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	require.NoError(t, os.WriteFile(path, []byte("interval: 15m\n"), 0o644))

	sched, err := LoadSchedule(path)
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, sched.Interval.Duration)
}

func TestLoadScheduleRejectsNonStringInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	require.NoError(t, os.WriteFile(path, []byte("interval: [1, 2]\n"), 0o644))

	_, err := LoadSchedule(path)
	require.Error(t, err)
}

func TestLoadScheduleRejectsUnparsableDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	require.NoError(t, os.WriteFile(path, []byte("interval: not-a-duration\n"), 0o644))

	_, err := LoadSchedule(path)
	require.Error(t, err)
}
