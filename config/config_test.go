package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultConfigOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oracled.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddress)
	require.Equal(t, "info", cfg.LogLevel)
	require.FileExists(t, path)

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, reloaded)
}

func TestLoadAppliesDefaultsForBlankFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oracled.toml")
	require.NoError(t, writeMinimalConfig(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddress)
	require.Equal(t, "info", cfg.LogLevel)
	require.NotEmpty(t, cfg.SchedulePath)
}

func writeMinimalConfig(path string) error {
	return os.WriteFile(path, []byte("DataDir = \"./data\"\n"), 0o644)
}
