package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("GLOSSA_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("data", "glossa.db"), cfg.Database.Path)
	require.Equal(t, filepath.Join("data", "media"), cfg.Media.Root)
	require.Equal(t, 5*time.Second, cfg.PollInterval())
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileAndFillGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /tmp/tb.db
browse:
  poll_interval_sec: 30
logging:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/tb.db", cfg.Database.Path)
	require.Equal(t, 30*time.Second, cfg.PollInterval())
	require.Equal(t, "debug", cfg.Logging.Level)
	// unset keys keep their defaults
	require.Equal(t, filepath.Join("data", "media"), cfg.Media.Root)
}

func TestLoadPathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600))
	t.Setenv("GLOSSA_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [oops"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}
