package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "pulseboard.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PULSEBOARD_SERVER_PORT", "9999")
	t.Setenv("PULSEBOARD_DB_PATH", "/tmp/test.db")
	t.Setenv("PULSEBOARD_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, "/tmp/test.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("PULSEBOARD_SERVER_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  host: 127.0.0.1\n  port: 3000\nlog:\n  level: warn\n  file: /var/log/pulseboard.log\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("PULSEBOARD_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, "/var/log/pulseboard.log", cfg.Log.File)

	// Env beats file.
	t.Setenv("PULSEBOARD_SERVER_HOST", "0.0.0.0")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
}
