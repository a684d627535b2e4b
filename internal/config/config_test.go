package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CRANEVIEW_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Security.EnableCORS)
	assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)
	assert.Equal(t, 1024, cfg.WebSocket.ReadBufferSize)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CRANEVIEW_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("CRANEVIEW_SERVER_PORT", "9090")
	t.Setenv("CRANEVIEW_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_FileMergedUnderEnv(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "craneview.yaml")
	yaml := `
server:
  port: 7070
logging:
  level: warn
paths:
  data_dir: /var/lib/craneview
`
	require.NoError(t, os.WriteFile(configFile, []byte(yaml), 0o644))

	t.Setenv("CRANEVIEW_CONFIG_FILE", configFile)
	t.Setenv("CRANEVIEW_LOGGING_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)

	// Env beats file; file beats nothing.
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "/var/lib/craneview", cfg.Paths.DataDir)
	assert.Equal(t, "/var/lib/craneview", cfg.GetDataDir())
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("CRANEVIEW_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("CRANEVIEW_SERVER_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")
}

func TestValidate_BadLoggingFormat(t *testing.T) {
	cfg := Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Logging: LoggingConfig{Format: "xml"},
	}
	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid logging format")
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Paths: PathsConfig{
		DataDir:   filepath.Join(dir, "data"),
		ExportDir: filepath.Join(dir, "exports"),
		LogsDir:   filepath.Join(dir, "logs"),
	}}

	require.NoError(t, cfg.EnsureDirectories())
	for _, sub := range []string{"data", "exports", "logs"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
