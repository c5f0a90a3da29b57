package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 30*time.Minute, cfg.Room.IdleTimeout)
	assert.Equal(t, time.Minute, cfg.Room.SweepInterval)
	assert.Equal(t, 1.0, cfg.Bot.SpeedFactor)
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  address: ":8080"
logging:
  level: debug
  format: json
room:
  idle_timeout: 5m
bot:
  speed_factor: 0.25
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 5*time.Minute, cfg.Room.IdleTimeout)
	assert.Equal(t, time.Minute, cfg.Room.SweepInterval, "untouched keys keep defaults")
	assert.Equal(t, 0.25, cfg.Bot.SpeedFactor)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CHUDOPOLY_SERVER_ADDRESS", ":9999")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Address)
}

func TestLoadRejectsNonPositiveSpeedFactor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bot:\n  speed_factor: 0\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "speed_factor")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [::"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
