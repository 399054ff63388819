package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30.0, cfg.Rules.SecondsPerUnit)
	assert.Equal(t, int64(3), cfg.Rules.SimpleMixedMaxQuantity)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
	assert.NoError(t, cfg.validate())
}

func TestLoadFrom_NoFile(t *testing.T) {
	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFrom_YAMLOverlaysDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
rules:
  seconds_per_unit: 45
cache:
  ttl: 5m
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 45.0, cfg.Rules.SecondsPerUnit)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	// untouched keys keep their defaults
	assert.Equal(t, int64(DefaultSimpleMixedMaxQuantity), cfg.Rules.SimpleMixedMaxQuantity)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
rules:
  seconds_per_unit: 45
  simple_mixed_max_quantity: 4
`)
	t.Setenv("PACKTRACK_RULES_SECONDS_PER_UNIT", "60")
	t.Setenv("PACKTRACK_LOGGING_LEVEL", "debug")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 60.0, cfg.Rules.SecondsPerUnit)
	assert.Equal(t, int64(4), cfg.Rules.SimpleMixedMaxQuantity)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFrom_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadFrom(writeConfigFile(t, "server: [port"))
		assert.Error(t, err)
	})

	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("PACKTRACK_SERVER_PORT", "eighty")
		_, err := LoadFrom("")
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero seconds per unit",
			mutate:  func(c *Config) { c.Rules.SecondsPerUnit = 0 },
			wantErr: "seconds per unit",
		},
		{
			name:    "negative simple-mixed max",
			mutate:  func(c *Config) { c.Rules.SimpleMixedMaxQuantity = -1 },
			wantErr: "simple-mixed",
		},
		{
			name:    "cache without capacity",
			mutate:  func(c *Config) { c.Cache.MaxEntries = 0 },
			wantErr: "cache max entries",
		},
		{
			name:    "unknown log output",
			mutate:  func(c *Config) { c.Logging.Output = "syslog" },
			wantErr: "invalid logging output",
		},
		{
			name:   "disabled cache ignores capacity",
			mutate: func(c *Config) { c.Cache.Enabled = false; c.Cache.MaxEntries = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_FileOutputGetsDefaultPath(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
}

func TestServerAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	assert.Equal(t, "127.0.0.1:8080", s.Address())
}
