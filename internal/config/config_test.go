package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Len(t, cfg.Sensors, 9)
	assert.Equal(t, 1, cfg.Correlation.Lag)
	assert.Equal(t, 30, cfg.Market.WindowDays)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval.Std())

	inverse := 0
	for _, s := range cfg.Sensors {
		if s.Role == RoleInverse {
			inverse++
		}
	}
	assert.Equal(t, 2, inverse)
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "venuepulse.yaml")

	yaml := `
sensors:
  - name: Test Pizza
    query: Test Pizza Arlington VA
    role: Primary
  - name: Test Bar
    query: Test Bar Arlington VA
    role: Inverse
market:
  window_days: 14
correlation:
  lag: 2
server:
  port: 9091
refresh_interval: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Sensors, 2)
	assert.Equal(t, RoleInverse, cfg.Sensors[1].Role)
	assert.Equal(t, 14, cfg.Market.WindowDays)
	assert.Equal(t, 2, cfg.Correlation.Lag)
	assert.Equal(t, 9091, cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.RefreshInterval.Std())
	// Defaults survive for omitted sections.
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Len(t, cfg.Market.Tickers, 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := map[string]func(*Config){
		"empty roster":   func(c *Config) { c.Sensors = nil },
		"unknown role":   func(c *Config) { c.Sensors[0].Role = "Sideways" },
		"empty query":    func(c *Config) { c.Sensors[0].Query = "" },
		"duplicate name": func(c *Config) { c.Sensors[1].Name = c.Sensors[0].Name },
		"negative lag":   func(c *Config) { c.Correlation.Lag = -1 },
		"tiny window":    func(c *Config) { c.Market.WindowDays = 1 },
		"zero refresh":   func(c *Config) { c.RefreshInterval = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
