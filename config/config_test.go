package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NoError(t, cfg.Validate())

	interval, err := cfg.Scan.ParseInterval()
	assert.NoError(t, err)
	assert.Equal(t, time.Minute, interval)

	timeout, err := cfg.Feed.ParseTimeout()
	assert.NoError(t, err)
	assert.Equal(t, 10*time.Second, timeout)
}

func TestLoadFromYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
symbols: [BTCUSDT]
scan:
  interval: 30s
  workers: 2
feed:
  url: https://example.com/quotes
  timeout: 5s
  rps: 2
  burst: 4
ledger:
  db_path: /tmp/scope.db
rule:
  long_zones: [confirmation]
engine:
  timeframe: M1
  volatility_window: 10
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT"}, cfg.Symbols)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.Equal(t, "https://example.com/quotes", cfg.Feed.URL)
	assert.Equal(t, "M1", cfg.Engine.Timeframe)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Symbols, loaded.Symbols)
	assert.Equal(t, cfg.Ledger.DBPath, loaded.Ledger.DBPath)
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no symbols", func(c *Config) { c.Symbols = nil }},
		{"empty symbol", func(c *Config) { c.Symbols = []string{""} }},
		{"duplicate symbol", func(c *Config) { c.Symbols = []string{"A", "A"} }},
		{"bad interval", func(c *Config) { c.Scan.Interval = "soon" }},
		{"zero interval", func(c *Config) { c.Scan.Interval = "0s" }},
		{"zero workers", func(c *Config) { c.Scan.Workers = 0 }},
		{"no feed url", func(c *Config) { c.Feed.URL = "" }},
		{"bad timeout", func(c *Config) { c.Feed.Timeout = "never" }},
		{"negative rps", func(c *Config) { c.Feed.RPS = -1 }},
		{"no db path", func(c *Config) { c.Ledger.DBPath = "" }},
		{"no entry zones", func(c *Config) { c.Rule = RuleConfig{} }},
		{"negative window", func(c *Config) { c.Engine.VolatilityWindow = -1 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
