package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete engine configuration. Loaded once at startup
// and treated as read-only by the scan workers.
type Config struct {
	Symbols []string     `json:"symbols" yaml:"symbols"`
	Scan    ScanConfig   `json:"scan" yaml:"scan"`
	Feed    FeedConfig   `json:"feed" yaml:"feed"`
	Ledger  LedgerConfig `json:"ledger" yaml:"ledger"`
	Rule    RuleConfig   `json:"rule" yaml:"rule"`
	Engine  EngineConfig `json:"engine" yaml:"engine"`
	Log     LogConfig    `json:"log" yaml:"log"`
}

// ScanConfig controls the scheduler.
type ScanConfig struct {
	Interval string `json:"interval" yaml:"interval"` // e.g. "1m", "30s"
	Workers  int    `json:"workers" yaml:"workers"`
}

// ParseInterval converts the interval string to a time.Duration.
func (s ScanConfig) ParseInterval() (time.Duration, error) {
	return time.ParseDuration(s.Interval)
}

// FeedConfig controls the HTTP quote client.
type FeedConfig struct {
	URL     string  `json:"url" yaml:"url"`
	Timeout string  `json:"timeout" yaml:"timeout"` // per-request, e.g. "10s"
	RPS     float64 `json:"rps" yaml:"rps"`
	Burst   int     `json:"burst" yaml:"burst"`
}

func (f FeedConfig) ParseTimeout() (time.Duration, error) {
	if f.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(f.Timeout)
}

// LedgerConfig controls trade persistence.
type LedgerConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// RuleConfig parameterizes the default zone rule.
type RuleConfig struct {
	LongZones  []string `json:"long_zones" yaml:"long_zones"`
	ShortZones []string `json:"short_zones,omitempty" yaml:"short_zones,omitempty"`
}

// EngineConfig holds evaluation parameters.
type EngineConfig struct {
	Timeframe        string `json:"timeframe" yaml:"timeframe"`
	VolatilityWindow int    `json:"volatility_window" yaml:"volatility_window"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration as YAML or JSON based on extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols is required")
	}
	seen := make(map[string]bool, len(c.Symbols))
	for _, s := range c.Symbols {
		if s == "" {
			return fmt.Errorf("symbols must not contain empty entries")
		}
		if seen[s] {
			return fmt.Errorf("duplicate symbol: %s", s)
		}
		seen[s] = true
	}

	if d, err := c.Scan.ParseInterval(); err != nil || d <= 0 {
		return fmt.Errorf("scan.interval must be a positive duration")
	}
	if c.Scan.Workers <= 0 {
		return fmt.Errorf("scan.workers must be positive")
	}

	if c.Feed.URL == "" {
		return fmt.Errorf("feed.url is required")
	}
	if c.Feed.Timeout != "" {
		if d, err := c.Feed.ParseTimeout(); err != nil || d <= 0 {
			return fmt.Errorf("feed.timeout must be a positive duration")
		}
	}
	if c.Feed.RPS < 0 {
		return fmt.Errorf("feed.rps must not be negative")
	}

	if c.Ledger.DBPath == "" {
		return fmt.Errorf("ledger.db_path is required")
	}

	if len(c.Rule.LongZones) == 0 && len(c.Rule.ShortZones) == 0 {
		return fmt.Errorf("rule must name at least one entry zone")
	}

	if c.Engine.VolatilityWindow < 0 {
		return fmt.Errorf("engine.volatility_window must not be negative")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}

	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Symbols: []string{"BTCUSDT", "ETHUSDT"},
		Scan: ScanConfig{
			Interval: "1m",
			Workers:  4,
		},
		Feed: FeedConfig{
			URL:     "https://api.binance.com/api/v3/ticker/price",
			Timeout: "10s",
			RPS:     5,
			Burst:   10,
		},
		Ledger: LedgerConfig{
			DBPath: "./traderscope.sqlite",
		},
		Rule: RuleConfig{
			LongZones:  []string{"confirmation", "acceleration"},
			ShortZones: []string{"major rejection"},
		},
		Engine: EngineConfig{
			Timeframe:        "M5",
			VolatilityWindow: 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
