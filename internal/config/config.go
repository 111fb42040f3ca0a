// Package config loads the VenuePulse configuration: the sensor
// roster, provider endpoints, and server settings. The roster is an
// explicit value handed to the pipeline at call time, never a
// module-level constant, so any synthetic roster can be scored.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so yaml values like "5m" parse.
type Duration time.Duration

// UnmarshalYAML accepts Go duration strings ("5m", "90s") or bare
// integers, read as seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var secs int64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("invalid duration value at line %d", value.Line)
	}
	*d = Duration(time.Duration(secs) * time.Second)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Role describes what kind of signal a sensor contributes.
type Role string

const (
	RolePrimary   Role = "Primary"
	RoleSecondary Role = "Secondary"
	RoleLateNight Role = "LateNight"
	// RoleInverse marks sensors expected to move opposite to the
	// phenomenon of interest (bars emptying while staff work late).
	RoleInverse Role = "Inverse"
)

// Sensor is one venue in the roster.
type Sensor struct {
	Name  string `yaml:"name"`
	Query string `yaml:"query"`
	Role  Role   `yaml:"role"`
}

// Ticker is one market instrument used as a volatility proxy.
type Ticker struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

// Config is the full application configuration.
type Config struct {
	Sensors []Sensor `yaml:"sensors"`

	Market struct {
		Tickers    []Ticker `yaml:"tickers"`
		WindowDays int      `yaml:"window_days"`
	} `yaml:"market"`

	Correlation struct {
		Lag   int `yaml:"lag"`
		Proxy string `yaml:"proxy"`
	} `yaml:"correlation"`

	Providers struct {
		VenuesURL string `yaml:"venues_url"`
		MarketURL string `yaml:"market_url"`
		RedisAddr string `yaml:"redis_addr"`
	} `yaml:"providers"`

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	PostgresDSN     string   `yaml:"postgres_dsn"`
	RefreshInterval Duration `yaml:"refresh_interval"`
}

// Default returns the configuration used when no file is supplied:
// the nine-sensor roster around the Pentagon, VIX and gold proxies, a
// one-day lag, and a five-minute refresh.
func Default() *Config {
	cfg := &Config{
		Sensors: []Sensor{
			{Name: "Domino's Pizza", Query: "Domino's Pizza Crystal City Arlington VA", Role: RolePrimary},
			{Name: "Little Caesars", Query: "Little Caesars Pizza Arlington VA", Role: RolePrimary},
			{Name: "Wiseguy Pizza", Query: "Wiseguy Pizza Pentagon City Arlington VA", Role: RolePrimary},
			{Name: "Pete's Apizza", Query: "Pete's New Haven Style Apizza Arlington VA", Role: RolePrimary},
			{Name: "We The Pizza", Query: "We The Pizza Capitol Hill Washington DC", Role: RolePrimary},
			{Name: "Mia's Italian", Query: "Mia's Italian Kitchen Arlington VA", Role: RoleSecondary},
			{Name: "McDonald's Pentagon", Query: "McDonald's Pentagon City Arlington VA", Role: RoleLateNight},
			{Name: "Freddie's Beach Bar", Query: "Freddie's Beach Bar Crystal City Arlington VA", Role: RoleInverse},
			{Name: "Crystal City Sports Pub", Query: "Crystal City Sports Pub Arlington VA", Role: RoleInverse},
		},
		RefreshInterval: Duration(5 * time.Minute),
	}
	cfg.Market.Tickers = []Ticker{
		{Name: "vix", Symbol: "^VIX"},
		{Name: "gold", Symbol: "GC=F"},
	}
	cfg.Market.WindowDays = 30
	cfg.Correlation.Lag = 1
	cfg.Correlation.Proxy = "vix"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8080
	return cfg
}

// Load reads configuration from a yaml file, applying defaults for
// anything the file omits.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for consistency.
func (c *Config) Validate() error {
	if len(c.Sensors) == 0 {
		return fmt.Errorf("config: sensor roster is empty")
	}
	seen := make(map[string]bool, len(c.Sensors))
	for _, s := range c.Sensors {
		if s.Name == "" || s.Query == "" {
			return fmt.Errorf("config: sensor with empty name or query")
		}
		switch s.Role {
		case RolePrimary, RoleSecondary, RoleLateNight, RoleInverse:
		default:
			return fmt.Errorf("config: sensor %q has unknown role %q", s.Name, s.Role)
		}
		if seen[s.Name] {
			return fmt.Errorf("config: duplicate sensor name %q", s.Name)
		}
		seen[s.Name] = true
	}
	if c.Correlation.Lag < 0 {
		return fmt.Errorf("config: correlation lag must be >= 0")
	}
	if c.Market.WindowDays < 2 {
		return fmt.Errorf("config: market window must be at least 2 days")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("config: refresh interval must be positive")
	}
	return nil
}
