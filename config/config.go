// Package config handles loading the web colorizer configuration from a YAML
// file, a .env file and QRGEN_* environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Gradient holds the colorizer colours as strings accepted by qr.ParseColor.
type Gradient struct {
	Start string `yaml:"start" env:"START"`
	End   string `yaml:"end" env:"END"`
	Alpha uint8  `yaml:"alpha" env:"ALPHA"`
}

// Config holds all server configuration values.
type Config struct {
	Port         int      `yaml:"port" env:"PORT"`
	Brand        string   `yaml:"brand" env:"BRAND"`
	LogoPath     string   `yaml:"logo_path" env:"LOGO_PATH"`
	LogoRatio    float64  `yaml:"logo_ratio" env:"LOGO_RATIO"`
	Gradient     Gradient `yaml:"gradient" envPrefix:"GRADIENT_"`
	HistoryDB    string   `yaml:"history_db" env:"HISTORY_DB"`
	LogLevel     string   `yaml:"log_level" env:"LOG_LEVEL"`
	ReadTimeout  Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout  Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
}

// envPrefix is prepended to every environment variable name.
const envPrefix = "QRGEN_"

// Duration is a wrapper around time.Duration that supports YAML unmarshalling
// from human-readable strings like "30s", "5m", "1h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// UnmarshalText lets environment variables set a Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	return &Config{
		Port:      8556,
		Brand:     "artbeaurescence",
		LogoPath:  "assets/logo.png",
		LogoRatio: 0.22,
		Gradient: Gradient{
			Start: "#0f4c81",
			End:   "#c2185b",
			Alpha: 255,
		},
		HistoryDB:    "",
		LogLevel:     "info",
		ReadTimeout:  Duration{30 * time.Second},
		WriteTimeout: Duration{60 * time.Second},
		IdleTimeout:  Duration{120 * time.Second},
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. Variables from a .env file in the
// working directory are loaded next, and QRGEN_* environment variables
// override any file or default values.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Brand == "" {
		return errors.New("brand must not be empty")
	}
	if c.LogoRatio <= 0 || c.LogoRatio > 1 {
		return fmt.Errorf("logo_ratio must be in (0, 1], got %v", c.LogoRatio)
	}
	return nil
}

// DownloadName is the file name offered for colorized PNG downloads.
func (c *Config) DownloadName() string {
	return fmt.Sprintf("qrcode_%s.png", c.Brand)
}
