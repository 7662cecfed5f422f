// Package config loads ldscreen settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/brightpath/ldscreen/internal/llm"
	"github.com/brightpath/ldscreen/internal/scoring"
)

// Config holds all application configuration. Command-line flags override
// these values after Load.
type Config struct {
	APIURL         string        `env:"LDSCREEN_API_URL"         envDefault:"http://localhost:8000"`
	RequestTimeout time.Duration `env:"LDSCREEN_REQUEST_TIMEOUT" envDefault:"15s"`
	DBPath         string        `env:"LDSCREEN_DB"`
	AgeGroup       string        `env:"LDSCREEN_AGE_GROUP"       envDefault:"9-11"`
	Offline        bool          `env:"LDSCREEN_OFFLINE"`
	ServeAddr      string        `env:"LDSCREEN_ADDR"            envDefault:":8000"`
	LogLevel       string        `env:"LDSCREEN_LOG_LEVEL"       envDefault:"info"`
	LogFile        string        `env:"LDSCREEN_LOG_FILE"`

	LLM llm.Config
}

// Load reads files into the environment, then parses it. Missing files are
// skipped; with no arguments ".env" in the working directory is tried.
// Variables already set take precedence over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	llmCfg, err := llm.LoadConfig()
	if err != nil {
		return nil, err
	}
	cfg.LLM = llmCfg

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the scoring connection and logging settings. LLM settings
// are validated only when a command needs a provider.
func (c *Config) Validate() error {
	if !c.Offline {
		u, err := url.Parse(c.APIURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("LDSCREEN_API_URL must be an absolute URL, got %q", c.APIURL)
		}
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("LDSCREEN_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if !slices.Contains(scoring.AgeGroups, c.AgeGroup) {
		return fmt.Errorf("LDSCREEN_AGE_GROUP must be one of %v, got %q", scoring.AgeGroups, c.AgeGroup)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LDSCREEN_LOG_LEVEL: %w", err)
	}
	return l, nil
}
