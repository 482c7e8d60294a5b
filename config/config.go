package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "sparqlx"

const defaultQuery = `PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
SELECT ?s ?type
WHERE {
  ?s rdf:type ?type .
}
LIMIT 10`

// Config holds the workbench settings
type Config struct {
	// Endpoint and Query seed the two editors at startup.
	Endpoint string `toml:"endpoint"`
	Query    string `toml:"query"`

	TimeoutSeconds       int `toml:"timeout_seconds"`
	ProbeIntervalSeconds int `toml:"probe_interval_seconds"`

	// FormatBeforeSubmit canonicalizes the query and refuses to send it
	// when it does not parse.
	FormatBeforeSubmit bool `toml:"format_before_submit"`

	HistorySize int `toml:"history_size"`

	// Debug writes a log file next to the config file.
	Debug bool `toml:"debug"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Endpoint:             "http://localhost:8890/sparql",
		Query:                defaultQuery,
		TimeoutSeconds:       300,
		ProbeIntervalSeconds: 5,
		FormatBeforeSubmit:   false,
		HistorySize:          200,
		Debug:                false,
	}
}

// Dir returns $XDG_CONFIG_HOME/sparqlx, falling back to ~/.config/sparqlx.
func Dir() (string, error) {
	if env := os.Getenv("XDG_CONFIG_HOME"); env != "" {
		return filepath.Join(env, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the config file location
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file over the defaults. A missing file is not an error.
func Load() (*Config, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(p)
}

// LoadFile reads path over the defaults and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.TimeoutSeconds <= 0:
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	case c.ProbeIntervalSeconds < 0:
		return fmt.Errorf("probe_interval_seconds must not be negative, got %d", c.ProbeIntervalSeconds)
	case c.HistorySize < 0:
		return fmt.Errorf("history_size must not be negative, got %d", c.HistorySize)
	}
	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ProbeInterval is zero when probing is disabled.
func (c *Config) ProbeInterval() time.Duration {
	return time.Duration(c.ProbeIntervalSeconds) * time.Second
}
