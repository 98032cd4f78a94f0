// Package config loads footprint settings from ~/.footprint/config.yaml, an
// optional overlay file, a .env file and FOOTPRINT_* environment variables,
// in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by the CLI.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Config is the complete footprint configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Session   SessionConfig   `yaml:"session"`
	Chat      ChatConfig      `yaml:"chat"`
	Batch     BatchConfig     `yaml:"batch"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
	Reference ReferenceConfig `yaml:"reference"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

// SessionConfig configures the chat session store.
type SessionConfig struct {
	// Dir holds one file per session. Empty means <config dir>/sessions.
	Dir string `yaml:"dir"`

	// TTL is how long an idle session is kept.
	TTL time.Duration `yaml:"ttl"`

	// MaxHistory caps the messages replayed to the model per session.
	MaxHistory int `yaml:"max_history"`

	// CleanupSchedule is a cron expression for purging expired sessions.
	CleanupSchedule string `yaml:"cleanup_schedule"`
}

// ChatConfig configures the OpenAI-compatible chat completion backend.
type ChatConfig struct {
	Enabled     bool          `yaml:"enabled"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
}

// Available reports whether chat is enabled and has credentials.
func (c ChatConfig) Available() bool {
	return c.Enabled && c.APIKey != ""
}

// BatchConfig configures bulk scoring from the CLI.
type BatchConfig struct {
	Size        int `yaml:"size"`
	Concurrency int `yaml:"concurrency"`
}

// OutputConfig configures CLI rendering.
type OutputConfig struct {
	// DefaultFormat is used when stdout is not a terminal. Terminals always
	// get a table unless --output says otherwise.
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ReferenceConfig selects the reference dataset.
type ReferenceConfig struct {
	// Path to a reference YAML file. Empty selects the embedded dataset.
	Path string `yaml:"path"`
}

// Defaults returns a Config with every default applied.
func Defaults() *Config {
	const (
		readTimeout     = 10 * time.Second
		writeTimeout    = 45 * time.Second
		shutdownTimeout = 10 * time.Second
		sessionTTL      = time.Hour
		maxHistory      = 20
		chatTimeout     = 30 * time.Second
		maxTokens       = 500
		temperature     = 0.7
		batchSize       = 100
		concurrency     = 4
		precision       = 0
	)

	return &Config{
		Server: ServerConfig{
			Addr:            ":5000",
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			CORSOrigins:     []string{"*"},
		},
		Session: SessionConfig{
			TTL:             sessionTTL,
			MaxHistory:      maxHistory,
			CleanupSchedule: "@every 10m",
		},
		Chat: ChatConfig{
			Enabled:     true,
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			Timeout:     chatTimeout,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		},
		Batch: BatchConfig{
			Size:        batchSize,
			Concurrency: concurrency,
		},
		Output: OutputConfig{
			DefaultFormat: FormatJSON,
			Precision:     precision,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// New returns the defaults overlaid with the global config file, if one
// exists. Errors reading an existing file are returned.
func New() (*Config, error) {
	cfg := Defaults()

	dir, err := GetConfigDir()
	if err != nil {
		return cfg, nil //nolint:nilerr // no home directory means no global file
	}
	path := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Load builds the effective configuration: defaults, the global config file,
// the overlay at overlayPath (if non-empty), .env, then FOOTPRINT_*
// environment variables. The result is validated.
func Load(overlayPath string) (*Config, error) {
	cfg, err := New()
	if err != nil {
		return nil, err
	}

	if overlayPath != "" {
		if err = ShallowMergeYAML(cfg, overlayPath); err != nil {
			return nil, err
		}
	}

	if err = LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err = cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SessionDir returns the configured session directory, defaulting to
// <config dir>/sessions.
func (c *Config) SessionDir() (string, error) {
	if c.Session.Dir != "" {
		return c.Session.Dir, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions"), nil
}
