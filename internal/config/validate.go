package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const maxTemperature = 2.0

// Validate checks every section and reports all problems together. Each
// problem wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Server.Addr == "" {
		add("server.addr is required")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		add("server timeouts must be positive")
	}

	if c.Session.TTL <= 0 {
		add("session.ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Session.MaxHistory < 0 {
		add("session.max_history must be >= 0, got %d", c.Session.MaxHistory)
	}
	if _, err := cron.ParseStandard(c.Session.CleanupSchedule); err != nil {
		add("session.cleanup_schedule %q: %v", c.Session.CleanupSchedule, err)
	}

	if c.Chat.Enabled {
		if u, err := url.Parse(c.Chat.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			add("chat.base_url %q is not an absolute URL", c.Chat.BaseURL)
		}
		if c.Chat.Model == "" {
			add("chat.model is required when chat is enabled")
		}
		if c.Chat.Timeout <= 0 {
			add("chat.timeout must be positive")
		}
		if c.Chat.MaxTokens <= 0 {
			add("chat.max_tokens must be positive")
		}
		if c.Chat.Temperature < 0 || c.Chat.Temperature > maxTemperature {
			add("chat.temperature must be within [0, %g]", maxTemperature)
		}
	}

	if c.Batch.Size <= 0 {
		add("batch.size must be positive, got %d", c.Batch.Size)
	}
	if c.Batch.Concurrency <= 0 {
		add("batch.concurrency must be positive, got %d", c.Batch.Concurrency)
	}

	if !slices.Contains([]string{FormatTable, FormatJSON}, c.Output.DefaultFormat) {
		add("output.default_format %q must be table or json", c.Output.DefaultFormat)
	}
	if c.Output.Precision < 0 {
		add("output.precision must be >= 0")
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		add("logging.level %q: %v", c.Logging.Level, err)
	}
	if !slices.Contains([]string{"console", "json", "text"}, c.Logging.Format) {
		add("logging.format %q must be console or json", c.Logging.Format)
	}

	return errors.Join(errs...)
}
