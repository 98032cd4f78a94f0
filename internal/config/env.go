package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables understood by ApplyEnv.
const (
	EnvHome         = "FOOTPRINT_HOME"
	EnvConfig       = "FOOTPRINT_CONFIG"
	EnvAddr         = "FOOTPRINT_ADDR"
	EnvReference    = "FOOTPRINT_REFERENCE"
	EnvLogLevel     = "FOOTPRINT_LOG_LEVEL"
	EnvLogFormat    = "FOOTPRINT_LOG_FORMAT"
	EnvLogFile      = "FOOTPRINT_LOG_FILE"
	EnvSessionDir   = "FOOTPRINT_SESSION_DIR"
	EnvSessionTTL   = "FOOTPRINT_SESSION_TTL"
	EnvChatEnabled  = "FOOTPRINT_CHAT_ENABLED"
	EnvChatBaseURL  = "FOOTPRINT_CHAT_BASE_URL"
	EnvChatModel    = "FOOTPRINT_CHAT_MODEL"
	EnvChatAPIKey   = "FOOTPRINT_CHAT_API_KEY"
	EnvChatTimeout  = "FOOTPRINT_CHAT_TIMEOUT"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvBatchWorkers = "FOOTPRINT_BATCH_CONCURRENCY"
	EnvOutputFormat = "FOOTPRINT_OUTPUT_FORMAT"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped and variables already set are not
// overridden.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from environment variables read through
// lookup. OPENAI_API_KEY is honored when FOOTPRINT_CHAT_API_KEY is unset.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str(EnvAddr, &c.Server.Addr)
	str(EnvReference, &c.Reference.Path)
	str(EnvLogLevel, &c.Logging.Level)
	str(EnvLogFormat, &c.Logging.Format)
	str(EnvLogFile, &c.Logging.File)
	str(EnvSessionDir, &c.Session.Dir)
	str(EnvChatBaseURL, &c.Chat.BaseURL)
	str(EnvChatModel, &c.Chat.Model)
	str(EnvOpenAIAPIKey, &c.Chat.APIKey)
	str(EnvChatAPIKey, &c.Chat.APIKey)
	str(EnvOutputFormat, &c.Output.DefaultFormat)

	var errs []error
	if v, ok := lookup(EnvChatEnabled); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvChatEnabled, v))
		} else {
			c.Chat.Enabled = b
		}
	}
	for key, dst := range map[string]*time.Duration{
		EnvSessionTTL:  &c.Session.TTL,
		EnvChatTimeout: &c.Chat.Timeout,
	} {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, key, v))
			continue
		}
		*dst = d
	}
	if v, ok := lookup(EnvBatchWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvBatchWorkers, v))
		} else {
			c.Batch.Concurrency = n
		}
	}
	return errors.Join(errs...)
}
