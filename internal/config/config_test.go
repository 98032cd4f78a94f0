package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHome points the config directory at a fresh temp dir.
func stubHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	return home
}

// writeFile writes content into dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, "@every 10m", cfg.Session.CleanupSchedule)
	assert.True(t, cfg.Chat.Enabled)
	assert.False(t, cfg.Chat.Available(), "no API key by default")
	assert.Equal(t, FormatJSON, cfg.Output.DefaultFormat)
	assert.Empty(t, cfg.Reference.Path)
}

func TestNew_ReadsGlobalFile(t *testing.T) {
	home := stubHome(t)
	writeFile(t, home, "config.yaml", `
server:
  addr: ":8080"
session:
  ttl: 15m
`)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
	// Fields not named in the file keep their defaults.
	assert.Equal(t, 20, cfg.Session.MaxHistory)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
}

func TestNew_MissingFileUsesDefaults(t *testing.T) {
	stubHome(t)
	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestNew_CorruptFile(t *testing.T) {
	home := stubHome(t)
	writeFile(t, home, "config.yaml", "server: [unclosed")
	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoad_Precedence(t *testing.T) {
	home := stubHome(t)
	writeFile(t, home, "config.yaml", `
logging:
  level: warn
chat:
  enabled: true
  base_url: https://llm.example.com/v1
  model: file-model
  timeout: 5s
  max_tokens: 100
  temperature: 0.2
`)
	overlay := writeFile(t, t.TempDir(), "overlay.yaml", `
logging:
  level: debug
  format: json
`)
	t.Setenv(EnvChatModel, "env-model")
	t.Setenv(EnvChatAPIKey, "sk-test")
	t.Chdir(t.TempDir())

	cfg, err := Load(overlay)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level, "overlay beats global file")
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "env-model", cfg.Chat.Model, "environment beats files")
	assert.Equal(t, "https://llm.example.com/v1", cfg.Chat.BaseURL)
	assert.True(t, cfg.Chat.Available())
}

func TestLoad_DotEnv(t *testing.T) {
	stubHome(t)
	dir := t.TempDir()
	writeFile(t, dir, ".env", "FOOTPRINT_ADDR=:7070\nFOOTPRINT_SESSION_TTL=2h\n")
	t.Chdir(dir)
	t.Cleanup(func() {
		os.Unsetenv(EnvAddr)
		os.Unsetenv(EnvSessionTTL)
	})

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestLoad_InvalidOverlay(t *testing.T) {
	stubHome(t)
	overlay := writeFile(t, t.TempDir(), "overlay.yaml", "batch:\n  size: 0\n  concurrency: 2\n")

	_, err := Load(overlay)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "batch.size")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvOpenAIAPIKey: "sk-openai",
		EnvChatEnabled:  "false",
		EnvChatTimeout:  "45s",
		EnvBatchWorkers: "8",
		EnvReference:    "/etc/footprint/reference.yaml",
		EnvOutputFormat: "table",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Defaults()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "sk-openai", cfg.Chat.APIKey)
	assert.False(t, cfg.Chat.Enabled)
	assert.Equal(t, 45*time.Second, cfg.Chat.Timeout)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, "/etc/footprint/reference.yaml", cfg.Reference.Path)
	assert.Equal(t, FormatTable, cfg.Output.DefaultFormat)

	t.Run("footprint key wins over openai key", func(t *testing.T) {
		env[EnvChatAPIKey] = "sk-footprint"
		c := Defaults()
		require.NoError(t, c.ApplyEnv(lookup))
		assert.Equal(t, "sk-footprint", c.Chat.APIKey)
	})

	t.Run("invalid values", func(t *testing.T) {
		bad := map[string]string{EnvSessionTTL: "soon", EnvChatEnabled: "maybe"}
		c := Defaults()
		err := c.ApplyEnv(func(k string) (string, bool) { v, ok := bad[k]; return v, ok })
		require.ErrorIs(t, err, ErrInvalidEnv)
		assert.Contains(t, err.Error(), EnvSessionTTL)
		assert.Contains(t, err.Error(), EnvChatEnabled)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = "" }, wantMsg: "server.addr"},
		{name: "zero ttl", mutate: func(c *Config) { c.Session.TTL = 0 }, wantMsg: "session.ttl"},
		{name: "bad cron", mutate: func(c *Config) { c.Session.CleanupSchedule = "every now and then" }, wantMsg: "cleanup_schedule"},
		{name: "relative chat url", mutate: func(c *Config) { c.Chat.BaseURL = "/v1" }, wantMsg: "chat.base_url"},
		{name: "hot temperature", mutate: func(c *Config) { c.Chat.Temperature = 3 }, wantMsg: "chat.temperature"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantMsg: "logging.level"},
		{name: "bad format", mutate: func(c *Config) { c.Output.DefaultFormat = "xml" }, wantMsg: "output.default_format"},
		{
			name: "disabled chat skips chat checks",
			mutate: func(c *Config) {
				c.Chat.Enabled = false
				c.Chat.BaseURL = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSessionDir(t *testing.T) {
	home := stubHome(t)

	cfg := Defaults()
	dir, err := cfg.SessionDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "sessions"), dir)

	cfg.Session.Dir = "/var/lib/footprint"
	dir, err = cfg.SessionDir()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/footprint", dir)
}
