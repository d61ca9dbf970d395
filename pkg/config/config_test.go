package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Download.ConcurrentIssues)
	assert.Equal(t, 4, cfg.Download.ConcurrentPages)
	assert.Equal(t, 30*time.Second, cfg.Download.FetchTimeout)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, ".", cfg.Output.BaseDirectory)
	assert.Equal(t, 100, cfg.Output.MaxDirAttempts)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
download:
  concurrent_issues: 3
  concurrent_pages: 8
rate_limit:
  requests_per_minute: 30
output:
  base_directory: /tmp/papers
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, 3, cfg.Download.ConcurrentIssues)
	assert.Equal(t, 8, cfg.Download.ConcurrentPages)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "/tmp/papers", cfg.Output.BaseDirectory)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched fields keep their defaults
	assert.Equal(t, 30*time.Second, cfg.Download.FetchTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHRONAM_CONCURRENT_PAGES", "6")
	t.Setenv("CHRONAM_OUTPUT_DIR", "/tmp/archive")
	t.Setenv("CHRONAM_LOG_LEVEL", "warn")
	t.Setenv("CHRONAM_FETCH_TIMEOUT", "45s")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 6, cfg.Download.ConcurrentPages)
	assert.Equal(t, "/tmp/archive", cfg.Output.BaseDirectory)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 45*time.Second, cfg.Download.FetchTimeout)
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()

	cfg.MergeCommandLineFlags(map[string]interface{}{
		"output":            "./downloads",
		"concurrent-pages":  5,
		"rate-limit":        20,
		"timeout":           10 * time.Second,
		"log-level":         "error",
		"concurrent-issues": 4,
	})

	assert.Equal(t, "./downloads", cfg.Output.BaseDirectory)
	assert.Equal(t, 5, cfg.Download.ConcurrentPages)
	assert.Equal(t, 4, cfg.Download.ConcurrentIssues)
	assert.Equal(t, 20, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 10*time.Second, cfg.Download.FetchTimeout)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero concurrent issues", func(c *Config) { c.Download.ConcurrentIssues = 0 }},
		{"zero concurrent pages", func(c *Config) { c.Download.ConcurrentPages = 0 }},
		{"excessive concurrent pages", func(c *Config) { c.Download.ConcurrentPages = 64 }},
		{"zero timeout", func(c *Config) { c.Download.FetchTimeout = 0 }},
		{"zero rate limit", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }},
		{"empty output directory", func(c *Config) { c.Output.BaseDirectory = "" }},
		{"zero dir attempts", func(c *Config) { c.Output.MaxDirAttempts = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rate_limit:\n  requests_per_minute: 10\n"), 0644))

	// Env overrides the file, flags override env.
	t.Setenv("CHRONAM_REQUESTS_PER_MINUTE", "20")

	cfg, err := Load(path, map[string]interface{}{"rate-limit": 40})
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.RateLimit.RequestsPerMinute)

	cfg, err = Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.RateLimit.RequestsPerMinute)
}
