package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the chronam downloader
type Config struct {
	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// DownloadConfig holds fetch and concurrency settings
type DownloadConfig struct {
	ConcurrentIssues int           `yaml:"concurrent_issues" json:"concurrent_issues"`
	ConcurrentPages  int           `yaml:"concurrent_pages" json:"concurrent_pages"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
	// MaxDirAttempts bounds the "(copy n)" suffix search when the
	// newspaper's directory name is already taken.
	MaxDirAttempts int `yaml:"max_dir_attempts" json:"max_dir_attempts"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Download: DownloadConfig{
			ConcurrentIssues: 2,
			ConcurrentPages:  4,
			FetchTimeout:     30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 120,
		},
		Output: OutputConfig{
			BaseDirectory:  ".",
			MaxDirAttempts: 100,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("CHRONAM_CONCURRENT_ISSUES"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if n > 0 {
			c.Download.ConcurrentIssues = n
		}
	}
	if v := os.Getenv("CHRONAM_CONCURRENT_PAGES"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if n > 0 {
			c.Download.ConcurrentPages = n
		}
	}
	if v := os.Getenv("CHRONAM_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Download.FetchTimeout = d
		}
	}
	if v := os.Getenv("CHRONAM_REQUESTS_PER_MINUTE"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if n > 0 {
			c.RateLimit.RequestsPerMinute = n
		}
	}
	if v := os.Getenv("CHRONAM_OUTPUT_DIR"); v != "" {
		c.Output.BaseDirectory = v
	}
	if v := os.Getenv("CHRONAM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".chronam.yaml",
		".chronam.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "chronam", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "chronam", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".chronam.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Download.ConcurrentIssues <= 0 {
		errs = append(errs, errors.New("concurrent issues must be positive"))
	}
	if c.Download.ConcurrentPages <= 0 {
		errs = append(errs, errors.New("concurrent pages must be positive"))
	}
	if c.Download.ConcurrentPages > 16 {
		errs = append(errs, errors.New("concurrent pages should not exceed 16"))
	}
	if c.Download.FetchTimeout <= 0 {
		errs = append(errs, errors.New("fetch timeout must be positive"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.MaxDirAttempts <= 0 {
		errs = append(errs, errors.New("max directory attempts must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.BaseDirectory = v
	}
	if v, ok := flags["concurrent-issues"].(int); ok && v > 0 {
		c.Download.ConcurrentIssues = v
	}
	if v, ok := flags["concurrent-pages"].(int); ok && v > 0 {
		c.Download.ConcurrentPages = v
	}
	if v, ok := flags["rate-limit"].(int); ok && v > 0 {
		c.RateLimit.RequestsPerMinute = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok && v > 0 {
		c.Download.FetchTimeout = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".chronam.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
