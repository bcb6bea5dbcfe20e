// Package config holds all nerdpad configuration. Configuration is read from
// a YAML file in the state directory; a missing file yields defaults, and a
// handful of environment variables override individual fields for scripting.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all nerdpad configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Execution gateway settings
	Execution ExecutionConfig `yaml:"execution"`

	// Starter-template lookup
	Templates TemplatesConfig `yaml:"templates"`

	// Storage paths (relative paths resolve against the state directory)
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ExecutionConfig configures the execution gateway.
type ExecutionConfig struct {
	RemoteURL          string `yaml:"remote_url"`           // Piston-style execute endpoint
	CompileTimeoutMS   int    `yaml:"compile_timeout_ms"`   // Remote compile phase timeout
	RunTimeoutMS       int    `yaml:"run_timeout_ms"`       // Remote run phase timeout
	CompileMemoryLimit int64  `yaml:"compile_memory_limit"` // Bytes; -1 means provider default
	RunMemoryLimit     int64  `yaml:"run_memory_limit"`     // Bytes; -1 means provider default
	JSTimeout          string `yaml:"js_timeout"`           // In-process JavaScript wall clock limit
	HTTPTimeout        string `yaml:"http_timeout"`         // Whole-request client timeout
}

// TemplatesConfig configures remote starter-code lookup.
type TemplatesConfig struct {
	RemoteURL   string `yaml:"remote_url"` // Empty disables the remote step
	HTTPTimeout string `yaml:"http_timeout"`
}

// StorageConfig configures the persistence backends.
type StorageConfig struct {
	WorkspaceDB string `yaml:"workspace_db"` // bbolt key-value store
	HistoryDB   string `yaml:"history_db"`   // SQLite run history
}

// LoggingConfig configures the categorized debug logger.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "nerdpad",
		Version: "1.0.0",
		Execution: ExecutionConfig{
			RemoteURL:          "https://emkc.org/api/v2/piston/execute",
			CompileTimeoutMS:   10000,
			RunTimeoutMS:       3000,
			CompileMemoryLimit: -1,
			RunMemoryLimit:     -1,
			JSTimeout:          "5s",
			HTTPTimeout:        "30s",
		},
		Templates: TemplatesConfig{
			RemoteURL:   "",
			HTTPTimeout: "5s",
		},
		Storage: StorageConfig{
			WorkspaceDB: "workspace.db",
			HistoryDB:   "history.db",
		},
		Logging: LoggingConfig{
			Debug: false,
			Level: "info",
		},
	}
}

// Load reads configuration from path. A missing file is not an error: it
// returns defaults so a fresh state directory works out of the box. Env
// overrides are applied last in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets scripts redirect the execution backend and flip
// debug logging without editing the config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("NERDPAD_EXEC_URL"); v != "" {
		c.Execution.RemoteURL = v
	}
	if v := os.Getenv("NERDPAD_TEMPLATES_URL"); v != "" {
		c.Templates.RemoteURL = v
	}
	if v := os.Getenv("NERDPAD_DEBUG"); v == "1" || v == "true" {
		c.Logging.Debug = true
	}
}

// ResolveStorage makes relative storage paths absolute under stateDir.
func (c *Config) ResolveStorage(stateDir string) {
	if !filepath.IsAbs(c.Storage.WorkspaceDB) {
		c.Storage.WorkspaceDB = filepath.Join(stateDir, c.Storage.WorkspaceDB)
	}
	if !filepath.IsAbs(c.Storage.HistoryDB) {
		c.Storage.HistoryDB = filepath.Join(stateDir, c.Storage.HistoryDB)
	}
}

// JSTimeoutDuration parses the in-process evaluation limit, defaulting to 5s
// on a malformed value.
func (c *Config) JSTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Execution.JSTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// HTTPTimeoutDuration parses the remote client timeout, defaulting to 30s.
func (c *Config) HTTPTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Execution.HTTPTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// TemplateTimeoutDuration parses the starter lookup timeout, defaulting to 5s.
func (c *Config) TemplateTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Templates.HTTPTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}
