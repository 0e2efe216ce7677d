// Package config provides configuration loading and validation for the CLI and the API server.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Defaults for every setting that has one.
const (
	DefaultPort          = 5000
	DefaultFrontendURL   = "http://localhost:3000"
	DefaultSnapshotDir   = ".cvbuilder"
	DefaultAutosaveDelay = time.Second
	DefaultExportTimeout = 30 * time.Second
	DefaultAPIBaseURL    = "http://localhost:5000/api"
)

// Duration is a time.Duration that reads and writes as a Go duration string ("1s", "250ms").
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Bare numbers are taken as milliseconds.
		var ms int64
		if nerr := json.Unmarshal(data, &ms); nerr != nil {
			return fmt.Errorf("duration must be a string like \"1s\" or a number of milliseconds")
		}
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds settings that can come from a JSON file or the environment.
// All fields are optional; missing values use defaults.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`         // HTTP port for `serve`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	FrontendURL string `json:"frontend_url,omitempty"` // Allowed CORS origin

	// Local working copy
	SnapshotDir      string   `json:"snapshot_dir,omitempty"`       // Directory holding the snapshot and client id
	SnapshotRedisURL string   `json:"snapshot_redis_url,omitempty"` // Store snapshots in Redis instead of a file
	AutosaveDelay    Duration `json:"autosave_delay,omitempty"`

	// Export
	ExportTimeout Duration `json:"export_timeout,omitempty"`
	ChromePath    string   `json:"chrome_path,omitempty"` // Chrome binary for PDF export; empty uses the default lookup

	// Remote
	APIBaseURL string `json:"api_base_url,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// Defaults returns a Config with every default applied.
func Defaults() Config {
	return Config{
		Port:          DefaultPort,
		FrontendURL:   DefaultFrontendURL,
		SnapshotDir:   DefaultSnapshotDir,
		AutosaveDelay: Duration(DefaultAutosaveDelay),
		ExportTimeout: Duration(DefaultExportTimeout),
		APIBaseURL:    DefaultAPIBaseURL,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the settings present in the environment. Unset variables leave fields zero.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		FrontendURL:      os.Getenv("FRONTEND_URL"),
		SnapshotDir:      os.Getenv("SNAPSHOT_DIR"),
		SnapshotRedisURL: os.Getenv("SNAPSHOT_REDIS_URL"),
		ChromePath:       os.Getenv("CHROME_PATH"),
		APIBaseURL:       os.Getenv("API_BASE_URL"),
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config error: PORT must be a number, got %q", v)
		}
		cfg.Port = port
	}

	durations := []struct {
		key string
		dst *Duration
	}{
		{"AUTOSAVE_DELAY", &cfg.AutosaveDelay},
		{"EXPORT_TIMEOUT", &cfg.ExportTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config error: %s: %w", d.key, err)
		}
		*d.dst = Duration(parsed)
	}

	if v := os.Getenv("VERBOSE"); v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config error: VERBOSE must be a boolean, got %q", v)
		}
		cfg.Verbose = verbose
	}

	return cfg, nil
}

// Load layers the environment over the optional config file over the defaults, then validates
// the result.
func Load(path string) (*Config, error) {
	defaults := Defaults()

	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		defaults = file.MergeWithDefaults(defaults)
		defaults.Verbose = defaults.Verbose || file.Verbose
	}

	env, err := FromEnv()
	if err != nil {
		return nil, err
	}
	cfg := env.MergeWithDefaults(defaults)
	cfg.Verbose = cfg.Verbose || defaults.Verbose

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.AutosaveDelay < 0 {
		return fmt.Errorf("config error: 'autosave_delay' must be non-negative")
	}
	if c.ExportTimeout < 0 {
		return fmt.Errorf("config error: 'export_timeout' must be non-negative")
	}

	urls := map[string]string{
		"api_base_url": c.APIBaseURL,
		"frontend_url": c.FrontendURL,
	}
	for name, raw := range urls {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config error: '%s' must be an http(s) URL, got %q", name, raw)
		}
	}

	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.FrontendURL == "" {
		result.FrontendURL = defaults.FrontendURL
	}
	if result.SnapshotDir == "" {
		result.SnapshotDir = defaults.SnapshotDir
	}
	if result.SnapshotRedisURL == "" {
		result.SnapshotRedisURL = defaults.SnapshotRedisURL
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.APIBaseURL == "" {
		result.APIBaseURL = defaults.APIBaseURL
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.AutosaveDelay == 0 {
		result.AutosaveDelay = defaults.AutosaveDelay
	}
	if result.ExportTimeout == 0 {
		result.ExportTimeout = defaults.ExportTimeout
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
