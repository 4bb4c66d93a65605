// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/planchat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete planchat configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// Backend configuration
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Reveal configuration
	Reveal RevealConfig `toml:"reveal" json:"reveal"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging" json:"logging"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// BackendConfig contains advisor backend configuration.
type BackendConfig struct {
	// URL is the base URL of the advisor backend. Empty enables
	// simulation mode regardless of the Simulate flag.
	URL string `toml:"url" json:"url"`
	// Region optionally scopes the initial plan fetch (county code).
	Region string `toml:"region" json:"region"`
	// PollIntervalSecs is the delay between poll attempts.
	PollIntervalSecs int `toml:"poll_interval_secs" json:"poll_interval_secs"`
	// MaxPollAttempts bounds the poll loop.
	MaxPollAttempts int `toml:"max_poll_attempts" json:"max_poll_attempts"`
	// TimeoutSecs is the per-request HTTP timeout.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// Simulate replaces the backend with a canned local reply.
	Simulate bool `toml:"simulate" json:"simulate"`
	// CannedReply overrides the simulated reply text.
	CannedReply string `toml:"canned_reply" json:"canned_reply"`
}

// RevealConfig contains typewriter reveal configuration.
type RevealConfig struct {
	// CadenceMs is the delay per revealed character, in milliseconds.
	// Sensible values are 12-15.
	CadenceMs int `toml:"cadence_ms" json:"cadence_ms"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level"`
	// Path is the log file location (empty = ~/.planchat/planchat.log).
	// The TUI owns the terminal, so logs never go to stdout.
	Path string `toml:"path" json:"path"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowPlanCount displays the candidate-set size in the status bar.
	ShowPlanCount bool `toml:"show_plan_count" json:"show_plan_count"`
	// NotificationSecs is how long the narrowing notification stays
	// visible before self-dismissing.
	NotificationSecs int `toml:"notification_secs" json:"notification_secs"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Backend: BackendConfig{
			URL:              "",
			Region:           "",
			PollIntervalSecs: 2,
			MaxPollAttempts:  150,
			TimeoutSecs:      30,
			Simulate:         false,
			CannedReply:      "",
		},

		Reveal: RevealConfig{
			CadenceMs: 14,
		},

		Logging: LoggingConfig{
			Level: "info",
			Path:  "",
		},

		UI: UIConfig{
			Theme:            "dark",
			ShowPlanCount:    true,
			NotificationSecs: 3,
			CompactMode:      false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the planchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".planchat"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// LogPath returns the configured log file path, defaulting to
// ~/.planchat/planchat.log.
func (c *Config) LogPath() (string, error) {
	if c.Logging.Path != "" {
		return c.Logging.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "planchat.log"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// Try JSON as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// Defaults only (with any load error for informational purposes)
	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// finishLoad applies env overrides, defaults, and validation.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		// Default to TOML
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	// Write header comment
	fmt.Fprintln(file, "# planchat configuration file")
	fmt.Fprintln(file, "# Generated by planchat - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash.
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Validate backend URL if set
	if c.Backend.URL != "" {
		parsed, err := url.Parse(c.Backend.URL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "backend.url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Backend.URL),
			})
		}
	}

	if c.Backend.PollIntervalSecs < 1 {
		errs = append(errs, ValidationError{
			Field:   "backend.poll_interval_secs",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Backend.PollIntervalSecs),
		})
	}

	if c.Backend.MaxPollAttempts < 1 || c.Backend.MaxPollAttempts > 1000 {
		errs = append(errs, ValidationError{
			Field:   "backend.max_poll_attempts",
			Message: fmt.Sprintf("must be 1-1000, got %d", c.Backend.MaxPollAttempts),
		})
	}

	if c.Backend.TimeoutSecs < 1 {
		errs = append(errs, ValidationError{
			Field:   "backend.timeout_secs",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Backend.TimeoutSecs),
		})
	}

	// Cadence below 1ms would spin; above 1s is unusable.
	if c.Reveal.CadenceMs < 1 || c.Reveal.CadenceMs > 1000 {
		errs = append(errs, ValidationError{
			Field:   "reveal.cadence_ms",
			Message: fmt.Sprintf("must be 1-1000, got %d", c.Reveal.CadenceMs),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if c.UI.NotificationSecs < 1 || c.UI.NotificationSecs > 60 {
		errs = append(errs, ValidationError{
			Field:   "ui.notification_secs",
			Message: fmt.Sprintf("must be 1-60, got %d", c.UI.NotificationSecs),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value
// configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Backend.PollIntervalSecs == 0 {
		c.Backend.PollIntervalSecs = defaults.Backend.PollIntervalSecs
	}
	if c.Backend.MaxPollAttempts == 0 {
		c.Backend.MaxPollAttempts = defaults.Backend.MaxPollAttempts
	}
	if c.Backend.TimeoutSecs == 0 {
		c.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}
	if c.Reveal.CadenceMs == 0 {
		c.Reveal.CadenceMs = defaults.Reveal.CadenceMs
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.NotificationSecs == 0 {
		c.UI.NotificationSecs = defaults.UI.NotificationSecs
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - PLANCHAT_BACKEND_URL: overrides backend.url
//   - PLANCHAT_REGION: overrides backend.region
//   - PLANCHAT_POLL_INTERVAL_SECS: overrides backend.poll_interval_secs
//   - PLANCHAT_MAX_POLL_ATTEMPTS: overrides backend.max_poll_attempts
//   - PLANCHAT_SIMULATE: set to "1" or "true" to enable simulation mode
//   - PLANCHAT_CADENCE_MS: overrides reveal.cadence_ms
//   - PLANCHAT_LOG_LEVEL: overrides logging.level
//   - PLANCHAT_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if backendURL := os.Getenv("PLANCHAT_BACKEND_URL"); backendURL != "" {
		c.Backend.URL = backendURL
	}

	if region := os.Getenv("PLANCHAT_REGION"); region != "" {
		c.Backend.Region = region
	}

	if interval := os.Getenv("PLANCHAT_POLL_INTERVAL_SECS"); interval != "" {
		if n, err := strconv.Atoi(interval); err == nil {
			c.Backend.PollIntervalSecs = n
		}
	}

	if attempts := os.Getenv("PLANCHAT_MAX_POLL_ATTEMPTS"); attempts != "" {
		if n, err := strconv.Atoi(attempts); err == nil {
			c.Backend.MaxPollAttempts = n
		}
	}

	if simulate := os.Getenv("PLANCHAT_SIMULATE"); simulate != "" {
		c.Backend.Simulate = simulate == "1" || strings.ToLower(simulate) == "true"
	}

	if cadence := os.Getenv("PLANCHAT_CADENCE_MS"); cadence != "" {
		if n, err := strconv.Atoi(cadence); err == nil {
			c.Reveal.CadenceMs = n
		}
	}

	if level := os.Getenv("PLANCHAT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if theme := os.Getenv("PLANCHAT_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// DURATION HELPERS
// =============================================================================

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Backend.PollIntervalSecs) * time.Second
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// Cadence returns the reveal cadence as a duration.
func (c *Config) Cadence() time.Duration {
	return time.Duration(c.Reveal.CadenceMs) * time.Millisecond
}

// NotificationDelay returns how long the narrowing notification stays up.
func (c *Config) NotificationDelay() time.Duration {
	return time.Duration(c.UI.NotificationSecs) * time.Second
}

// SimulationEnabled reports whether exchanges should use the canned
// local backend. Simulation is forced when no backend URL is configured.
func (c *Config) SimulationEnabled() bool {
	return c.Backend.Simulate || c.Backend.URL == ""
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
