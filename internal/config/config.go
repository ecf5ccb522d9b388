// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package config provides configuration loading and management for bolt-sync.
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (BOLT_SYNC_*)
//   - ~/.bolt-sync/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete bolt-sync configuration.
type Config struct {
	Version string `toml:"version"`

	// Project settings
	Project ProjectConfig `toml:"project"`

	// GitHub remote settings
	GitHub GitHubConfig `toml:"github"`

	// Diff rendering settings
	Diff DiffConfig `toml:"diff"`

	// File watcher settings
	Watch WatchConfig `toml:"watch"`

	// Snapshot storage settings
	Storage StorageConfig `toml:"storage"`
}

// ProjectConfig identifies the local project tree to snapshot.
type ProjectConfig struct {
	// Root is the project directory. Defaults to the working directory.
	Root string `toml:"root"`
	// ID names the project in snapshot storage. Defaults to the root
	// directory's base name.
	ID string `toml:"id"`
	// MaxFileSizeKB caps the size of files captured into snapshots.
	// Larger files are skipped.
	MaxFileSizeKB int `toml:"max_file_size_kb"`
	// Ignores are extra ignore patterns applied on top of .gitignore.
	Ignores []string `toml:"ignores"`
}

// GitHubConfig contains the remote repository coordinates.
type GitHubConfig struct {
	Owner  string `toml:"owner"`
	Repo   string `toml:"repo"`
	Branch string `toml:"branch"`
	// AuthMethod selects the credential class: "pat", "github_app" or "auto".
	AuthMethod string `toml:"auth_method"`
	// APIBaseURL overrides the API endpoint, for GitHub Enterprise.
	APIBaseURL string `toml:"api_base_url"`
}

// DiffConfig contains diff presentation settings.
type DiffConfig struct {
	// ContextLines is the number of unchanged lines kept around each
	// hunk. Zero or negative disables contextual compression.
	ContextLines int `toml:"context_lines"`
	// Highlight enables syntax highlighting in previews.
	Highlight bool `toml:"highlight"`
	// Theme is the chroma style name used for highlighting.
	Theme string `toml:"theme"`
}

// WatchConfig contains file watcher settings.
type WatchConfig struct {
	// DebounceMS is how long the tree must be quiet before a change
	// notification fires.
	DebounceMS int `toml:"debounce_ms"`
}

// StorageConfig contains snapshot persistence settings.
type StorageConfig struct {
	// DBPath is the SQLite database file. Empty means
	// ~/.bolt-sync/snapshots.db.
	DBPath string `toml:"db_path"`
}

// Debounce returns the watcher debounce as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// MaxFileSize returns the snapshot file size cap in bytes.
func (p ProjectConfig) MaxFileSize() int64 {
	return int64(p.MaxFileSizeKB) * 1024
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Project: ProjectConfig{
			MaxFileSizeKB: 1024,
		},
		GitHub: GitHubConfig{
			Branch:     "main",
			AuthMethod: "auto",
		},
		Diff: DiffConfig{
			ContextLines: 3,
			Highlight:    true,
			Theme:        "monokai",
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the bolt-sync configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".bolt-sync"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// DBPath returns the configured snapshot database path, defaulting to
// ~/.bolt-sync/snapshots.db.
func (c *Config) DBPath() (string, error) {
	if c.Storage.DBPath != "" {
		return c.Storage.DBPath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "snapshots.db"), nil
}

// ensureSecurePermissions fixes permissions on the config file.
// SECURITY: The config file may carry Enterprise endpoints and project
// coordinates and should be owner-only.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm() != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", info.Mode().Perm(), err)
		}
	}
	return nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load loads configuration from ~/.bolt-sync/config.toml, falling back
// to defaults when no file exists. Environment overrides are applied
// last, then the result is validated.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit file path. A missing
// file is not an error; defaults are used.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if err := ensureSecurePermissions(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to ~/.bolt-sync/config.toml with 0600
// permissions.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to an explicit file path.
func SaveToPath(cfg *Config, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// fillDefaults backfills fields a partial config file left zeroed.
func (c *Config) fillDefaults() {
	def := Default()

	if c.Project.Root == "" {
		if wd, err := os.Getwd(); err == nil {
			c.Project.Root = wd
		}
	}
	if c.Project.ID == "" && c.Project.Root != "" {
		c.Project.ID = filepath.Base(c.Project.Root)
	}
	if c.Project.MaxFileSizeKB <= 0 {
		c.Project.MaxFileSizeKB = def.Project.MaxFileSizeKB
	}
	if c.GitHub.Branch == "" {
		c.GitHub.Branch = def.GitHub.Branch
	}
	if c.GitHub.AuthMethod == "" {
		c.GitHub.AuthMethod = def.GitHub.AuthMethod
	}
	if c.Diff.Theme == "" {
		c.Diff.Theme = def.Diff.Theme
	}
	if c.Watch.DebounceMS <= 0 {
		c.Watch.DebounceMS = def.Watch.DebounceMS
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - BOLT_SYNC_ROOT: overrides project.root
//   - BOLT_SYNC_PROJECT_ID: overrides project.id
//   - BOLT_SYNC_OWNER: overrides github.owner
//   - BOLT_SYNC_REPO: overrides github.repo
//   - BOLT_SYNC_BRANCH: overrides github.branch
//   - BOLT_SYNC_AUTH_METHOD: overrides github.auth_method
//   - BOLT_SYNC_API_URL: overrides github.api_base_url
//   - BOLT_SYNC_CONTEXT_LINES: overrides diff.context_lines
//   - BOLT_SYNC_NO_COLOR: set to "1" or "true" to disable highlighting
func (c *Config) ApplyEnvOverrides() {
	if root := os.Getenv("BOLT_SYNC_ROOT"); root != "" {
		c.Project.Root = root
	}
	if id := os.Getenv("BOLT_SYNC_PROJECT_ID"); id != "" {
		c.Project.ID = id
	}
	if owner := os.Getenv("BOLT_SYNC_OWNER"); owner != "" {
		c.GitHub.Owner = owner
	}
	if repo := os.Getenv("BOLT_SYNC_REPO"); repo != "" {
		c.GitHub.Repo = repo
	}
	if branch := os.Getenv("BOLT_SYNC_BRANCH"); branch != "" {
		c.GitHub.Branch = branch
	}
	if method := os.Getenv("BOLT_SYNC_AUTH_METHOD"); method != "" {
		c.GitHub.AuthMethod = method
	}
	if url := os.Getenv("BOLT_SYNC_API_URL"); url != "" {
		c.GitHub.APIBaseURL = url
	}
	if lines := os.Getenv("BOLT_SYNC_CONTEXT_LINES"); lines != "" {
		if n, err := strconv.Atoi(lines); err == nil {
			c.Diff.ContextLines = n
		}
	}
	if noColor := os.Getenv("BOLT_SYNC_NO_COLOR"); noColor != "" {
		if noColor == "1" || strings.EqualFold(noColor, "true") {
			c.Diff.Highlight = false
		}
	}
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

	switch c.GitHub.AuthMethod {
	case "pat", "github_app", "auto":
	default:
		errs = append(errs, ValidationError{
			Field:   "github.auth_method",
			Message: fmt.Sprintf("must be one of: pat, github_app, auto (got %q)", c.GitHub.AuthMethod),
		})
	}

	if c.GitHub.APIBaseURL != "" && !strings.HasPrefix(c.GitHub.APIBaseURL, "http://") &&
		!strings.HasPrefix(c.GitHub.APIBaseURL, "https://") {
		errs = append(errs, ValidationError{
			Field:   "github.api_base_url",
			Message: "must be an http(s) URL",
		})
	}

	if c.Project.MaxFileSizeKB <= 0 {
		errs = append(errs, ValidationError{
			Field:   "project.max_file_size_kb",
			Message: "must be positive",
		})
	}

	if c.Watch.DebounceMS < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce_ms",
			Message: "cannot be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
