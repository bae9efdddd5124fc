// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/pngstash/lib/compress"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "PNGSTASH_CONFIG"

// Config is the pngstash configuration.
type Config struct {
	// Backup configures how originals are preserved.
	Backup BackupConfig `yaml:"backup"`

	// Log configures diagnostic output on stderr.
	Log LogConfig `yaml:"log"`
}

// BackupConfig configures the backup store.
type BackupConfig struct {
	// Suffix is appended to an image path to form its backup path.
	// Default: .backup
	Suffix string `yaml:"suffix"`

	// Compression is applied to new backups: none, lz4, or zstd.
	// Existing backups keep the compression they were written with.
	// Default: none
	Compression string `yaml:"compression"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum level logged: debug, info, warn, or error.
	// Default: warn
	Level string `yaml:"level"`

	// Format selects the handler: auto (text on a terminal, JSON
	// otherwise), text, or json.
	// Default: auto
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backup: BackupConfig{
			Suffix:      ".backup",
			Compression: "none",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "auto",
		},
	}
}

// Load reads the file named by PNGSTASH_CONFIG, or returns Default
// when the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the file at path over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// Plain JSON is valid YAML, so after stripping comments and
		// trailing commas the YAML decoder handles it.
		data = jsonc.ToJSON(data)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"auto", "text", "json"}
)

// Validate checks the configuration and reports every problem.
func (c *Config) Validate() error {
	var errs []error

	switch {
	case c.Backup.Suffix == "":
		errs = append(errs, errors.New("backup.suffix is required"))
	case strings.ContainsRune(c.Backup.Suffix, filepath.Separator):
		errs = append(errs, fmt.Errorf("backup.suffix %q must not contain a path separator", c.Backup.Suffix))
	case strings.HasSuffix(c.Backup.Suffix, ".tmp"):
		errs = append(errs, fmt.Errorf("backup.suffix %q must not end in .tmp", c.Backup.Suffix))
	}

	if _, err := compress.ParseTag(c.Backup.Compression); err != nil {
		errs = append(errs, fmt.Errorf("backup.compression: %w", err))
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", logFormats))
	}

	return errors.Join(errs...)
}

// CompressionTag returns the configured backup compression. Call
// Validate first; an invalid name yields compress.None.
func (c *Config) CompressionTag() compress.Tag {
	tag, err := compress.ParseTag(c.Backup.Compression)
	if err != nil {
		return compress.None
	}
	return tag
}

// SlogLevel returns the configured log level. Call Validate first; an
// invalid name yields slog.LevelWarn.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
