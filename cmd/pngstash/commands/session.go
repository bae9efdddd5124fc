// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/config"
	"github.com/bureau-foundation/pngstash/lib/safefile"
	"github.com/bureau-foundation/pngstash/lib/stash"
)

// globalOptions are the flags every subcommand accepts.
type globalOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

func (o *globalOptions) addFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&o.ConfigPath, "config", "", "config file (default $"+config.EnvironmentVariable+", else built-in defaults)")
	flagSet.StringVar(&o.LogLevel, "log-level", "", "minimum log level: debug, info, warn, error")
	flagSet.StringVar(&o.LogFormat, "log-format", "", "log format: auto, text, json")
}

// session is the per-invocation state shared by the file commands.
type session struct {
	stash   *stash.Stash
	backups *safefile.FileBackupStore
	logger  *slog.Logger
}

// open loads the configuration, applies flag overrides, and builds
// the stash for one command run.
func (o *globalOptions) open(stderr io.Writer, command string) (*session, error) {
	var cfg *config.Config
	var err error
	if o.ConfigPath != "" {
		cfg, err = config.LoadFile(o.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.Log.Format = o.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}

	logger, err := cli.NewLogger(stderr, cfg.Log.Format, cfg.SlogLevel())
	if err != nil {
		return nil, err
	}
	logger = logger.With("command", command)

	backups := safefile.NewFileBackupStore(safefile.BackupOptions{
		Suffix:      cfg.Backup.Suffix,
		Compression: cfg.CompressionTag(),
	})
	logger.Debug("configuration loaded",
		"backup_suffix", cfg.Backup.Suffix,
		"compression", cfg.Backup.Compression,
	)

	return &session{
		stash:   stash.New(backups, logger),
		backups: backups,
		logger:  logger,
	}, nil
}
