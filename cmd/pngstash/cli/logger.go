// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewLogger creates a structured logger for CLI command operations,
// writing to w (normally stderr).
//
// format is "text", "json", or "auto". With "auto", slog.TextHandler
// is used when w is a terminal and slog.JSONHandler when it is piped
// or redirected (CI, scripts), so machine consumers get parseable
// output.
//
// Callers scope the logger with command-specific context via With():
//
//	logger, err := cli.NewLogger(stderr, "auto", slog.LevelWarn)
//	if err != nil {
//	    return err
//	}
//	logger = logger.With("command", "encode", "file", path)
func NewLogger(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	terminal := false
	if file, ok := w.(*os.File); ok {
		terminal = term.IsTerminal(int(file.Fd()))
	}
	return newLogger(w, format, level, terminal)
}

func newLogger(w io.Writer, format string, level slog.Level, terminal bool) (*slog.Logger, error) {
	options := &slog.HandlerOptions{Level: level}
	useText := terminal
	switch format {
	case "text":
		useText = true
	case "json":
		useText = false
	case "auto", "":
	default:
		return nil, fmt.Errorf("unknown log format %q (want auto, text, or json)", format)
	}
	if useText {
		return slog.New(slog.NewTextHandler(w, options)), nil
	}
	return slog.New(slog.NewJSONHandler(w, options)), nil
}
