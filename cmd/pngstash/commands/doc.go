// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the pngstash command tree.
//
// Each subcommand resolves its configuration on every run: the
// --config flag if given, else the file named by PNGSTASH_CONFIG,
// else built-in defaults, with --log-level and --log-format applied
// on top. The resulting [stash.Stash] does all file access; this
// package only parses arguments and formats output.
//
// Writers are injected through [Root] so tests can capture stdout and
// stderr without touching the process streams.
package commands
