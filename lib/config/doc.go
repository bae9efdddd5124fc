// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the pngstash CLI.
//
// Configuration comes from at most one file, named by the --config
// flag (via [LoadFile]) or the PNGSTASH_CONFIG environment variable
// (via [Load]). There is no automatic discovery: with neither set,
// [Default] applies and the tool works with zero setup.
//
// Files ending in .json or .jsonc are read as JSON with comments;
// anything else is YAML. Values in the file override the defaults
// field by field. Environment variables never override file values.
//
// Key exports:
//
//   - [Config] -- backup and log settings
//   - [Default] -- the built-in defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- reports every invalid field at once
package config
