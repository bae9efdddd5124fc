// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for pngstash packages.
//
// [MinimalPNG] returns a complete, decodable 1x1 grayscale PNG: the
// signature followed by IHDR, IDAT and IEND. [RawChunk] serializes a chunk by
// hand so tests can build deliberately broken files without going
// through the package under test. [WriteFile] places bytes in a
// per-test temporary directory and returns the path.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no pngstash-internal dependencies, so any package
// (including lib/pngchunk itself) can use it from its tests.
package testutil
