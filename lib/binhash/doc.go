// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides BLAKE3 content digests for image files and
// their backups.
//
// A digest is recorded when a backup is taken. It serves two
// purposes: status classification (does the target still match its
// backup, or has it been modified since) and restore verification
// (a backup whose bytes no longer hash to the recorded digest is
// refused rather than written over the target).
//
// Digests use BLAKE3 keyed mode with a fixed, package-private domain
// key, so a pngstash content digest can never be confused with a
// plain BLAKE3 hash of the same bytes computed elsewhere.
//
// The API surface:
//
//   - [HashBytes] and [HashFile] compute a [Digest]
//   - [Digest.String] and [ParseDigest] convert to and from the
//     canonical hex form used in metadata, logs, and CLI output
//
// This package has no dependencies on other pngstash packages.
package binhash
