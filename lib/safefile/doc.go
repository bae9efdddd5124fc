// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package safefile guards PNG files against destructive edits.
//
// Every mutation goes through [Store.Mutate], which reads and parses
// the file, applies an in-memory operation, takes a backup of the
// original bytes if none exists yet, and only then replaces the file
// by writing a temporary sibling and renaming it over the target. A
// crash at any point leaves either the old file or the new file at
// the target path, never a partial one.
//
// A backup is taken once and then left alone: repeated edits keep the
// true original until [Store.Cleanup] discards it. [Store.Restore]
// writes the original back through the same atomic path and can be
// repeated.
//
// Backups live next to the target. The backup path is the target path
// plus a suffix (".backup" by default); a CBOR metadata sidecar at the
// backup path plus ".meta" records when the backup was taken, how it
// is compressed, and the BLAKE3 digest of the original bytes. The
// digest lets [Store.Status] tell a file that still matches its backup
// (BackedUp) from one that was edited afterwards (Modified), and lets
// Restore refuse a damaged backup.
//
// Concurrent operations on the same path are not supported: there is
// no file locking.
package safefile
