// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package stash is the entry point used by the pngstash CLI. It
// combines chunk parsing, the steganography engine, and the safe file
// store behind functions that take chunk types as text, the way they
// arrive on the command line.
//
// Message operations work on in-memory containers and never touch the
// filesystem; [Stash.Persist] is the only write path and always goes
// through [safefile.Store.Mutate].
package stash

import (
	"errors"
	"log/slog"

	"github.com/bureau-foundation/pngstash/lib/pngchunk"
	"github.com/bureau-foundation/pngstash/lib/safefile"
	"github.com/bureau-foundation/pngstash/lib/steg"
)

// ChunkInfo is one line of a chunk listing.
type ChunkInfo = steg.Entry

// Stash binds the message operations to a file store.
type Stash struct {
	store *safefile.Store
}

// New returns a Stash persisting through backups, logging to logger
// (nil discards).
func New(backups safefile.BackupStore, logger *slog.Logger) *Stash {
	return &Stash{store: safefile.New(safefile.Config{Backups: backups, Logger: logger})}
}

// Store returns the underlying file store.
func (s *Stash) Store() *safefile.Store {
	return s.store
}

// Load reads and parses the PNG file at path.
func (s *Stash) Load(path string) (*pngchunk.Container, error) {
	return s.store.Load(path)
}

// ListChunks describes every chunk of container in order.
func ListChunks(container *pngchunk.Container) []ChunkInfo {
	return steg.List(container)
}

// EncodeMessage returns a copy of container with message stored in a
// new chunk of the given type. container itself is not modified.
func EncodeMessage(container *pngchunk.Container, typeText, message string) (*pngchunk.Container, error) {
	chunkType, err := pngchunk.ChunkTypeFromString(typeText)
	if err != nil {
		return nil, err
	}
	updated := container.Clone()
	if err := steg.Encode(updated, chunkType, message); err != nil {
		return nil, err
	}
	return updated, nil
}

// DecodeMessage returns the text stored in the first chunk of the
// given type.
func DecodeMessage(container *pngchunk.Container, typeText string) (string, error) {
	chunkType, err := pngchunk.ChunkTypeFromString(typeText)
	if err != nil {
		return "", err
	}
	return steg.Decode(container, chunkType)
}

// RemoveMessage returns a copy of container without any chunk of the
// given type, and how many chunks were dropped.
func RemoveMessage(container *pngchunk.Container, typeText string) (*pngchunk.Container, int, error) {
	chunkType, err := pngchunk.ChunkTypeFromString(typeText)
	if err != nil {
		return nil, 0, err
	}
	updated := container.Clone()
	removed, err := steg.Remove(updated, chunkType)
	if err != nil {
		return nil, 0, err
	}
	return updated, removed, nil
}

// Persist writes container to path, backing up the current content
// first if no backup exists.
func (s *Stash) Persist(path string, container *pngchunk.Container) error {
	return s.store.Mutate(path, func(*pngchunk.Container) (*pngchunk.Container, error) {
		return container, nil
	})
}

// Edit loads path, applies operation, and persists the result in one
// pass through the file store.
func (s *Stash) Edit(path string, operation safefile.Operation) error {
	return s.store.Mutate(path, operation)
}

// RestoreBackup writes the backup of path back over its target and
// returns the target. path may name the backup itself
// ("cat.png.backup"), in which case the file it was taken from is
// restored, unless path has a backup of its own.
func (s *Stash) RestoreBackup(path string) (string, error) {
	target := s.restoreTarget(path)
	if err := s.store.Restore(target); err != nil {
		return "", err
	}
	return target, nil
}

func (s *Stash) restoreTarget(path string) string {
	backups := s.store.Backups()
	target, ok := backups.TargetPath(path)
	if !ok {
		return path
	}
	if _, err := backups.Lookup(path); !errors.Is(err, safefile.ErrBackupNotFound) {
		return path
	}
	return target
}

// BackupStatus classifies path as clean, backed up, or modified.
func (s *Stash) BackupStatus(path string) (safefile.Status, error) {
	return s.store.Status(path)
}

// CleanupBackup discards the backup of path. It succeeds when there is
// nothing to discard.
func (s *Stash) CleanupBackup(path string) error {
	return s.store.Cleanup(path)
}

// EncodeFile stores message in the file at path. With replace set,
// chunks of the same type are removed first, so the file ends up with
// exactly one.
func (s *Stash) EncodeFile(path, typeText, message string, replace bool) error {
	chunkType, err := pngchunk.ChunkTypeFromString(typeText)
	if err != nil {
		return err
	}
	return s.store.Mutate(path, func(container *pngchunk.Container) (*pngchunk.Container, error) {
		if replace {
			if _, err := steg.Remove(container, chunkType); err != nil && !isNotFound(err) {
				return nil, err
			}
		}
		if err := steg.Encode(container, chunkType, message); err != nil {
			return nil, err
		}
		return container, nil
	})
}

// RemoveFile strips every chunk of the given type from the file at
// path and returns how many were removed.
func (s *Stash) RemoveFile(path, typeText string) (int, error) {
	chunkType, err := pngchunk.ChunkTypeFromString(typeText)
	if err != nil {
		return 0, err
	}
	var removed int
	err = s.store.Mutate(path, func(container *pngchunk.Container) (*pngchunk.Container, error) {
		count, err := steg.Remove(container, chunkType)
		if err != nil {
			return nil, err
		}
		removed = count
		return container, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, steg.ErrChunkNotFound)
}
