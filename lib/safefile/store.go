// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package safefile

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bureau-foundation/pngstash/lib/binhash"
	"github.com/bureau-foundation/pngstash/lib/pngchunk"
)

// State classifies a protected file.
type State int

const (
	// Clean means the file has no backup.
	Clean State = iota

	// BackedUp means a backup exists and the file still matches it.
	BackedUp

	// Modified means a backup exists and the file differs from it.
	Modified
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case BackedUp:
		return "backed-up"
	case Modified:
		return "modified"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status is the result of Store.Status.
type Status struct {
	State State `json:"state"`

	// Backup is nil when State is Clean.
	Backup *Record `json:"backup,omitempty"`
}

// Operation transforms a parsed container. It may modify and return
// its argument or return a different container. An error aborts the
// mutation before anything is written.
type Operation func(*pngchunk.Container) (*pngchunk.Container, error)

// Config holds the dependencies of a Store.
type Config struct {
	// Backups stores the pre-mutation copies. Required.
	Backups BackupStore

	// Logger receives backup, commit, restore, and cleanup events.
	// Nil discards them.
	Logger *slog.Logger
}

// Store applies mutations to PNG files with backup-before-write and
// atomic replacement.
type Store struct {
	backups BackupStore
	logger  *slog.Logger
}

// New returns a Store. It panics if cfg.Backups is nil.
func New(cfg Config) *Store {
	if cfg.Backups == nil {
		panic("safefile: Config.Backups is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{backups: cfg.Backups, logger: logger}
}

// Backups returns the store's backup store.
func (s *Store) Backups() BackupStore {
	return s.backups
}

// Read returns the content of path.
func (s *Store) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

// Load reads and parses path.
func (s *Store) Load(path string) (*pngchunk.Container, error) {
	data, err := s.Read(path)
	if err != nil {
		return nil, err
	}
	container, err := pngchunk.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return container, nil
}

// Mutate reads and parses path, applies operation, and atomically
// replaces path with the serialized result.
//
// The operation runs in memory first, so an operation that fails
// leaves the file untouched and takes no backup. Before the file is
// replaced, a backup of the current bytes is taken unless one already
// exists; an existing backup is never overwritten. Nothing is deleted
// when a step fails.
func (s *Store) Mutate(path string, operation Operation) error {
	original, err := s.Read(path)
	if err != nil {
		return err
	}
	container, err := pngchunk.Parse(original)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	updated, err := operation(container)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	data := updated.Serialize()

	if err := s.ensureBackup(path, original); err != nil {
		return err
	}

	if err := writeAtomic(path, data, defaultFileMode); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	s.logger.Info("file updated", "path", path, "bytes", len(data), "chunks", updated.Len())
	return nil
}

func (s *Store) ensureBackup(path string, original []byte) error {
	record, err := s.backups.Lookup(path)
	if err == nil {
		s.logger.Debug("keeping existing backup", "path", path, "backup", record.BackupPath)
		return nil
	}
	if !errors.Is(err, ErrBackupNotFound) {
		return err
	}

	record, err = s.backups.Create(path, original)
	if err != nil {
		return err
	}
	s.logger.Info("backup created",
		"path", path,
		"backup", record.BackupPath,
		"bytes", record.Size,
		"compression", record.Compression.String(),
	)
	return nil
}

// Restore writes the backup of path back over path. The backup is
// kept, so Restore can be repeated. A backup whose bytes no longer
// match the recorded digest is refused and path is left untouched.
func (s *Store) Restore(path string) error {
	original, record, err := s.backups.Load(path)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(original, pngchunk.Signature[:]) {
		return fmt.Errorf("%s: %w: restored bytes are not a PNG file", record.BackupPath, ErrBackupCorrupt)
	}
	if err := writeAtomic(path, original, defaultFileMode); err != nil {
		return &IOError{Op: "restore", Path: path, Err: err}
	}
	s.logger.Info("file restored", "path", path, "backup", record.BackupPath, "bytes", len(original))
	return nil
}

// Status classifies path without modifying anything.
func (s *Store) Status(path string) (Status, error) {
	record, err := s.backups.Lookup(path)
	if errors.Is(err, ErrBackupNotFound) {
		return Status{State: Clean}, nil
	}
	if err != nil {
		return Status{}, err
	}

	current, err := binhash.HashFile(path)
	if err != nil {
		return Status{}, &IOError{Op: "hash", Path: path, Err: err}
	}
	state := Modified
	if current == record.Digest {
		state = BackedUp
	}
	return Status{State: state, Backup: record}, nil
}

// Cleanup deletes the backup of path and any temporary files left by
// interrupted writes. Cleaning a file with nothing to clean succeeds.
func (s *Store) Cleanup(path string) error {
	if err := s.backups.Remove(path); err != nil {
		return err
	}

	backupPath := s.backups.BackupPath(path)
	for _, owner := range []string{path, backupPath, backupPath + metadataSuffix} {
		stale, err := staleTemporaryFiles(owner)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return &IOError{Op: "scan", Path: owner, Err: err}
		}
		for _, temporaryPath := range stale {
			if err := os.Remove(temporaryPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				return &IOError{Op: "remove temporary file", Path: temporaryPath, Err: err}
			}
			s.logger.Debug("removed stale temporary file", "path", temporaryPath)
		}
	}
	s.logger.Info("backup cleaned up", "path", path, "backup", backupPath)
	return nil
}
