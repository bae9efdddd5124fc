// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package safefile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bureau-foundation/pngstash/lib/binhash"
	"github.com/bureau-foundation/pngstash/lib/clock"
	"github.com/bureau-foundation/pngstash/lib/codec"
	"github.com/bureau-foundation/pngstash/lib/compress"
	"github.com/bureau-foundation/pngstash/lib/pngchunk"
)

// DefaultSuffix is appended to a target path to form its backup path.
const DefaultSuffix = ".backup"

// metadataSuffix is appended to a backup path to form its metadata
// sidecar path.
const metadataSuffix = ".meta"

// backupFileMode keeps backups private: they hold the unedited
// original, including any payload later removed from the target.
const backupFileMode fs.FileMode = 0o600

// Record describes one backup. It is persisted as the CBOR metadata
// sidecar and printed by `status --json`.
type Record struct {
	// OriginalPath is the protected file the backup belongs to.
	OriginalPath string `json:"original_path"`

	// BackupPath is where the backup bytes are stored.
	BackupPath string `json:"backup_path"`

	// CreatedAt is when the backup was taken.
	CreatedAt time.Time `json:"created_at"`

	// Compression describes how the bytes at BackupPath are stored.
	Compression compress.Tag `json:"compression"`

	// Size is the length of the original file in bytes.
	Size int64 `json:"size"`

	// StoredSize is the length of the backup file in bytes. Equal to
	// Size when Compression is none.
	StoredSize int64 `json:"stored_size"`

	// Digest is the BLAKE3 content digest of the original bytes.
	Digest binhash.Digest `json:"digest"`
}

// BackupStore keeps one pre-mutation copy per protected file. Backup
// locations are a pure function of the target path, so no state is
// shared between stores.
type BackupStore interface {
	// BackupPath returns where the backup of target lives.
	BackupPath(target string) string

	// TargetPath inverts BackupPath: it returns the target whose
	// backup would live at path, and false when path is not a backup
	// location.
	TargetPath(path string) (string, bool)

	// Lookup returns the record of target's backup, or an error
	// wrapping ErrBackupNotFound when there is none.
	Lookup(target string) (*Record, error)

	// Create stores original as target's backup, replacing any
	// existing backup.
	Create(target string, original []byte) (*Record, error)

	// Load returns the verified original bytes of target's backup.
	// Fails with ErrBackupNotFound or ErrBackupCorrupt.
	Load(target string) ([]byte, *Record, error)

	// Remove deletes target's backup. Removing a missing backup
	// succeeds.
	Remove(target string) error
}

// FileBackupStore stores backups as sibling files of their targets.
type FileBackupStore struct {
	suffix      string
	compression compress.Tag
	clock       clock.Clock
}

// BackupOptions configures a FileBackupStore. Zero values select the
// defaults: DefaultSuffix, no compression, the real clock.
type BackupOptions struct {
	Suffix      string
	Compression compress.Tag
	Clock       clock.Clock
}

// NewFileBackupStore returns a FileBackupStore with the given options.
func NewFileBackupStore(options BackupOptions) *FileBackupStore {
	store := &FileBackupStore{
		suffix:      options.Suffix,
		compression: options.Compression,
		clock:       options.Clock,
	}
	if store.suffix == "" {
		store.suffix = DefaultSuffix
	}
	if store.clock == nil {
		store.clock = clock.Real()
	}
	return store
}

// BackupPath returns target followed by the configured suffix.
func (s *FileBackupStore) BackupPath(target string) string {
	return target + s.suffix
}

// TargetPath strips the configured suffix from path.
func (s *FileBackupStore) TargetPath(path string) (string, bool) {
	target, ok := strings.CutSuffix(path, s.suffix)
	if !ok || target == "" || strings.HasSuffix(target, string(filepath.Separator)) {
		return "", false
	}
	return target, true
}

// MetadataPath returns where the record of target's backup is stored.
func (s *FileBackupStore) MetadataPath(target string) string {
	return s.BackupPath(target) + metadataSuffix
}

// Lookup reads the metadata of target's backup. A backup file without
// a sidecar (for instance one copied by hand) is described as an
// uncompressed backup with the digest of its current content and its
// modification time, provided it is a PNG file; otherwise Lookup fails
// with ErrBackupCorrupt.
func (s *FileBackupStore) Lookup(target string) (*Record, error) {
	backupPath := s.BackupPath(target)
	info, err := os.Stat(backupPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", target, ErrBackupNotFound)
	}
	if err != nil {
		return nil, &IOError{Op: "stat backup", Path: backupPath, Err: err}
	}

	metadataPath := s.MetadataPath(target)
	data, err := os.ReadFile(metadataPath)
	if errors.Is(err, fs.ErrNotExist) {
		content, err := os.ReadFile(backupPath)
		if err != nil {
			return nil, &IOError{Op: "read backup", Path: backupPath, Err: err}
		}
		// Without a record the bytes must be a plain PNG; a compressed
		// backup cannot be restored once its record is gone.
		if !bytes.HasPrefix(content, pngchunk.Signature[:]) {
			return nil, fmt.Errorf("%s: %w: no metadata at %s and the backup is not a PNG file",
				backupPath, ErrBackupCorrupt, metadataPath)
		}
		digest := binhash.HashBytes(content)
		return &Record{
			OriginalPath: target,
			BackupPath:   backupPath,
			CreatedAt:    info.ModTime(),
			Compression:  compress.None,
			Size:         int64(len(content)),
			StoredSize:   int64(len(content)),
			Digest:       digest,
		}, nil
	}
	if err != nil {
		return nil, &IOError{Op: "read backup metadata", Path: metadataPath, Err: err}
	}

	var record Record
	if err := codec.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decoding backup metadata %s: %w", metadataPath, err)
	}
	return &record, nil
}

// Create compresses original as configured and writes the metadata
// sidecar followed by the backup file, both atomically. The backup
// file is what makes a backup exist, so a crash between the two
// writes leaves no backup and a stale sidecar that the next Create
// overwrites.
func (s *FileBackupStore) Create(target string, original []byte) (*Record, error) {
	stored, used, err := compress.Compress(original, s.compression)
	if err != nil {
		return nil, fmt.Errorf("compressing backup of %s: %w", target, err)
	}

	record := &Record{
		OriginalPath: target,
		BackupPath:   s.BackupPath(target),
		CreatedAt:    s.clock.Now(),
		Compression:  used,
		Size:         int64(len(original)),
		StoredSize:   int64(len(stored)),
		Digest:       binhash.HashBytes(original),
	}

	metadata, err := codec.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encoding backup metadata: %w", err)
	}
	metadataPath := s.MetadataPath(target)
	if err := writeAtomic(metadataPath, metadata, backupFileMode); err != nil {
		return nil, &IOError{Op: "write backup metadata", Path: metadataPath, Err: err}
	}
	if err := writeAtomic(record.BackupPath, stored, backupFileMode); err != nil {
		return nil, &IOError{Op: "write backup", Path: record.BackupPath, Err: err}
	}
	return record, nil
}

// Load reads, decompresses, and verifies target's backup.
func (s *FileBackupStore) Load(target string) ([]byte, *Record, error) {
	record, err := s.Lookup(target)
	if err != nil {
		return nil, nil, err
	}

	stored, err := os.ReadFile(record.BackupPath)
	if err != nil {
		return nil, nil, &IOError{Op: "read backup", Path: record.BackupPath, Err: err}
	}
	original, err := compress.Decompress(stored, record.Compression, int(record.Size))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w: %v", record.BackupPath, ErrBackupCorrupt, err)
	}
	if digest := binhash.HashBytes(original); digest != record.Digest {
		return nil, nil, fmt.Errorf("%s: %w (have %s, recorded %s)",
			record.BackupPath, ErrBackupCorrupt, digest.Short(), record.Digest.Short())
	}
	return original, record, nil
}

// Remove deletes the backup file and then its sidecar.
func (s *FileBackupStore) Remove(target string) error {
	for _, path := range []string{s.BackupPath(target), s.MetadataPath(target)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &IOError{Op: "remove backup", Path: path, Err: err}
		}
	}
	return nil
}
