// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package safefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultFileMode fs.FileMode = 0o644

	// temporarySuffix ends every temporary file created by
	// writeAtomic. Temporary names are "<base>.<random>.tmp" in the
	// target's directory.
	temporarySuffix = ".tmp"
)

// writeAtomic replaces path with data. The bytes are written to a
// temporary file in the same directory, fsynced, and renamed into
// place, so readers see either the old content or the new content.
//
// The new file keeps the permission bits of the file it replaces, or
// gets mode when path does not exist yet.
func writeAtomic(path string, data []byte, mode fs.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	directory := filepath.Dir(path)
	file, err := os.CreateTemp(directory, filepath.Base(path)+".*"+temporarySuffix)
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	temporaryPath := file.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(temporaryPath)
		}
	}()

	// Write, sync, close, in that order.
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("writing temporary file: %w", err)
	}
	if err := file.Chmod(mode); err != nil {
		file.Close()
		return fmt.Errorf("setting mode on temporary file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("syncing temporary file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	success = true

	// Make the rename durable across power loss.
	if parentDirectory, err := os.Open(directory); err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}
	return nil
}

// staleTemporaryFiles lists leftovers of interrupted writeAtomic calls
// for path: files in the same directory named exactly as os.CreateTemp
// names them, "<base>.<decimal digits>.tmp". Other files that merely
// share the prefix, such as "<base>.draft.tmp" or the temporaries of a
// longer sibling name, are not listed.
func staleTemporaryFiles(path string) ([]string, error) {
	directory := filepath.Dir(path)
	base := filepath.Base(path)

	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && isTemporaryName(entry.Name(), base) {
			stale = append(stale, filepath.Join(directory, entry.Name()))
		}
	}
	return stale, nil
}

// isTemporaryName reports whether name is a writeAtomic temporary for
// a file named base.
func isTemporaryName(name, base string) bool {
	middle, ok := strings.CutPrefix(name, base+".")
	if !ok {
		return false
	}
	middle, ok = strings.CutSuffix(middle, temporarySuffix)
	if !ok {
		return false
	}
	_, err := strconv.ParseUint(middle, 10, 32)
	return err == nil
}
