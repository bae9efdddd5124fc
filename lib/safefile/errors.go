// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package safefile

import (
	"errors"
	"fmt"
)

var (
	// ErrBackupNotFound is returned by Restore when the target has no
	// backup.
	ErrBackupNotFound = errors.New("safefile: backup not found")

	// ErrBackupCorrupt is returned when backup bytes do not match the
	// digest recorded when the backup was taken.
	ErrBackupCorrupt = errors.New("safefile: backup does not match its recorded digest")
)

// IOError reports a filesystem failure. Op names the step ("read",
// "write", "backup", ...), Path is the file involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *IOError) Unwrap() error {
	return e.Err
}
