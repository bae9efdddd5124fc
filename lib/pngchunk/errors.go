// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngchunk

import (
	"errors"
	"fmt"
)

// Errors returned by the parsing functions. Callers match them with
// errors.Is; the wrapped messages carry offsets and sizes.
var (
	ErrNotAPNG          = errors.New("pngchunk: not a PNG file")
	ErrTruncatedChunk   = errors.New("pngchunk: truncated chunk")
	ErrCRCMismatch      = errors.New("pngchunk: CRC mismatch")
	ErrInvalidChunkType = errors.New("pngchunk: invalid chunk type")
)

// ChunkError locates a parse failure inside a container. Index is the
// zero-based position of the failing chunk, Offset is the byte offset
// of its length field from the start of the file. Type is empty when
// the failure happened before the type field could be read.
type ChunkError struct {
	Index  int
	Offset int
	Type   string
	Err    error
}

func (e *ChunkError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("chunk %d at offset %d: %v", e.Index, e.Offset, e.Err)
	}
	return fmt.Sprintf("chunk %d (%s) at offset %d: %v", e.Index, e.Type, e.Offset, e.Err)
}

// Unwrap returns the underlying sentinel-carrying error.
func (e *ChunkError) Unwrap() error {
	return e.Err
}
