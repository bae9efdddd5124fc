// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package steg

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/bureau-foundation/pngstash/lib/pngchunk"
)

var (
	// ErrChunkNotFound is returned by Decode and Remove when the
	// container has no chunk of the requested type.
	ErrChunkNotFound = errors.New("steg: chunk not found")

	// ErrInvalidPayloadEncoding is returned by Decode when the chunk
	// payload is not valid UTF-8.
	ErrInvalidPayloadEncoding = errors.New("steg: payload is not valid UTF-8")

	// ErrProtectedChunk is returned when asked to encode into or
	// remove one of the image-bearing critical chunks.
	ErrProtectedChunk = errors.New("steg: chunk type is protected")

	// ErrPayloadTooLarge is returned by Encode when the message does
	// not fit in a single PNG chunk.
	ErrPayloadTooLarge = errors.New("steg: payload too large")
)

var protectedTypes = []pngchunk.ChunkType{
	pngchunk.TypeIHDR,
	pngchunk.TypePLTE,
	pngchunk.TypeIDAT,
	pngchunk.TypeIEND,
}

// IsProtected reports whether chunkType is one of the chunks that
// define the image (IHDR, PLTE, IDAT, IEND).
func IsProtected(chunkType pngchunk.ChunkType) bool {
	for _, protected := range protectedTypes {
		if chunkType == protected {
			return true
		}
	}
	return false
}

// Encode inserts message as a new chunk of chunkType, before IEND
// when the container has one. Existing chunks of the same type are
// left in place.
func Encode(container *pngchunk.Container, chunkType pngchunk.ChunkType, message string) error {
	if !chunkType.IsValid() {
		return fmt.Errorf("%w: %q (third letter must be uppercase)", pngchunk.ErrInvalidChunkType, chunkType.String())
	}
	if IsProtected(chunkType) {
		return fmt.Errorf("encoding into %s: %w", chunkType, ErrProtectedChunk)
	}
	if uint64(len(message)) > pngchunk.MaxDataLength {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrPayloadTooLarge, len(message), uint64(pngchunk.MaxDataLength))
	}
	container.InsertChunk(pngchunk.NewChunk(chunkType, []byte(message)))
	return nil
}

// Decode returns the payload of the first chunk of chunkType as text.
func Decode(container *pngchunk.Container, chunkType pngchunk.ChunkType) (string, error) {
	found := container.FindChunks(chunkType)
	if len(found) == 0 {
		return "", fmt.Errorf("decoding %s: %w", chunkType, ErrChunkNotFound)
	}
	data := found[0].Data()
	if !utf8.Valid(data) {
		return "", fmt.Errorf("decoding %s (%d bytes): %w", chunkType, len(data), ErrInvalidPayloadEncoding)
	}
	return string(data), nil
}

// Remove deletes every chunk of chunkType and returns how many were
// removed. Removing a type that is not present is an error.
func Remove(container *pngchunk.Container, chunkType pngchunk.ChunkType) (int, error) {
	if IsProtected(chunkType) {
		return 0, fmt.Errorf("removing %s: %w", chunkType, ErrProtectedChunk)
	}
	removed := container.RemoveChunks(chunkType)
	if removed == 0 {
		return 0, fmt.Errorf("removing %s: %w", chunkType, ErrChunkNotFound)
	}
	return removed, nil
}

// Entry describes one chunk for listing.
type Entry struct {
	Index      int                `json:"index"`
	Type       pngchunk.ChunkType `json:"type"`
	Length     uint32             `json:"length"`
	CRC        uint32             `json:"crc"`
	Critical   bool               `json:"critical"`
	Public     bool               `json:"public"`
	SafeToCopy bool               `json:"safe_to_copy"`
}

// List describes every chunk in container order.
func List(container *pngchunk.Container) []Entry {
	chunks := container.Chunks()
	entries := make([]Entry, 0, len(chunks))
	for index, chunk := range chunks {
		chunkType := chunk.Type()
		entries = append(entries, Entry{
			Index:      index,
			Type:       chunkType,
			Length:     chunk.Length(),
			CRC:        chunk.CRC(),
			Critical:   chunkType.IsCritical(),
			Public:     chunkType.IsPublic(),
			SafeToCopy: chunkType.IsSafeToCopy(),
		})
	}
	return entries
}
