// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngchunk

import (
	"bytes"
	"slices"
)

// Container is an in-memory PNG file: the signature (implicit, always
// [Signature]) followed by an ordered list of chunks and any bytes
// that followed IEND. The container owns its chunk list; nothing it
// returns aliases it.
type Container struct {
	chunks  []Chunk
	trailer []byte
}

// NewContainer returns a container holding the given chunks in order.
func NewContainer(chunks ...Chunk) *Container {
	return &Container{chunks: slices.Clone(chunks)}
}

// Parse decodes a complete PNG file. It fails with ErrNotAPNG if the
// signature does not match, or with a [*ChunkError] wrapping
// ErrTruncatedChunk, ErrCRCMismatch or ErrInvalidChunkType for the
// first chunk that does not parse. Parsing stops after IEND; trailing
// bytes are retained and re-emitted by Serialize.
func Parse(buffer []byte) (*Container, error) {
	container := &Container{}
	end := SignatureSize
	for scanned, err := range Chunks(buffer) {
		if err != nil {
			return nil, err
		}
		container.chunks = append(container.chunks, scanned.Chunk)
		end = scanned.End()
	}
	if end < len(buffer) {
		container.trailer = bytes.Clone(buffer[end:])
	}
	return container, nil
}

// Serialize returns the signature followed by every chunk in order
// and the trailer.
func (c *Container) Serialize() []byte {
	size := SignatureSize + len(c.trailer)
	for _, chunk := range c.chunks {
		size += chunk.SerializedSize()
	}

	output := make([]byte, 0, size)
	output = append(output, Signature[:]...)
	for _, chunk := range c.chunks {
		output = chunk.AppendTo(output)
	}
	return append(output, c.trailer...)
}

// Chunks returns the chunk list in container order. The returned
// slice is a copy.
func (c *Container) Chunks() []Chunk {
	return slices.Clone(c.chunks)
}

// Len returns the number of chunks.
func (c *Container) Len() int {
	return len(c.chunks)
}

// Trailer returns a copy of the bytes that followed IEND, or nil.
func (c *Container) Trailer() []byte {
	return bytes.Clone(c.trailer)
}

// FindChunks returns every chunk of the given type in container
// order. No match is an empty result, not an error.
func (c *Container) FindChunks(chunkType ChunkType) []Chunk {
	var matches []Chunk
	for _, chunk := range c.chunks {
		if chunk.Type() == chunkType {
			matches = append(matches, chunk)
		}
	}
	return matches
}

// InsertChunk adds chunk immediately before a trailing IEND, or at
// the end if the last chunk is not IEND. Existing chunks of the same
// type are left in place: callers that want a single chunk per type
// remove first.
func (c *Container) InsertChunk(chunk Chunk) {
	last := len(c.chunks) - 1
	if last >= 0 && c.chunks[last].Type() == TypeIEND {
		c.chunks = slices.Insert(c.chunks, last, chunk)
		return
	}
	c.chunks = append(c.chunks, chunk)
}

// RemoveChunks deletes every chunk of the given type and returns how
// many were removed. The relative order of the remaining chunks is
// unchanged.
func (c *Container) RemoveChunks(chunkType ChunkType) int {
	before := len(c.chunks)
	c.chunks = slices.DeleteFunc(c.chunks, func(chunk Chunk) bool {
		return chunk.Type() == chunkType
	})
	return before - len(c.chunks)
}

// Clone returns an independent copy of the container.
func (c *Container) Clone() *Container {
	return &Container{
		chunks:  slices.Clone(c.chunks),
		trailer: bytes.Clone(c.trailer),
	}
}

// Equal reports whether two containers hold the same chunks in the
// same order and the same trailer.
func (c *Container) Equal(other *Container) bool {
	if len(c.chunks) != len(other.chunks) {
		return false
	}
	for i := range c.chunks {
		if !c.chunks[i].Equal(other.chunks[i]) {
			return false
		}
	}
	return bytes.Equal(c.trailer, other.trailer)
}
