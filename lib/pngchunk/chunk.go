// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngchunk

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// Chunk layout constants.
const (
	// chunkHeaderSize is the 4-byte length plus the 4-byte type.
	chunkHeaderSize = 8

	// chunkCRCSize is the trailing CRC32.
	chunkCRCSize = 4

	// chunkOverhead is every byte of a serialized chunk that is not
	// data.
	chunkOverhead = chunkHeaderSize + chunkCRCSize

	// MaxDataLength is the largest data length the PNG format allows
	// in a single chunk (2^31 - 1).
	MaxDataLength = 1<<31 - 1
)

// Chunk is one PNG record: a type and its data. Length and CRC are
// derived from those two fields and never stored separately, so a
// Chunk cannot disagree with itself. Chunks are immutable; Data
// returns a copy.
type Chunk struct {
	chunkType ChunkType
	data      []byte
}

// NewChunk builds a chunk from a type and payload. The payload is
// copied.
func NewChunk(chunkType ChunkType, data []byte) Chunk {
	return Chunk{
		chunkType: chunkType,
		data:      bytes.Clone(data),
	}
}

// Type returns the chunk type.
func (c Chunk) Type() ChunkType {
	return c.chunkType
}

// Data returns a copy of the chunk payload.
func (c Chunk) Data() []byte {
	return bytes.Clone(c.data)
}

// Length returns the payload length as written in the length field.
func (c Chunk) Length() uint32 {
	return uint32(len(c.data))
}

// CRC returns the CRC32 over type and data.
func (c Chunk) CRC() uint32 {
	return chunkCRC(c.chunkType, c.data)
}

// SerializedSize returns the number of bytes Serialize produces.
func (c Chunk) SerializedSize() int {
	return chunkOverhead + len(c.data)
}

// Equal reports whether two chunks have the same type and data.
func (c Chunk) Equal(other Chunk) bool {
	return c.chunkType == other.chunkType && bytes.Equal(c.data, other.data)
}

// Serialize returns the wire form of the chunk.
func (c Chunk) Serialize() []byte {
	return c.AppendTo(make([]byte, 0, c.SerializedSize()))
}

// AppendTo appends the wire form of the chunk to destination and
// returns the extended slice.
func (c Chunk) AppendTo(destination []byte) []byte {
	destination = binary.BigEndian.AppendUint32(destination, c.Length())
	destination = append(destination, c.chunkType[:]...)
	destination = append(destination, c.data...)
	return binary.BigEndian.AppendUint32(destination, c.CRC())
}

// ParseChunk decodes one chunk from buffer starting at offset and
// returns it together with the number of bytes consumed. It fails
// with ErrTruncatedChunk if the declared length exceeds MaxDataLength
// or the buffer ends before the declared data and CRC,
// ErrCRCMismatch if the stored CRC does not match the data, and
// ErrInvalidChunkType if the type is not four letters. The CRC is
// checked before the type so any corruption of the type bytes is
// reported as a CRC mismatch.
func ParseChunk(buffer []byte, offset int) (Chunk, int, error) {
	if offset < 0 || offset > len(buffer) {
		return Chunk{}, 0, fmt.Errorf("%w: offset %d outside buffer of %d bytes", ErrTruncatedChunk, offset, len(buffer))
	}
	remaining := buffer[offset:]

	if len(remaining) < chunkHeaderSize {
		return Chunk{}, 0, fmt.Errorf("%w: %d bytes at offset %d, header needs %d",
			ErrTruncatedChunk, len(remaining), offset, chunkHeaderSize)
	}

	length := binary.BigEndian.Uint32(remaining[0:4])
	var chunkType ChunkType
	copy(chunkType[:], remaining[4:8])

	if length > MaxDataLength {
		return Chunk{}, 0, fmt.Errorf("%w: %q at offset %d declares %d data bytes, limit is %d",
			ErrTruncatedChunk, chunkType[:], offset, length, uint32(MaxDataLength))
	}

	// Compare in uint64 so a hostile length near 2^32 cannot wrap.
	total := uint64(chunkOverhead) + uint64(length)
	if uint64(len(remaining)) < total {
		return Chunk{}, 0, fmt.Errorf("%w: %q at offset %d declares %d data bytes, only %d bytes remain",
			ErrTruncatedChunk, chunkType[:], offset, length, len(remaining)-chunkHeaderSize)
	}

	dataEnd := chunkHeaderSize + int(length)
	data := remaining[chunkHeaderSize:dataEnd]
	stored := binary.BigEndian.Uint32(remaining[dataEnd : dataEnd+chunkCRCSize])
	computed := chunkCRC(chunkType, data)
	if stored != computed {
		return Chunk{}, 0, fmt.Errorf("%w: %q at offset %d stores 0x%08x, computed 0x%08x",
			ErrCRCMismatch, chunkType[:], offset, stored, computed)
	}

	if _, err := ParseChunkType(chunkType[:]); err != nil {
		return Chunk{}, 0, fmt.Errorf("chunk at offset %d: %w", offset, err)
	}

	return NewChunk(chunkType, data), int(total), nil
}

// chunkCRC computes CRC-32/ISO-HDLC (the IEEE polynomial, reflected,
// init and final XOR 0xFFFFFFFF) over type followed by data.
func chunkCRC(chunkType ChunkType, data []byte) uint32 {
	checksum := crc32.Update(0, crc32.IEEETable, chunkType[:])
	return crc32.Update(checksum, crc32.IEEETable, data)
}
