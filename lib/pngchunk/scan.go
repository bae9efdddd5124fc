// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngchunk

import (
	"bytes"
	"fmt"
	"iter"
)

// Signature is the 8-byte PNG file signature.
var Signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// SignatureSize is the length of [Signature].
const SignatureSize = len(Signature)

// ScannedChunk is one element produced by [Chunks]: the chunk plus
// where it was found.
type ScannedChunk struct {
	// Index is the zero-based position of the chunk in the file.
	Index int

	// Offset is the byte offset of the chunk's length field from the
	// start of the file.
	Offset int

	Chunk Chunk
}

// End returns the offset of the first byte after this chunk.
func (s ScannedChunk) End() int {
	return s.Offset + s.Chunk.SerializedSize()
}

// Chunks returns an iterator over the chunks of a PNG file held in
// buffer. The signature is checked first; on mismatch the iterator
// yields a single ErrNotAPNG error. Iteration ends when the buffer is
// exhausted or after the IEND chunk has been yielded. A chunk that
// fails to parse is yielded as a [*ChunkError] and ends the
// iteration.
//
// The iterator holds no state between calls: ranging over it again
// rescans from the signature.
func Chunks(buffer []byte) iter.Seq2[ScannedChunk, error] {
	return func(yield func(ScannedChunk, error) bool) {
		if err := checkSignature(buffer); err != nil {
			yield(ScannedChunk{}, err)
			return
		}

		offset := SignatureSize
		for index := 0; offset < len(buffer); index++ {
			chunk, consumed, err := ParseChunk(buffer, offset)
			if err != nil {
				yield(ScannedChunk{}, &ChunkError{
					Index:  index,
					Offset: offset,
					Type:   peekType(buffer, offset),
					Err:    err,
				})
				return
			}

			scanned := ScannedChunk{Index: index, Offset: offset, Chunk: chunk}
			if !yield(scanned, nil) {
				return
			}
			if chunk.Type() == TypeIEND {
				return
			}
			offset += consumed
		}
	}
}

func checkSignature(buffer []byte) error {
	if len(buffer) < SignatureSize {
		return fmt.Errorf("%w: %d bytes is shorter than the %d-byte signature", ErrNotAPNG, len(buffer), SignatureSize)
	}
	if !bytes.Equal(buffer[:SignatureSize], Signature[:]) {
		return fmt.Errorf("%w: signature is % x, want % x", ErrNotAPNG, buffer[:SignatureSize], Signature[:])
	}
	return nil
}

// peekType returns the type field of the chunk at offset as text if
// the buffer is long enough and the bytes are letters, otherwise "".
// Used only to label errors.
func peekType(buffer []byte, offset int) string {
	if offset+chunkHeaderSize > len(buffer) {
		return ""
	}
	chunkType, err := ParseChunkType(buffer[offset+4 : offset+chunkHeaderSize])
	if err != nil {
		return ""
	}
	return chunkType.String()
}
