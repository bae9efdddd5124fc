// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pngchunk implements the PNG container format at the chunk
// level: the 8-byte signature followed by a sequence of
// length-prefixed, type-tagged, CRC-protected records. It knows
// nothing about pixels. IHDR, IDAT and the rest are opaque chunks
// like any other.
//
// The package is organized in three layers:
//
//   - [ChunkType]: the 4-byte ASCII tag. The case of each byte encodes
//     a property bit (critical, public, reserved, safe-to-copy).
//
//   - [Chunk]: one record. The wire format is
//
//     [4-byte BE length][4-byte type][length bytes data][4-byte BE CRC32]
//
//     where the CRC is CRC-32/ISO-HDLC over type+data, never length.
//     [ParseChunk] and [Chunk.Serialize] are exact inverses for any
//     chunk that parses.
//
//   - [Container]: the signature plus an ordered chunk list. [Parse]
//     stops at IEND; any bytes after it are kept verbatim as the
//     trailer so re-serializing never drops data. Mutations
//     ([Container.InsertChunk], [Container.RemoveChunks]) touch only
//     the targeted chunks and keep IEND last.
//
// [Chunks] exposes the parse as a lazy iterator for callers that only
// need to inspect a file.
//
// Parse failures are reported with the sentinels [ErrNotAPNG],
// [ErrTruncatedChunk], [ErrCRCMismatch] and [ErrInvalidChunkType]
// (test with errors.Is). Container-level failures are wrapped in a
// [*ChunkError] carrying the chunk index and byte offset.
package pngchunk
