// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package steg hides text messages in ancillary PNG chunks.
//
// The engine works purely on an in-memory [pngchunk.Container]: it
// never reads or writes files. [Encode] appends a new chunk carrying
// the UTF-8 bytes of a message immediately before IEND, [Decode]
// returns the payload of the first chunk of a given type, [Remove]
// strips every chunk of a type, and [List] describes the chunk
// sequence for inspection.
//
// Encoding does not deduplicate. Encoding twice with the same type
// produces two chunks, and Decode surfaces the earlier one. Callers
// wanting replace semantics call Remove first.
//
// The critical chunks that carry the image itself (IHDR, PLTE, IDAT,
// IEND) are protected: Encode and Remove refuse them with
// [ErrProtectedChunk].
package steg
