// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package compress implements the optional compression applied to
// backup copies of protected images.
//
// PNG image data is already deflate-compressed, so most backups gain
// little. Files that carry large text payloads in ancillary chunks, or
// uncompressed trailers, can still shrink noticeably. When compression
// does not make the data smaller, [Compress] stores it as-is and
// reports [None], so the tag recorded alongside a backup always
// describes the bytes actually on disk.
package compress
