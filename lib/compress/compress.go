// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Tag identifies a compression algorithm. Tags are persisted in
// backup metadata, so the numeric values are format constants.
type Tag uint8

const (
	// None stores data uncompressed.
	None Tag = 0

	// LZ4 is LZ4 block compression: fast, modest ratio.
	LZ4 Tag = 1

	// Zstd is zstd at the default level: better ratio, more CPU.
	Zstd Tag = 2
)

// String returns the configuration name of the tag.
func (tag Tag) String() string {
	switch tag {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(tag))
	}
}

// ParseTag parses a tag from its configuration name.
func ParseTag(name string) (Tag, error) {
	switch name {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want none, lz4, or zstd)", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (tag Tag) MarshalText() ([]byte, error) {
	switch tag {
	case None, LZ4, Zstd:
		return []byte(tag.String()), nil
	default:
		return nil, fmt.Errorf("cannot marshal compression tag %d", uint8(tag))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (tag *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*tag = parsed
	return nil
}

// errIncompressible is returned internally when the compressed form
// is not smaller than the input.
var errIncompressible = errors.New("compress: data is incompressible")

// Compress compresses data with the requested algorithm and returns
// the stored bytes together with the tag actually used. Data that does
// not shrink is returned unchanged with [None].
func Compress(data []byte, tag Tag) ([]byte, Tag, error) {
	var (
		compressed []byte
		err        error
	)
	switch tag {
	case None:
		return data, None, nil
	case LZ4:
		compressed, err = compressLZ4(data)
	case Zstd:
		compressed, err = compressZstd(data)
	default:
		return nil, 0, fmt.Errorf("unsupported compression tag: %d", uint8(tag))
	}
	if errors.Is(err, errIncompressible) {
		return data, None, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return compressed, tag, nil
}

// Decompress reverses [Compress]. The uncompressed size must match the
// original data length exactly; a mismatch is an error.
func Decompress(compressed []byte, tag Tag, uncompressedSize int) ([]byte, error) {
	switch tag {
	case None:
		if len(compressed) != uncompressedSize {
			return nil, fmt.Errorf("uncompressed data: size %d does not match expected %d",
				len(compressed), uncompressedSize)
		}
		return compressed, nil
	case LZ4:
		return decompressLZ4(compressed, uncompressedSize)
	case Zstd:
		return decompressZstd(compressed, uncompressedSize)
	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", uint8(tag))
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock returns 0 for incompressible input.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

func decompressLZ4(compressed []byte, uncompressedSize int) ([]byte, error) {
	destination := make([]byte, uncompressedSize)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != uncompressedSize {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, uncompressedSize)
	}
	return destination, nil
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use, so one
// of each is shared.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("compress: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("compress: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, uncompressedSize int) ([]byte, error) {
	result, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, uncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(result) != uncompressedSize {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), uncompressedSize)
	}
	return result, nil
}
