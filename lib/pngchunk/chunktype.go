// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngchunk

import "fmt"

// ChunkType is a 4-byte chunk tag such as "IHDR" or "ruSt". Every byte
// is an ASCII letter. Bit 5 of each byte (the lowercase bit) carries a
// property:
//
//	byte 0: uppercase = critical,  lowercase = ancillary
//	byte 1: uppercase = public,    lowercase = private
//	byte 2: uppercase = reserved bit valid (lowercase is invalid today)
//	byte 3: uppercase = unsafe to copy, lowercase = safe to copy
//
// ChunkType is a comparable value; equality is byte-exact.
type ChunkType [4]byte

// propertyBit is the ASCII case bit that encodes each property.
const propertyBit = 0x20

// Well-known chunk types.
var (
	TypeIHDR = ChunkType{'I', 'H', 'D', 'R'}
	TypePLTE = ChunkType{'P', 'L', 'T', 'E'}
	TypeIDAT = ChunkType{'I', 'D', 'A', 'T'}
	TypeIEND = ChunkType{'I', 'E', 'N', 'D'}
)

// ParseChunkType validates raw and returns it as a ChunkType. It
// fails with ErrInvalidChunkType unless raw is exactly four ASCII
// letters. The reserved bit is not checked here; see
// [ChunkType.IsValid].
func ParseChunkType(raw []byte) (ChunkType, error) {
	if len(raw) != 4 {
		return ChunkType{}, fmt.Errorf("%w: %q is %d bytes, want 4", ErrInvalidChunkType, raw, len(raw))
	}
	for i, b := range raw {
		if !isASCIILetter(b) {
			return ChunkType{}, fmt.Errorf("%w: %q has non-letter byte 0x%02x at position %d",
				ErrInvalidChunkType, raw, b, i)
		}
	}
	return ChunkType{raw[0], raw[1], raw[2], raw[3]}, nil
}

// ChunkTypeFromString is ParseChunkType for the textual form used on
// the command line.
func ChunkTypeFromString(text string) (ChunkType, error) {
	return ParseChunkType([]byte(text))
}

// MustChunkType is ChunkTypeFromString for constants in tests and
// package-level variables. It panics on invalid input.
func MustChunkType(text string) ChunkType {
	chunkType, err := ChunkTypeFromString(text)
	if err != nil {
		panic(err)
	}
	return chunkType
}

// Bytes returns the four tag bytes.
func (t ChunkType) Bytes() []byte {
	return []byte{t[0], t[1], t[2], t[3]}
}

// String returns the tag as text.
func (t ChunkType) String() string {
	return string(t[:])
}

// IsCritical reports whether decoders must understand this chunk to
// display the image.
func (t ChunkType) IsCritical() bool {
	return t[0]&propertyBit == 0
}

// IsPublic reports whether the type is part of the public PNG
// registry rather than an application-private type.
func (t ChunkType) IsPublic() bool {
	return t[1]&propertyBit == 0
}

// IsReservedBitValid reports whether the reserved bit (third byte) is
// uppercase, the only value the PNG specification allows today.
func (t ChunkType) IsReservedBitValid() bool {
	return t[2]&propertyBit == 0
}

// IsSafeToCopy reports whether editors that do not recognize this
// chunk may copy it into a modified file.
func (t ChunkType) IsSafeToCopy() bool {
	return t[3]&propertyBit != 0
}

// IsValid reports whether every byte is an ASCII letter and the
// reserved bit is valid.
func (t ChunkType) IsValid() bool {
	for _, b := range t {
		if !isASCIILetter(b) {
			return false
		}
	}
	return t.IsReservedBitValid()
}

// MarshalText implements encoding.TextMarshaler so chunk types encode
// as strings in JSON and CBOR output.
func (t ChunkType) MarshalText() ([]byte, error) {
	return t.Bytes(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with the same
// validation as ParseChunkType.
func (t *ChunkType) UnmarshalText(text []byte) error {
	parsed, err := ParseChunkType(text)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
