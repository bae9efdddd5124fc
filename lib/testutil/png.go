// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
)

// pngSignature is duplicated here so this package stays free of
// pngstash imports.
var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// PNGSignature returns a fresh copy of the 8-byte PNG signature.
func PNGSignature() []byte {
	return bytes.Clone(pngSignature)
}

// RawChunk serializes one chunk: big-endian length, type, data and
// the CRC32 of type+data. chunkType is written as-is, so tests can
// produce invalid types on purpose.
func RawChunk(chunkType string, data []byte) []byte {
	output := binary.BigEndian.AppendUint32(nil, uint32(len(data)))
	output = append(output, chunkType...)
	output = append(output, data...)
	checksum := crc32.ChecksumIEEE(append([]byte(chunkType), data...))
	return binary.BigEndian.AppendUint32(output, checksum)
}

// MinimalIHDR returns the 13-byte IHDR payload for a 1x1, 8-bit
// grayscale, non-interlaced image.
func MinimalIHDR() []byte {
	ihdr := binary.BigEndian.AppendUint32(nil, 1) // width
	ihdr = binary.BigEndian.AppendUint32(ihdr, 1) // height
	return append(ihdr,
		8, // bit depth
		0, // color type: grayscale
		0, // compression method
		0, // filter method
		0, // interlace method
	)
}

// MinimalIDAT returns a zlib stream holding one scanline: filter byte
// 0 followed by a single mid-gray pixel.
func MinimalIDAT() []byte {
	var compressed bytes.Buffer
	writer := zlib.NewWriter(&compressed)
	// Writes to a bytes.Buffer cannot fail.
	writer.Write([]byte{0x00, 0x80})
	writer.Close()
	return compressed.Bytes()
}

// MinimalPNG returns a complete, decodable PNG file: signature, IHDR,
// IDAT, IEND.
func MinimalPNG() []byte {
	output := PNGSignature()
	output = append(output, RawChunk("IHDR", MinimalIHDR())...)
	output = append(output, RawChunk("IDAT", MinimalIDAT())...)
	return append(output, RawChunk("IEND", nil)...)
}

// BuildPNG returns the signature followed by the given raw chunks, as
// produced by [RawChunk].
func BuildPNG(rawChunks ...[]byte) []byte {
	output := PNGSignature()
	for _, raw := range rawChunks {
		output = append(output, raw...)
	}
	return output
}
