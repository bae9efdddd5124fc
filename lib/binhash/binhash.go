// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 keyed digest of file content.
type Digest [32]byte

// contentDomainKey is the BLAKE3 key for content digests: the ASCII
// domain name, zero-padded to 32 bytes. Changing it invalidates every
// digest recorded in existing backup metadata.
var contentDomainKey = [32]byte{
	'p', 'n', 'g', 's', 't', 'a', 's', 'h', '.', 'c', 'o', 'n', 't', 'e', 'n', 't',
}

func newHasher() *blake3.Hasher {
	hasher, err := blake3.NewKeyed(contentDomainKey[:])
	if err != nil {
		// Only returned for a key that is not 32 bytes.
		panic("binhash: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return hasher
}

func sum(hasher *blake3.Hasher) Digest {
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// HashBytes computes the content digest of data.
func HashBytes(data []byte) Digest {
	hasher := newHasher()
	hasher.Write(data)
	return sum(hasher)
}

// HashFile computes the content digest of the file at path, streaming
// it through the hasher with constant memory.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := newHasher()
	if _, err := io.Copy(hasher, file); err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return sum(hasher), nil
}

// IsZero reports whether d is the zero digest, which metadata uses
// for "not recorded".
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// String returns the hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 12 hex characters, for display.
func (d Digest) Short() string {
	return hex.EncodeToString(d[:6])
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDigest parses a 64-character hex string into a Digest.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing content digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("content digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
