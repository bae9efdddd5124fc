// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides pngstash's CBOR encoding configuration.
//
// pngstash uses two serialization formats with a clear boundary:
//
//   - JSON for external interfaces: CLI --json output and JSON
//     configuration files.
//   - CBOR for on-disk state: the metadata sidecar written next to
//     each backup copy.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same record always produces identical bytes:
//
//	data, err := codec.Marshal(record)
//	err = codec.Unmarshal(data, &record)
//
// # Struct Tag Rules
//
//   - `cbor` tag: the type is only ever serialized as CBOR.
//   - `json` tag: the type may be serialized as both JSON and CBOR.
//     fxamacker/cbor v2 reads `json` tags as fallback when `cbor` tags
//     are absent, so one tag controls field naming for both formats.
//     Backup records use this form because `status --json` prints them.
//
// Never use both tags on the same field.
package codec
