// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides a time abstraction for deterministic tests.
//
// Production code receives [Real]; tests receive [Fake] and move time
// explicitly with [FakeClock.Advance] or [FakeClock.Set], so
// timestamps written into backup metadata are predictable.
package clock
