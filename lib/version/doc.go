// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the pngstash binary.
//
// [Version] and [GitCommit] can be injected with -ldflags -X:
//
//	go build -ldflags "-X github.com/bureau-foundation/pngstash/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// When they are not injected, the VCS stamp recorded by the Go
// toolchain (vcs.revision, vcs.time, vcs.modified) is used instead, so
// a plain "go install" still reports the commit it was built from.
package version
