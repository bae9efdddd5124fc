// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = ""

	// BuildTime is the UTC timestamp of the build.
	BuildTime = ""

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// shortCommitLength matches "git rev-parse --short".
const shortCommitLength = 7

// build is the resolved build stamp.
type build struct {
	commit string
	time   string
	dirty  bool
}

// resolve merges the -ldflags values with the toolchain's VCS stamp.
// Injected values win.
func resolve(settings []debug.BuildSetting) build {
	result := build{commit: GitCommit, time: BuildTime}
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			if result.commit == "" {
				result.commit = setting.Value
				if len(result.commit) > shortCommitLength {
					result.commit = result.commit[:shortCommitLength]
				}
			}
		case "vcs.time":
			if result.time == "" {
				result.time = setting.Value
			}
		case "vcs.modified":
			result.dirty = setting.Value == "true"
		}
	}
	if result.commit == "" {
		result.commit = "unknown"
	}
	if result.time == "" {
		result.time = "unknown"
	}
	return result
}

func current() build {
	var settings []debug.BuildSetting
	if info, ok := debug.ReadBuildInfo(); ok {
		settings = info.Settings
	}
	return resolve(settings)
}

func (b build) String() string {
	dirty := ""
	if b.dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, b.commit, dirty, b.time)
}

// Info returns a formatted version string suitable for --version output.
func Info() string {
	return current().String()
}

// Full returns detailed version information including Go version.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
