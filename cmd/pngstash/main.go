// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Pngstash hides, reads, and removes text messages in the ancillary
// chunks of PNG files, keeping a backup of each file's original
// content until it is cleaned up.
package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that report their result through the exit code
		// (status --check) return an ExitError. Don't print a
		// redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root(os.Stdout, os.Stderr).Execute(os.Args[1:])
}
