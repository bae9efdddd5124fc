// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/version"
)

// Root builds the complete pngstash command tree writing command
// output to stdout and diagnostics and help to stderr.
func Root(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name: "pngstash",
		Description: `pngstash: hide text messages in PNG chunks.

Messages are stored in ancillary chunks that image viewers skip, so
the picture is unchanged. The first edit of a file keeps a backup of
the original next to it; restore puts it back and cleanup deletes it.`,
		HelpOutput: stderr,
		Subcommands: []*cli.Command{
			encodeCommand(stdout, stderr),
			decodeCommand(stdout, stderr),
			removeCommand(stdout, stderr),
			printCommand(stdout, stderr),
			statusCommand(stdout, stderr),
			restoreCommand(stdout, stderr),
			cleanupCommand(stdout, stderr),
			{
				Name:    "version",
				Summary: "Print version information",
				Args:    []string{},
				Run: func(args []string) error {
					_, err := fmt.Fprintf(stdout, "pngstash %s\n", version.Full())
					return err
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Hide a message in a private ancillary chunk",
				Command:     "pngstash encode cat.png ruSt 'meet at noon'",
			},
			{
				Description: "Read it back",
				Command:     "pngstash decode cat.png ruSt",
			},
			{
				Description: "List every chunk with a payload preview",
				Command:     "pngstash print cat.png --preview 40",
			},
			{
				Description: "Undo all edits and drop the backup",
				Command:     "pngstash restore cat.png && pngstash cleanup cat.png",
			},
		},
	}
}
