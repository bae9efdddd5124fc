// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/stash"
)

func encodeCommand(stdout, stderr io.Writer) *cli.Command {
	var options globalOptions
	var replace bool

	return &cli.Command{
		Name:    "encode",
		Summary: "Hide a message in a new chunk",
		Description: `Store a message in a new chunk of the given type, inserted just before
IEND. The type must be four ASCII letters with an uppercase third
letter; a lowercase first letter keeps it ancillary so viewers ignore
it. IHDR, PLTE, IDAT and IEND are refused.

Encoding a type that is already present adds another chunk; decode
returns the earliest. Use --replace to drop existing chunks of the
type first.`,
		Args: []string{"file", "type", "message"},
		Examples: []cli.Example{
			{
				Description: "Hide a message",
				Command:     "pngstash encode cat.png ruSt 'meet at noon'",
			},
			{
				Description: "Overwrite the previous message",
				Command:     "pngstash encode cat.png ruSt 'meet at one' --replace",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("encode", pflag.ContinueOnError)
			options.addFlags(flagSet)
			flagSet.BoolVar(&replace, "replace", false, "remove existing chunks of the type first")
			return flagSet
		},
		Run: func(args []string) error {
			session, err := options.open(stderr, "encode")
			if err != nil {
				return err
			}
			path, typeText, message := args[0], args[1], args[2]
			if err := session.stash.EncodeFile(path, typeText, message, replace); err != nil {
				return err
			}
			session.logger.Info("message encoded", "path", path, "type", typeText, "bytes", len(message))
			return nil
		},
	}
}

func decodeCommand(stdout, stderr io.Writer) *cli.Command {
	var options globalOptions

	return &cli.Command{
		Name:    "decode",
		Summary: "Print the message stored in a chunk",
		Description: `Print the text stored in the first chunk of the given type. Fails
when the file has no such chunk or the payload is not UTF-8.`,
		Args: []string{"file", "type"},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
			options.addFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			session, err := options.open(stderr, "decode")
			if err != nil {
				return err
			}
			container, err := session.stash.Load(args[0])
			if err != nil {
				return err
			}
			message, err := stash.DecodeMessage(container, args[1])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			_, err = fmt.Fprintln(stdout, message)
			return err
		},
	}
}

func removeCommand(stdout, stderr io.Writer) *cli.Command {
	var options globalOptions

	return &cli.Command{
		Name:    "remove",
		Summary: "Strip every chunk of a type",
		Description: `Remove every chunk of the given type. Fails, leaving the file alone,
when there is none to remove.`,
		Args: []string{"file", "type"},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("remove", pflag.ContinueOnError)
			options.addFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			session, err := options.open(stderr, "remove")
			if err != nil {
				return err
			}
			removed, err := session.stash.RemoveFile(args[0], args[1])
			if err != nil {
				return err
			}
			noun := "chunks"
			if removed == 1 {
				noun = "chunk"
			}
			_, err = fmt.Fprintf(stdout, "removed %d %s %s\n", removed, args[1], noun)
			return err
		},
	}
}
