// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/codec"
	"github.com/bureau-foundation/pngstash/lib/compress"
	"github.com/bureau-foundation/pngstash/lib/safefile"
)

// statusReport is the --json form of status.
type statusReport struct {
	Path string `json:"path"`
	safefile.Status
}

// stateColors maps each state to its terminal color.
var stateColors = map[safefile.State]lipgloss.AdaptiveColor{
	safefile.Clean:    {Light: "#2e7d32", Dark: "#81c784"},
	safefile.BackedUp: {Light: "#1565c0", Dark: "#64b5f6"},
	safefile.Modified: {Light: "#ef6c00", Dark: "#ffb74d"},
}

func statusCommand(stdout, stderr io.Writer) *cli.Command {
	var options globalOptions
	var output cli.JSONOutput
	var check, raw bool

	return &cli.Command{
		Name:    "status",
		Summary: "Show whether a file differs from its backup",
		Description: `Report the backup state of a file:

  clean      no backup exists
  backed-up  a backup exists and the file still matches it
  modified   the file differs from its backup

For backed-up and modified files the backup location, creation time,
size and compression are shown. With --check the command exits 1 when
the file is modified. With --raw the backup metadata sidecar is
printed in CBOR diagnostic notation.`,
		Args: []string{"file"},
		Examples: []cli.Example{
			{
				Description: "Fail a script if the image was edited",
				Command:     "pngstash status cat.png --check",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("status", pflag.ContinueOnError)
			options.addFlags(flagSet)
			output.AddFlag(flagSet)
			flagSet.BoolVar(&check, "check", false, "exit 1 if the file is modified")
			flagSet.BoolVar(&raw, "raw", false, "print the backup metadata sidecar as CBOR diagnostic notation")
			return flagSet
		},
		Run: func(args []string) error {
			session, err := options.open(stderr, "status")
			if err != nil {
				return err
			}
			path := args[0]

			if raw {
				return writeRawMetadata(stdout, session.backups.MetadataPath(path))
			}

			status, err := session.stash.BackupStatus(path)
			if err != nil {
				return err
			}
			if done, err := output.EmitJSON(stdout, statusReport{Path: path, Status: status}); done {
				if err != nil {
					return err
				}
			} else if err := writeStatus(stdout, path, status); err != nil {
				return err
			}

			if check && status.State == safefile.Modified {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func writeStatus(w io.Writer, path string, status safefile.Status) error {
	renderer := lipgloss.NewRenderer(w)
	stateStyle := renderer.NewStyle().Bold(true).Foreground(stateColors[status.State])

	if _, err := fmt.Fprintf(w, "%s: %s\n", path, stateStyle.Render(status.State.String())); err != nil {
		return err
	}
	record := status.Backup
	if record == nil {
		return nil
	}

	stored := humanize.Bytes(uint64(record.StoredSize))
	if record.Compression != compress.None {
		stored = fmt.Sprintf("%s %s", stored, record.Compression)
	}
	_, err := fmt.Fprintf(w, "  backup:   %s\n  created:  %s (%s)\n  size:     %s (stored %s)\n  digest:   %s\n",
		record.BackupPath,
		record.CreatedAt.Format(time.RFC3339),
		humanize.Time(record.CreatedAt),
		humanize.Bytes(uint64(record.Size)),
		stored,
		record.Digest.Short(),
	)
	return err
}

func writeRawMetadata(w io.Writer, metadataPath string) error {
	data, err := os.ReadFile(metadataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("no backup metadata at %s", metadataPath)
	}
	if err != nil {
		return err
	}
	notation, err := codec.Diagnose(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", metadataPath, err)
	}
	_, err = fmt.Fprintln(w, notation)
	return err
}

func restoreCommand(stdout, stderr io.Writer) *cli.Command {
	var options globalOptions

	return &cli.Command{
		Name:    "restore",
		Summary: "Put the original file back from its backup",
		Description: `Overwrite the file with its backup, the content it had before the
first edit. The backup is verified against its recorded digest first
and kept afterwards, so restore can be repeated.

The backup itself may be named instead of the file (cat.png.backup
restores cat.png) unless it has a backup of its own.`,
		Args: []string{"file"},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("restore", pflag.ContinueOnError)
			options.addFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			session, err := options.open(stderr, "restore")
			if err != nil {
				return err
			}
			target, err := session.stash.RestoreBackup(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(stdout, "restored %s from %s\n", target, session.backups.BackupPath(target))
			return err
		},
	}
}

func cleanupCommand(stdout, stderr io.Writer) *cli.Command {
	var options globalOptions

	return &cli.Command{
		Name:    "cleanup",
		Summary: "Delete the backup of a file",
		Description: `Delete the backup and its metadata, plus temporary files left by an
interrupted write. The file itself is not touched. Succeeds when there
is nothing to delete.`,
		Args: []string{"file"},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("cleanup", pflag.ContinueOnError)
			options.addFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			session, err := options.open(stderr, "cleanup")
			if err != nil {
				return err
			}
			return session.stash.CleanupBackup(args[0])
		},
	}
}
