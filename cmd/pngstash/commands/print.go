// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/pngchunk"
	"github.com/bureau-foundation/pngstash/lib/stash"
)

// printEntry is one row of the print output.
type printEntry struct {
	stash.ChunkInfo

	// Preview is the start of an ancillary chunk's payload, set only
	// with --preview.
	Preview string `json:"preview,omitempty"`
}

func printCommand(stdout, stderr io.Writer) *cli.Command {
	var options globalOptions
	var output cli.JSONOutput
	var preview int

	return &cli.Command{
		Name:    "print",
		Summary: "List the chunks of a PNG file",
		Description: `List every chunk in file order with its type, payload length, CRC,
and the properties encoded in the type's letter case.

With --preview N, ancillary chunk payloads are shown as quoted text
cut to N columns; binary payloads show their size instead.`,
		Args: []string{"file"},
		Examples: []cli.Example{
			{
				Description: "List chunks",
				Command:     "pngstash print cat.png",
			},
			{
				Description: "Machine-readable listing with previews",
				Command:     "pngstash print cat.png --json --preview 80",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("print", pflag.ContinueOnError)
			options.addFlags(flagSet)
			output.AddFlag(flagSet)
			flagSet.IntVar(&preview, "preview", 0, "show up to N columns of each ancillary payload")
			return flagSet
		},
		Run: func(args []string) error {
			if preview < 0 {
				return fmt.Errorf("--preview must not be negative, got %d", preview)
			}
			session, err := options.open(stderr, "print")
			if err != nil {
				return err
			}
			container, err := session.stash.Load(args[0])
			if err != nil {
				return err
			}

			entries := buildPrintEntries(container, preview)
			if done, err := output.EmitJSON(stdout, entries); done {
				return err
			}
			return writeChunkTable(stdout, args[0], entries, len(container.Serialize()), preview > 0)
		},
	}
}

func buildPrintEntries(container *pngchunk.Container, preview int) []printEntry {
	infos := stash.ListChunks(container)
	chunks := container.Chunks()
	entries := make([]printEntry, len(infos))
	for i, info := range infos {
		entries[i].ChunkInfo = info
		if preview > 0 && !info.Critical {
			entries[i].Preview = previewPayload(chunks[i].Data(), preview)
		}
	}
	return entries
}

// previewPayload quotes data cut to width display cells, or describes
// it when it is not text.
func previewPayload(data []byte, width int) string {
	if !utf8.Valid(data) {
		return fmt.Sprintf("<%s binary>", humanize.Bytes(uint64(len(data))))
	}
	return strconv.Quote(ansi.Truncate(string(data), width, "…"))
}

// chunkFlags renders the case-bit properties of a chunk.
func chunkFlags(info stash.ChunkInfo) string {
	flags := make([]string, 0, 3)
	if info.Critical {
		flags = append(flags, "critical")
	} else {
		flags = append(flags, "ancillary")
	}
	if info.Public {
		flags = append(flags, "public")
	} else {
		flags = append(flags, "private")
	}
	if info.SafeToCopy {
		flags = append(flags, "safe-to-copy")
	}
	return strings.Join(flags, ",")
}

func writeChunkTable(w io.Writer, path string, entries []printEntry, size int, withPreview bool) error {
	renderer := lipgloss.NewRenderer(w)
	heading := renderer.NewStyle().Bold(true)
	faint := renderer.NewStyle().Faint(true)

	noun := "chunks"
	if len(entries) == 1 {
		noun = "chunk"
	}
	summary := fmt.Sprintf("(%d %s, %s)", len(entries), noun, humanize.Bytes(uint64(size)))
	if _, err := fmt.Fprintf(w, "%s %s\n\n", heading.Render(path), faint.Render(summary)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	header := "INDEX\tTYPE\tLENGTH\tCRC\tFLAGS"
	if withPreview {
		header += "\tPREVIEW"
	}
	if _, err := fmt.Fprintln(tw, header); err != nil {
		return err
	}
	for _, entry := range entries {
		row := fmt.Sprintf("%d\t%s\t%d\t%08x\t%s", entry.Index, entry.Type, entry.Length, entry.CRC, chunkFlags(entry.ChunkInfo))
		if withPreview {
			row += "\t" + entry.Preview
		}
		if _, err := fmt.Fprintln(tw, row); err != nil {
			return err
		}
	}
	return tw.Flush()
}
