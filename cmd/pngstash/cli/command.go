// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the command tree: either a group that routes
// to Subcommands or a leaf with a Run function.
type Command struct {
	// Name is the word typed to select the command (e.g. "encode").
	Name string

	// Summary is the one-line description in the parent's listing.
	Summary string

	// Description is the longer text at the top of the command's help.
	// Summary is shown instead when it is empty.
	Description string

	// Args names the positional arguments a leaf requires, in order.
	// Execute rejects any other count before Run is called, and the
	// usage line is built from them.
	Args []string

	// Examples are listed at the end of the help output.
	Examples []Example

	// Flags builds the command's flag set. It may be called more than
	// once per invocation (parsing, suggestions, help), so it must bind
	// the same variables every time. Nil means no flags.
	Flags func() *pflag.FlagSet

	// Subcommands are selected by the first positional argument.
	Subcommands []*Command

	// Run receives the positional arguments left after flag parsing.
	Run func(args []string) error

	// HelpOutput receives help text. Inherited from the parent when nil;
	// os.Stderr at the root.
	HelpOutput io.Writer

	// parent is set during dispatch so help can print the full path.
	parent *Command
}

// Example is one annotated command line in help output.
type Example struct {
	Description string
	Command     string
}

// Execute runs the command tree against args (normally os.Args[1:]).
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.helpOutput())
		return nil
	}

	if len(c.Subcommands) > 0 {
		if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
			return c.dispatch(args[0], args[1:])
		}
		if c.Run == nil {
			c.PrintHelp(c.helpOutput())
			if len(args) == 0 {
				return fmt.Errorf("subcommand required")
			}
			return fmt.Errorf("subcommand required (got flag %q)", args[0])
		}
	}

	positional, err := c.parseFlags(args)
	if err != nil {
		return err
	}
	if c.Run == nil {
		c.PrintHelp(c.helpOutput())
		return fmt.Errorf("no action defined for %q", c.fullName())
	}
	if err := c.checkArgs(positional); err != nil {
		return err
	}
	return c.Run(positional)
}

// dispatch routes to the subcommand called name, or reports the
// closest match.
func (c *Command) dispatch(name string, rest []string) error {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			sub.parent = c
			return sub.Execute(rest)
		}
	}
	if suggestion := suggestCommand(name, c.Subcommands); suggestion != "" {
		return fmt.Errorf("unknown command %q (did you mean %q?)%s", name, suggestion, c.helpHint())
	}
	return fmt.Errorf("unknown command %q%s", name, c.helpHint())
}

// parseFlags parses args against the command's flag set and returns
// the positional arguments. Unknown flags get a suggestion.
func (c *Command) parseFlags(args []string) ([]string, error) {
	if c.Flags == nil {
		return args, nil
	}
	flagSet := c.Flags()
	flagSet.SetOutput(io.Discard)
	if err := flagSet.Parse(args); err != nil {
		message := err.Error()
		if strings.Contains(message, "unknown flag") || strings.Contains(message, "unknown shorthand flag") {
			// The failed parse may have left state behind, so suggest
			// from a fresh set.
			if suggestion := suggestFlag(args, c.Flags()); suggestion != "" {
				message += fmt.Sprintf(" (did you mean %s?)", suggestion)
			}
		}
		return nil, fmt.Errorf("%s%s", message, c.helpHint())
	}
	return flagSet.Args(), nil
}

// checkArgs enforces Args. Commands that leave Args nil accept any
// positional arguments.
func (c *Command) checkArgs(args []string) error {
	if c.Args == nil || len(args) == len(c.Args) {
		return nil
	}
	if len(args) < len(c.Args) {
		return fmt.Errorf("missing <%s> argument (usage: %s)", c.Args[len(args)], c.usage())
	}
	return fmt.Errorf("unexpected argument %q (usage: %s)", args[len(c.Args)], c.usage())
}

// usage is the synopsis line: the full command path, then a
// subcommand placeholder or the positional arguments, then [flags].
func (c *Command) usage() string {
	parts := []string{c.fullName()}
	if len(c.Subcommands) > 0 {
		parts = append(parts, "<command>")
	}
	for _, name := range c.Args {
		parts = append(parts, "<"+name+">")
	}
	return strings.Join(append(parts, "[flags]"), " ")
}

func (c *Command) helpHint() string {
	return fmt.Sprintf("\n\nRun '%s --help' for usage.", c.fullName())
}

// PrintHelp writes the command's help to w.
func (c *Command) PrintHelp(w io.Writer) {
	if text := c.Description; text != "" {
		fmt.Fprintf(w, "%s\n\n", text)
	} else if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", c.usage())

	if len(c.Subcommands) > 0 {
		fmt.Fprint(w, "\nCommands:\n")
		tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(tw, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		tw.Flush()
	}

	if c.Flags != nil {
		var defaults strings.Builder
		flagSet := c.Flags()
		flagSet.SetOutput(&defaults)
		flagSet.PrintDefaults()
		if defaults.Len() > 0 {
			fmt.Fprintf(w, "\nFlags:\n%s", defaults.String())
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprint(w, "\nExamples:\n")
		for _, example := range c.Examples {
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n  %s\n\n", example.Description, example.Command)
			} else {
				fmt.Fprintf(w, "  %s\n", example.Command)
			}
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", c.fullName())
	}
}

// fullName is the command path from the root (e.g. "pngstash encode").
func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func (c *Command) helpOutput() io.Writer {
	for command := c; command != nil; command = command.parent {
		if command.HelpOutput != nil {
			return command.HelpOutput
		}
	}
	return os.Stderr
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
