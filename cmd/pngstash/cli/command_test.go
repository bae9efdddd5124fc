// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "pngstash",
		Subcommands: []*Command{
			{
				Name: "encode",
				Run: func(args []string) error {
					called = "encode"
					return nil
				},
			},
			{
				Name: "decode",
				Run: func(args []string) error {
					called = "decode"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"decode"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "decode" {
		t.Errorf("dispatched to %q, want %q", called, "decode")
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var replace bool
	var positional []string

	command := &Command{
		Name: "encode",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("encode", pflag.ContinueOnError)
			flagSet.BoolVar(&replace, "replace", false, "replace existing chunks")
			return flagSet
		},
		Run: func(args []string) error {
			positional = args
			return nil
		},
	}

	if err := command.Execute([]string{"cat.png", "--replace", "ruSt", "hello"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !replace {
		t.Error("replace = false, want true")
	}
	if len(positional) != 3 || positional[0] != "cat.png" || positional[2] != "hello" {
		t.Errorf("args = %v, want [cat.png ruSt hello]", positional)
	}
}

func TestCommand_Execute_PositionalArguments(t *testing.T) {
	var called bool
	root := &Command{Name: "pngstash"}
	decode := &Command{
		Name: "decode",
		Args: []string{"file", "type"},
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("decode", pflag.ContinueOnError)
		},
		Run: func(args []string) error {
			called = true
			return nil
		},
	}
	root.Subcommands = []*Command{decode}

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"none", []string{"decode"}, "missing <file> argument"},
		{"one", []string{"decode", "cat.png"}, "missing <type> argument"},
		{"extra", []string{"decode", "cat.png", "ruSt", "more"}, `unexpected argument "more"`},
		{"exact", []string{"decode", "cat.png", "ruSt"}, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			called = false
			err := root.Execute(test.args)
			if test.wantErr == "" {
				if err != nil || !called {
					t.Errorf("Execute(%v) = %v, called = %v; want success", test.args, err, called)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Fatalf("Execute(%v) error = %v, want %q", test.args, err, test.wantErr)
			}
			if !strings.Contains(err.Error(), "usage: pngstash decode <file> <type> [flags]") {
				t.Errorf("error = %q, want usage line", err.Error())
			}
			if called {
				t.Error("Run was called despite the argument error")
			}
		})
	}
}

func TestCommand_Execute_NilArgsAcceptsAnything(t *testing.T) {
	var got []string
	command := &Command{
		Name: "echo",
		Run: func(args []string) error {
			got = args
			return nil
		},
	}
	if err := command.Execute([]string{"a", "b", "c"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("args = %v, want three", got)
	}

	command.Args = []string{}
	if err := command.Execute([]string{"a"}); err == nil || !strings.Contains(err.Error(), `unexpected argument "a"`) {
		t.Errorf("Execute() with empty Args = %v, want unexpected argument", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "encode",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("encode", pflag.ContinueOnError)
			flagSet.Bool("replace", false, "replace existing chunks")
			flagSet.String("config", "", "config file")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--replcae"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --replace") {
		t.Errorf("error = %q, want suggestion for '--replace'", errStr)
	}
	if !strings.Contains(errStr, "replcae") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "encode",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("encode", pflag.ContinueOnError)
			flagSet.Bool("replace", false, "replace existing chunks")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "pngstash",
		Subcommands: []*Command{
			{Name: "encode"},
			{Name: "decode"},
			{Name: "restore"},
		},
	}

	err := root.Execute([]string{"restroe"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), `did you mean "restore"`) {
		t.Errorf("error = %q, want suggestion for 'restore'", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			var help bytes.Buffer
			root := &Command{
				Name:       "pngstash",
				Summary:    "Hide messages in PNG files",
				HelpOutput: &help,
				Subcommands: []*Command{
					{Name: "encode", Summary: "Hide a message"},
				},
			}

			if err := root.Execute([]string{helpArg}); err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
			if !strings.Contains(help.String(), "Hide a message") {
				t.Errorf("help output = %q, want subcommand listing", help.String())
			}
		})
	}
}

func TestCommand_Execute_SubcommandInheritsHelpOutput(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:       "pngstash",
		HelpOutput: &help,
		Subcommands: []*Command{
			{Name: "print", Summary: "List chunks", Run: func([]string) error { return nil }},
		},
	}

	if err := root.Execute([]string{"print", "--help"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(help.String(), "pngstash print") {
		t.Errorf("help output = %q, want full command name", help.String())
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name:       "pngstash",
		HelpOutput: &bytes.Buffer{},
		Subcommands: []*Command{
			{Name: "encode", Summary: "Hide a message"},
		},
	}

	err := root.Execute([]string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "pngstash",
		Description: "Hide text messages in PNG chunks.",
		Subcommands: []*Command{
			{Name: "encode", Summary: "Hide a message in a chunk"},
			{Name: "decode", Summary: "Print a hidden message"},
		},
		Examples: []Example{
			{
				Description: "Hide a message",
				Command:     "pngstash encode cat.png ruSt 'meet at noon'",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Hide text messages in PNG chunks.",
		"Usage:",
		"pngstash <command> [flags]",
		"Commands:",
		"encode",
		"Hide a message in a chunk",
		"Examples:",
		"pngstash encode cat.png ruSt",
		"Run 'pngstash <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithFlags(t *testing.T) {
	root := &Command{Name: "pngstash"}
	command := &Command{
		Name:    "print",
		Summary: "List chunks",
		Args:    []string{"file"},
		parent:  root,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("print", pflag.ContinueOnError)
			flagSet.Int("preview", 0, "show payload previews")
			flagSet.Bool("json", false, "output as JSON")
			return flagSet
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{"pngstash print <file> [flags]", "Flags:", "preview", "json"} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "pngstash"}
	status := &Command{Name: "status", parent: root}

	if got := root.fullName(); got != "pngstash" {
		t.Errorf("root.fullName() = %q, want %q", got, "pngstash")
	}
	if got := status.fullName(); got != "pngstash status" {
		t.Errorf("status.fullName() = %q, want %q", got, "pngstash status")
	}
}

func TestExitError(t *testing.T) {
	var err error = &ExitError{Code: 3}
	coder, ok := err.(interface{ ExitCode() int })
	if !ok || coder.ExitCode() != 3 {
		t.Errorf("ExitError does not report exit code 3")
	}
	if err.Error() != "exit code 3" {
		t.Errorf("Error() = %q, want %q", err.Error(), "exit code 3")
	}
}
