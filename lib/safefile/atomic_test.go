// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package safefile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bureau-foundation/pngstash/lib/testutil"
)

func TestWriteAtomicCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.png")

	if err := writeAtomic(path, []byte("content"), 0o640); err != nil {
		t.Fatalf("writeAtomic failed: %v", err)
	}
	testutil.RequireFileContent(t, path, []byte("content"))

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("mode = %o, want 640", info.Mode().Perm())
	}
}

func TestWriteAtomicKeepsExistingMode(t *testing.T) {
	path := testutil.WriteFile(t, "cat.png", []byte("old"))
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatalf("Chmod: %v", err)
	}

	if err := writeAtomic(path, []byte("new"), defaultFileMode); err != nil {
		t.Fatalf("writeAtomic failed: %v", err)
	}
	testutil.RequireFileContent(t, path, []byte("new"))

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %o, want 600", info.Mode().Perm())
	}
}

func TestWriteAtomicLeavesNoTemporaryFiles(t *testing.T) {
	path := testutil.WriteFile(t, "cat.png", []byte("old"))

	if err := writeAtomic(path, []byte("new"), defaultFileMode); err != nil {
		t.Fatalf("writeAtomic failed: %v", err)
	}
	stale, err := staleTemporaryFiles(path)
	if err != nil {
		t.Fatalf("staleTemporaryFiles failed: %v", err)
	}
	if len(stale) != 0 {
		t.Errorf("temporary files left behind: %v", stale)
	}
}

func TestWriteAtomicMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "cat.png")
	if err := writeAtomic(path, []byte("x"), defaultFileMode); err == nil {
		t.Error("writeAtomic into a missing directory succeeded")
	}
}

func TestStaleTemporaryFiles(t *testing.T) {
	path := testutil.WriteFile(t, "cat.png", []byte("image"))
	directory := filepath.Dir(path)

	for _, name := range []string{
		"cat.png.123456.tmp",
		"cat.png.4294967295.tmp",
		"cat.png.draft.tmp",
		"cat.png.12ab.tmp",
		"cat.png..tmp",
		"cat.png.-1.tmp",
		"cat.png.backup.98765.tmp",
		"dog.png.123456.tmp",
		"cat.png.backup",
		"cat.pngx.1.tmp",
	} {
		if err := os.WriteFile(filepath.Join(directory, name), nil, 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	stale, err := staleTemporaryFiles(path)
	if err != nil {
		t.Fatalf("staleTemporaryFiles failed: %v", err)
	}
	var names []string
	for _, stalePath := range stale {
		names = append(names, filepath.Base(stalePath))
	}
	slices.Sort(names)
	want := []string{"cat.png.123456.tmp", "cat.png.4294967295.tmp"}
	if !slices.Equal(names, want) {
		t.Errorf("stale = %v, want %v", names, want)
	}
}

func TestStaleTemporaryFilesIgnoresLongerSibling(t *testing.T) {
	// The target "cat" must not claim the temporaries of "cat.png".
	path := testutil.WriteFile(t, "cat", []byte("image"))
	sibling := filepath.Join(filepath.Dir(path), "cat.png.123456.tmp")
	if err := os.WriteFile(sibling, nil, 0o644); err != nil {
		t.Fatalf("writing %s: %v", sibling, err)
	}

	stale, err := staleTemporaryFiles(path)
	if err != nil {
		t.Fatalf("staleTemporaryFiles failed: %v", err)
	}
	if len(stale) != 0 {
		t.Errorf("stale = %v, want none", stale)
	}
}

func TestIsTemporaryName(t *testing.T) {
	tests := []struct {
		name string
		base string
		want bool
	}{
		{"image.png.1.tmp", "image.png", true},
		{"image.png.0042.tmp", "image.png", true},
		{"image.png.draft.tmp", "image.png", false},
		{"image.png.1.tmp", "image", false},
		{"image.png.99999999999.tmp", "image.png", false},
		{"image.png.1.temp", "image.png", false},
		{"image.png.tmp", "image.png", false},
	}
	for _, test := range tests {
		if got := isTemporaryName(test.name, test.base); got != test.want {
			t.Errorf("isTemporaryName(%q, %q) = %v, want %v", test.name, test.base, got, test.want)
		}
	}
}
