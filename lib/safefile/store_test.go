// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package safefile

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/pngstash/lib/clock"
	"github.com/bureau-foundation/pngstash/lib/compress"
	"github.com/bureau-foundation/pngstash/lib/pngchunk"
	"github.com/bureau-foundation/pngstash/lib/testutil"
)

var testEpoch = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, compression compress.Tag) (*Store, *clock.FakeClock) {
	t.Helper()
	fakeClock := clock.Fake(testEpoch)
	backups := NewFileBackupStore(BackupOptions{Compression: compression, Clock: fakeClock})
	return New(Config{Backups: backups}), fakeClock
}

func appendChunk(message string) Operation {
	return func(container *pngchunk.Container) (*pngchunk.Container, error) {
		container.InsertChunk(pngchunk.NewChunk(pngchunk.MustChunkType("ruSt"), []byte(message)))
		return container, nil
	}
}

func TestMutateBacksUpAndReplaces(t *testing.T) {
	store, _ := newTestStore(t, compress.None)
	original := testutil.MinimalPNG()
	path := testutil.WriteFile(t, "image.png", original)

	if err := store.Mutate(path, appendChunk("hello")); err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}

	testutil.RequireFileContent(t, path+DefaultSuffix, original)

	container, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	found := container.FindChunks(pngchunk.MustChunkType("ruSt"))
	if len(found) != 1 || string(found[0].Data()) != "hello" {
		t.Errorf("mutated file has %d ruSt chunks, want one holding %q", len(found), "hello")
	}
}

func TestRestoreIsExactAndRepeatable(t *testing.T) {
	for _, compression := range []compress.Tag{compress.None, compress.LZ4, compress.Zstd} {
		t.Run(compression.String(), func(t *testing.T) {
			store, _ := newTestStore(t, compression)
			// A large text trailer gives the compressors something to
			// work with.
			original := append(testutil.MinimalPNG(), bytes.Repeat([]byte("trailer "), 512)...)
			path := testutil.WriteFile(t, "image.png", original)

			for _, message := range []string{"one", "two", "three"} {
				if err := store.Mutate(path, appendChunk(message)); err != nil {
					t.Fatalf("Mutate(%q) failed: %v", message, err)
				}
			}

			for attempt := range 2 {
				if err := store.Restore(path); err != nil {
					t.Fatalf("Restore attempt %d failed: %v", attempt, err)
				}
				testutil.RequireFileContent(t, path, original)
			}
		})
	}
}

func TestBackupNotOverwrittenByLaterMutations(t *testing.T) {
	store, fakeClock := newTestStore(t, compress.None)
	original := testutil.MinimalPNG()
	path := testutil.WriteFile(t, "image.png", original)

	if err := store.Mutate(path, appendChunk("first")); err != nil {
		t.Fatalf("first Mutate failed: %v", err)
	}
	fakeClock.Advance(time.Hour)
	if err := store.Mutate(path, appendChunk("second")); err != nil {
		t.Fatalf("second Mutate failed: %v", err)
	}

	testutil.RequireFileContent(t, path+DefaultSuffix, original)

	status, err := store.Status(path)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !status.Backup.CreatedAt.Equal(testEpoch) {
		t.Errorf("backup CreatedAt = %v, want %v", status.Backup.CreatedAt, testEpoch)
	}
}

func TestFailedOperationLeavesFileUntouched(t *testing.T) {
	store, _ := newTestStore(t, compress.None)
	original := testutil.MinimalPNG()
	path := testutil.WriteFile(t, "image.png", original)

	operationError := errors.New("operation refused")
	err := store.Mutate(path, func(*pngchunk.Container) (*pngchunk.Container, error) {
		return nil, operationError
	})
	if !errors.Is(err, operationError) {
		t.Fatalf("Mutate error = %v, want %v", err, operationError)
	}

	testutil.RequireFileContent(t, path, original)
	testutil.RequireNotExist(t, path+DefaultSuffix)
	testutil.RequireNotExist(t, path+DefaultSuffix+metadataSuffix)
}

func TestMutateRejectsCorruptFile(t *testing.T) {
	store, _ := newTestStore(t, compress.None)
	corrupt := testutil.MinimalPNG()
	corrupt[len(corrupt)-1] ^= 0xff // IEND CRC
	path := testutil.WriteFile(t, "image.png", corrupt)

	err := store.Mutate(path, appendChunk("x"))
	if !errors.Is(err, pngchunk.ErrCRCMismatch) {
		t.Fatalf("Mutate error = %v, want ErrCRCMismatch", err)
	}
	testutil.RequireFileContent(t, path, corrupt)
	testutil.RequireNotExist(t, path+DefaultSuffix)
}

func TestMutateMissingFile(t *testing.T) {
	store, _ := newTestStore(t, compress.None)
	path := filepath.Join(t.TempDir(), "missing.png")

	err := store.Mutate(path, appendChunk("x"))
	var ioError *IOError
	if !errors.As(err, &ioError) {
		t.Fatalf("Mutate error = %v, want *IOError", err)
	}
	if ioError.Path != path || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("IOError = %+v, want path %s wrapping ErrNotExist", ioError, path)
	}
}

func TestMutateKeepsFileMode(t *testing.T) {
	store, _ := newTestStore(t, compress.None)
	path := testutil.WriteFile(t, "image.png", testutil.MinimalPNG())
	if err := os.Chmod(path, 0o640); err != nil {
		t.Fatalf("Chmod: %v", err)
	}

	if err := store.Mutate(path, appendChunk("x")); err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("mode after Mutate = %o, want 640", info.Mode().Perm())
	}
}

func TestRestoreWithoutBackup(t *testing.T) {
	store, _ := newTestStore(t, compress.None)
	path := testutil.WriteFile(t, "image.png", testutil.MinimalPNG())

	if err := store.Restore(path); !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("Restore error = %v, want ErrBackupNotFound", err)
	}
}

func TestRestoreRefusesCorruptBackup(t *testing.T) {
	store, _ := newTestStore(t, compress.None)
	path := testutil.WriteFile(t, "image.png", testutil.MinimalPNG())
	if err := store.Mutate(path, appendChunk("payload")); err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	mutated := testutil.ReadFile(t, path)

	backupPath := path + DefaultSuffix
	damaged := testutil.ReadFile(t, backupPath)
	damaged[20] ^= 0x01
	if err := os.WriteFile(backupPath, damaged, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := store.Restore(path); !errors.Is(err, ErrBackupCorrupt) {
		t.Fatalf("Restore error = %v, want ErrBackupCorrupt", err)
	}
	testutil.RequireFileContent(t, path, mutated)
}

// compressiblePNG returns a valid PNG large enough for zstd to shrink.
func compressiblePNG() []byte {
	return testutil.BuildPNG(
		testutil.RawChunk("IHDR", testutil.MinimalIHDR()),
		testutil.RawChunk("tEXt", bytes.Repeat([]byte("abcd"), 1024)),
		testutil.RawChunk("IDAT", testutil.MinimalIDAT()),
		testutil.RawChunk("IEND", nil),
	)
}

func TestRestoreRefusesCompressedBackupWithoutMetadata(t *testing.T) {
	store, _ := newTestStore(t, compress.Zstd)
	path := testutil.WriteFile(t, "image.png", compressiblePNG())
	if err := store.Mutate(path, appendChunk("payload")); err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	mutated := testutil.ReadFile(t, path)

	record, err := store.Backups().Lookup(path)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if record.Compression != compress.Zstd {
		t.Fatalf("Compression = %s, want zstd", record.Compression)
	}
	if err := os.Remove(path + DefaultSuffix + metadataSuffix); err != nil {
		t.Fatalf("removing metadata: %v", err)
	}

	if err := store.Restore(path); !errors.Is(err, ErrBackupCorrupt) {
		t.Fatalf("Restore error = %v, want ErrBackupCorrupt", err)
	}
	testutil.RequireFileContent(t, path, mutated)

	if _, err := store.Status(path); !errors.Is(err, ErrBackupCorrupt) {
		t.Errorf("Status error = %v, want ErrBackupCorrupt", err)
	}

	// A later edit must not replace the unreadable backup either.
	backupBefore := testutil.ReadFile(t, path+DefaultSuffix)
	if err := store.Mutate(path, appendChunk("more")); !errors.Is(err, ErrBackupCorrupt) {
		t.Errorf("Mutate error = %v, want ErrBackupCorrupt", err)
	}
	testutil.RequireFileContent(t, path, mutated)
	testutil.RequireFileContent(t, path+DefaultSuffix, backupBefore)
}

func TestRestoreUncompressedBackupWithoutMetadata(t *testing.T) {
	store, _ := newTestStore(t, compress.None)
	original := compressiblePNG()
	path := testutil.WriteFile(t, "image.png", original)
	if err := store.Mutate(path, appendChunk("payload")); err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	if err := os.Remove(path + DefaultSuffix + metadataSuffix); err != nil {
		t.Fatalf("removing metadata: %v", err)
	}

	if err := store.Restore(path); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	testutil.RequireFileContent(t, path, original)
}

func TestStatusTransitions(t *testing.T) {
	store, _ := newTestStore(t, compress.Zstd)
	original := testutil.MinimalPNG()
	path := testutil.WriteFile(t, "image.png", original)

	requireState := func(want State) Status {
		t.Helper()
		status, err := store.Status(path)
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if status.State != want {
			t.Fatalf("State = %s, want %s", status.State, want)
		}
		return status
	}

	if status := requireState(Clean); status.Backup != nil {
		t.Errorf("Clean status carries backup record %+v", status.Backup)
	}

	if err := store.Mutate(path, appendChunk("x")); err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	status := requireState(Modified)
	if status.Backup == nil {
		t.Fatal("Modified status has no backup record")
	}
	if status.Backup.Size != int64(len(original)) {
		t.Errorf("backup Size = %d, want %d", status.Backup.Size, len(original))
	}
	if status.Backup.BackupPath != path+DefaultSuffix || status.Backup.OriginalPath != path {
		t.Errorf("backup paths = %s, %s", status.Backup.OriginalPath, status.Backup.BackupPath)
	}

	if err := store.Restore(path); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	requireState(BackedUp)

	if err := store.Cleanup(path); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	requireState(Clean)
}

func TestCleanupIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t, compress.None)
	path := testutil.WriteFile(t, "image.png", testutil.MinimalPNG())
	if err := store.Mutate(path, appendChunk("x")); err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}

	for attempt := range 2 {
		if err := store.Cleanup(path); err != nil {
			t.Fatalf("Cleanup attempt %d failed: %v", attempt, err)
		}
	}
	testutil.RequireNotExist(t, path+DefaultSuffix)
	testutil.RequireNotExist(t, path+DefaultSuffix+metadataSuffix)

	if err := store.Restore(path); !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("Restore after Cleanup error = %v, want ErrBackupNotFound", err)
	}
}

func TestCleanupRemovesStaleTemporaryFiles(t *testing.T) {
	store, _ := newTestStore(t, compress.None)
	path := testutil.WriteFile(t, "image.png", testutil.MinimalPNG())
	directory := filepath.Dir(path)

	stale := []string{
		filepath.Join(directory, "image.png.123456.tmp"),
		filepath.Join(directory, "image.png.backup.77.tmp"),
		filepath.Join(directory, "image.png.backup.meta.88.tmp"),
	}
	kept := []string{
		filepath.Join(directory, "other.png.123456.tmp"),
		filepath.Join(directory, "image.png.draft.tmp"),
	}
	for _, name := range append(append([]string{}, stale...), kept...) {
		if err := os.WriteFile(name, []byte("partial"), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	if err := store.Cleanup(path); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	for _, name := range stale {
		testutil.RequireNotExist(t, name)
	}
	for _, name := range kept {
		testutil.RequireFileContent(t, name, []byte("partial"))
	}
}

func TestCleanupLeavesLongerSiblingTemporaries(t *testing.T) {
	store, _ := newTestStore(t, compress.None)
	path := testutil.WriteFile(t, "image", testutil.MinimalPNG())
	sibling := filepath.Join(filepath.Dir(path), "image.png.123456.tmp")
	if err := os.WriteFile(sibling, []byte("in flight"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := store.Cleanup(path); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	testutil.RequireFileContent(t, sibling, []byte("in flight"))
}

func TestCustomSuffix(t *testing.T) {
	backups := NewFileBackupStore(BackupOptions{Suffix: ".orig"})
	store := New(Config{Backups: backups})
	original := testutil.MinimalPNG()
	path := testutil.WriteFile(t, "image.png", original)

	if err := store.Mutate(path, appendChunk("x")); err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	testutil.RequireFileContent(t, path+".orig", original)
	testutil.RequireNotExist(t, path+DefaultSuffix)
}
