// pkg/decompress/decompress_test.go
package decompress

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/creativeyann17/go-datarchive/pkg/datarchive"
)

// buildArchive writes one archive entry per name, with the name as content
func buildArchive(t *testing.T, names ...string) string {
	t.Helper()
	src := t.TempDir()
	archive := filepath.Join(t.TempDir(), "test.dat")

	w := datarchive.NewWriter()
	for i, name := range names {
		path := filepath.Join(src, string(rune('a'+i)))
		if err := os.WriteFile(path, []byte("content of "+name), 0644); err != nil {
			t.Fatal(err)
		}
		if err := w.QueueFile(path, datarchive.NewTableEntry(name, datarchive.CompressionDeflate, 0)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := w.WriteArchive(archive, false); err != nil {
		t.Fatal(err)
	}
	return archive
}

func TestDecompressNonExistentArchive(t *testing.T) {
	_, err := Decompress(&Options{
		InputPath:  "/nonexistent/archive.dat",
		OutputPath: t.TempDir(),
		Quiet:      true,
	}, nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestDecompressRejectsForeignFiles(t *testing.T) {
	dir := t.TempDir()

	foreign := filepath.Join(dir, "foreign.zip")
	if err := os.WriteFile(foreign, []byte("PK\x03\x04 not ours"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decompress(&Options{InputPath: foreign, OutputPath: dir}, nil); !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("Expected ErrInvalidArchive, got %v", err)
	}

	newer := filepath.Join(dir, "newer.dat")
	if err := os.WriteFile(newer, []byte{0xB1, 'D', 'A', 'T', 0x02, 13, 0, 0, 0, 0, 0, 0, 0}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decompress(&Options{InputPath: newer, OutputPath: dir}, nil); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Expected ErrUnsupportedVersion, got %v", err)
	}

	// Right signature, broken table offset
	broken := filepath.Join(dir, "broken.dat")
	if err := os.WriteFile(broken, []byte{0xB1, 'D', 'A', 'T', 0x01, 99, 0, 0, 0, 0, 0, 0, 0}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decompress(&Options{InputPath: broken, OutputPath: dir}, nil); !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("Expected ErrInvalidArchive, got %v", err)
	}
}

func TestDecompressTwice(t *testing.T) {
	archive := buildArchive(t, "file1.txt", "dir/file2.txt")
	destDir := t.TempDir()
	opts := &Options{InputPath: archive, OutputPath: destDir, Quiet: true}

	result, err := Decompress(opts, nil)
	if err != nil {
		t.Fatalf("First decompression failed: %v", err)
	}
	if result.FilesProcessed != 2 || !result.Success() {
		t.Fatalf("Expected 2 files, got %d (errors: %v)", result.FilesProcessed, result.Errors)
	}

	data, err := os.ReadFile(filepath.Join(destDir, "dir", "file2.txt"))
	if err != nil || string(data) != "content of dir/file2.txt" {
		t.Fatalf("Unexpected content %q / %v", data, err)
	}

	// Existing files are reported, not replaced
	result, err = Decompress(opts, nil)
	if err != nil {
		t.Fatalf("Second decompression returned a top-level error: %v", err)
	}
	if result.FilesProcessed != 0 || len(result.Errors) != 2 {
		t.Fatalf("Expected 2 errors and no files, got %d / %v", result.FilesProcessed, result.Errors)
	}
	for _, err := range result.Errors {
		if !errors.Is(err, ErrFileExists) {
			t.Errorf("Expected ErrFileExists, got %v", err)
		}
	}

	opts.Overwrite = true
	result, err = Decompress(opts, nil)
	if err != nil || !result.Success() {
		t.Fatalf("Decompression with overwrite failed: %v / %v", err, result.Errors)
	}
}

func TestDecompressSelectedNames(t *testing.T) {
	archive := buildArchive(t, "a.txt", "b.txt", "c.txt")
	destDir := t.TempDir()

	result, err := Decompress(&Options{
		InputPath:  archive,
		OutputPath: destDir,
		Names:      []string{"c.txt", "a.txt", "missing.txt"},
		Quiet:      true,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesTotal != 2 || result.FilesProcessed != 2 {
		t.Errorf("Expected 2 of 2 selected entries, got %d of %d", result.FilesProcessed, result.FilesTotal)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], datarchive.ErrEntryNotFound) {
		t.Errorf("Expected one ErrEntryNotFound, got %v", result.Errors)
	}
	if _, err := os.Stat(filepath.Join(destDir, "b.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Error("Unselected entry was extracted")
	}
}

func TestDecompressUnsafeNames(t *testing.T) {
	archive := buildArchive(t, "../escape.txt", "/abs.txt", "ok.txt")
	parent := t.TempDir()
	destDir := filepath.Join(parent, "out")

	result, err := Decompress(&Options{InputPath: archive, OutputPath: destDir, Quiet: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesProcessed != 1 || len(result.Errors) != 2 {
		t.Fatalf("Expected 1 file and 2 errors, got %d / %v", result.FilesProcessed, result.Errors)
	}
	for _, err := range result.Errors {
		if !errors.Is(err, ErrUnsafePath) {
			t.Errorf("Expected ErrUnsafePath, got %v", err)
		}
	}
	if _, err := os.Stat(filepath.Join(parent, "escape.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Error("Entry escaped the output directory")
	}
}

func TestDecompressChecksumFailure(t *testing.T) {
	src := t.TempDir()
	archive := filepath.Join(t.TempDir(), "stored.dat")
	path := filepath.Join(src, "s")
	if err := os.WriteFile(path, []byte("stored bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	w := datarchive.NewWriter()
	if err := w.QueueFile(path, datarchive.NewTableEntry("s.txt", datarchive.CompressionNone, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := w.WriteArchive(archive, false); err != nil {
		t.Fatal(err)
	}

	// Damage the first payload byte
	raw, _ := os.ReadFile(archive)
	raw[datarchive.HeaderSize] ^= 0xFF
	if err := os.WriteFile(archive, raw, 0644); err != nil {
		t.Fatal(err)
	}

	destDir := t.TempDir()
	result, err := Decompress(&Options{InputPath: archive, OutputPath: destDir, Quiet: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], datarchive.ErrChecksumMismatch) {
		t.Fatalf("Expected checksum mismatch, got %v", result.Errors)
	}
	if _, err := os.Stat(filepath.Join(destDir, "s.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Error("Unverified content must be removed")
	}

	result, err = Decompress(&Options{InputPath: archive, OutputPath: destDir, SkipCRC: true, Quiet: true}, nil)
	if err != nil || !result.Success() {
		t.Fatalf("Extraction without CRC failed: %v / %v", err, result.Errors)
	}
}

func TestProgressEvents(t *testing.T) {
	archive := buildArchive(t, "a", "b")

	var types []EventType
	_, err := Decompress(&Options{InputPath: archive, OutputPath: t.TempDir(), Quiet: true}, func(ev ProgressEvent) {
		if ev.Type != EventFileProgress {
			types = append(types, ev.Type)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []EventType{EventStart, EventFileStart, EventFileComplete, EventFileStart, EventFileComplete, EventComplete}
	if len(types) != len(want) {
		t.Fatalf("Expected events %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("Event %d: expected %d, got %d", i, want[i], types[i])
		}
	}
}

func TestProgressWriterAndLogging(t *testing.T) {
	archive := buildArchive(t, "one.txt", "two.txt")

	var bars, logs bytes.Buffer
	logger := zerolog.New(&logs)
	result, err := Decompress(&Options{
		InputPath:      archive,
		OutputPath:     t.TempDir(),
		ProgressWriter: &bars,
		Verbose:        true,
		Logger:         &logger,
	}, nil)
	if err != nil {
		t.Fatalf("Decompression failed: %v", err)
	}
	if result.FilesProcessed != 2 {
		t.Errorf("Expected 2 files extracted, got %d", result.FilesProcessed)
	}
	if !strings.Contains(bars.String(), "Entries") {
		t.Errorf("Expected progress bars in the writer, got %q", bars.String())
	}
	if !strings.Contains(logs.String(), "Archive opened") {
		t.Errorf("Verbose run did not log the archive open:\n%s", logs.String())
	}

	bars.Reset()
	logs.Reset()
	_, err = Decompress(&Options{
		InputPath:      archive,
		OutputPath:     t.TempDir(),
		ProgressWriter: &bars,
		Quiet:          true,
		Logger:         &logger,
	}, nil)
	if err != nil {
		t.Fatalf("Decompression failed: %v", err)
	}
	if bars.Len() != 0 || logs.Len() != 0 {
		t.Errorf("Quiet run produced output: bars %q, logs %q", bars.String(), logs.String())
	}
}
