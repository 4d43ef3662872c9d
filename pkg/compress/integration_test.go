// pkg/compress/integration_test.go
package compress_test

import (
	"bytes"
	"crypto/md5"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/creativeyann17/go-datarchive/pkg/compress"
	"github.com/creativeyann17/go-datarchive/pkg/datarchive"
	"github.com/creativeyann17/go-datarchive/pkg/decompress"
)

func writeTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for name, data := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", name, err)
		}
	}
}

func openArchive(t *testing.T, path string) *datarchive.Reader {
	t.Helper()
	r, err := datarchive.OpenReader(path)
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

// TestRoundTrip tests complete compress/decompress cycle
func TestRoundTrip(t *testing.T) {
	for _, method := range []string{"deflate", "none"} {
		t.Run(method, func(t *testing.T) {
			sourceDir := t.TempDir()
			archivePath := filepath.Join(t.TempDir(), "test.dat")
			destDir := t.TempDir()

			large := make([]byte, 1024*1024)
			for i := range large {
				large[i] = byte(i % 251)
			}
			testFiles := map[string][]byte{
				"small.txt":               []byte("small text file content\n"),
				"large.bin":               large,
				"empty.txt":               {},
				"subdir/file1.txt":        []byte("file in subdirectory\n"),
				"subdir/nested/file2.txt": []byte("file in nested subdirectory\n"),
			}
			writeTree(t, sourceDir, testFiles)

			checksums := make(map[string]string)
			for name, data := range testFiles {
				checksums[name] = fmt.Sprintf("%x", md5.Sum(data))
			}

			result, err := compress.Compress(&compress.Options{
				InputPath:  sourceDir,
				OutputPath: archivePath,
				Method:     method,
				ChunkSize:  64 * 1024,
				Quiet:      true,
			}, nil)
			if err != nil {
				t.Fatalf("Compression failed: %v", err)
			}
			if result.FilesProcessed != len(testFiles) || !result.Success() {
				t.Fatalf("Expected %d files packed, got %d (errors: %v)", len(testFiles), result.FilesProcessed, result.Errors)
			}
			if method == "none" && result.StoredSize != result.OriginalSize {
				t.Errorf("Stored entries must keep their size: %d vs %d", result.StoredSize, result.OriginalSize)
			}
			if method == "deflate" && result.StoredSize >= result.OriginalSize {
				t.Errorf("Deflate did not shrink repetitive data: %d vs %d", result.StoredSize, result.OriginalSize)
			}

			r := openArchive(t, archivePath)
			if !r.Contains("subdir/nested/file2.txt") {
				t.Errorf("Entry names must be slash-separated and relative, got %v", r.ListFiles())
			}

			dresult, err := decompress.Decompress(&decompress.Options{
				InputPath:  archivePath,
				OutputPath: destDir,
				Quiet:      true,
			}, nil)
			if err != nil {
				t.Fatalf("Decompression failed: %v", err)
			}
			if dresult.FilesProcessed != len(testFiles) || len(dresult.Errors) > 0 {
				t.Fatalf("Expected %d files extracted, got %d (errors: %v)", len(testFiles), dresult.FilesProcessed, dresult.Errors)
			}
			if dresult.ExtractedSize != result.OriginalSize {
				t.Errorf("Extracted %d bytes, packed %d", dresult.ExtractedSize, result.OriginalSize)
			}

			for name := range testFiles {
				data, err := os.ReadFile(filepath.Join(destDir, filepath.FromSlash(name)))
				if err != nil {
					t.Errorf("Extracted file %s not found: %v", name, err)
					continue
				}
				if got := fmt.Sprintf("%x", md5.Sum(data)); got != checksums[name] {
					t.Errorf("File %s checksum mismatch: %s vs %s", name, checksums[name], got)
				}
			}
		})
	}
}

// TestCompressEmptyDirectory tests compressing an empty directory
func TestCompressEmptyDirectory(t *testing.T) {
	_, err := compress.Compress(&compress.Options{
		InputPath:  t.TempDir(),
		OutputPath: filepath.Join(t.TempDir(), "empty.dat"),
		Quiet:      true,
	}, nil)
	if !errors.Is(err, compress.ErrNoFiles) {
		t.Errorf("Expected ErrNoFiles, got %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    compress.Options
		wantErr error
	}{
		{"no input", compress.Options{}, compress.ErrInputRequired},
		{"bad method", compress.Options{InputPath: ".", Method: "lzma"}, compress.ErrInvalidMethod},
		{"bad level", compress.Options{InputPath: ".", Level: 12}, compress.ErrInvalidLevel},
		{"append and overwrite", compress.Options{InputPath: ".", Append: true, Overwrite: true}, compress.ErrAppendOverwrite},
		{"defaults", compress.Options{InputPath: "."}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if err == nil && (tt.opts.OutputPath != "archive.dat" || tt.opts.Method != "deflate" || tt.opts.Level != 5) {
				t.Errorf("Defaults not applied: %+v", tt.opts)
			}
		})
	}
}

// TestCompressTwice tests that an existing archive is only replaced on request
func TestCompressTwice(t *testing.T) {
	sourceDir := t.TempDir()
	archivePath := filepath.Join(t.TempDir(), "test.dat")
	writeTree(t, sourceDir, map[string][]byte{"test.txt": []byte("test content")})

	opts := &compress.Options{
		InputPath:  sourceDir,
		OutputPath: archivePath,
		Quiet:      true,
	}
	if _, err := compress.Compress(opts, nil); err != nil {
		t.Fatalf("First compression failed: %v", err)
	}

	if _, err := compress.Compress(opts, nil); !errors.Is(err, datarchive.ErrDestinationExists) {
		t.Fatalf("Expected ErrDestinationExists on second run, got %v", err)
	}

	opts.Overwrite = true
	result, err := compress.Compress(opts, nil)
	if err != nil {
		t.Fatalf("Compression with overwrite failed: %v", err)
	}
	if result.FilesProcessed != 1 {
		t.Errorf("Expected 1 file compressed, got %d", result.FilesProcessed)
	}
}

func TestCompressAppend(t *testing.T) {
	firstDir := t.TempDir()
	secondDir := t.TempDir()
	archivePath := filepath.Join(t.TempDir(), "test.dat")

	writeTree(t, firstDir, map[string][]byte{
		"a.txt":     []byte("first a"),
		"dir/b.txt": []byte("first b"),
	})
	writeTree(t, secondDir, map[string][]byte{
		"a.txt":     []byte("second a"),
		"dir/c.txt": []byte("second c"),
	})

	// Appending to a missing archive creates it
	result, err := compress.Compress(&compress.Options{
		InputPath:  firstDir,
		OutputPath: archivePath,
		Append:     true,
		Quiet:      true,
	}, nil)
	if err != nil {
		t.Fatalf("Initial append failed: %v", err)
	}
	if result.Appended {
		t.Error("A new archive must not be reported as appended")
	}

	result, err = compress.Compress(&compress.Options{
		InputPath:  secondDir,
		OutputPath: archivePath,
		Append:     true,
		Method:     "none",
		Quiet:      true,
	}, nil)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if !result.Appended || result.FilesProcessed != 1 {
		t.Errorf("Expected 1 appended entry, got %d (appended=%v)", result.FilesProcessed, result.Appended)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "a.txt" {
		t.Errorf("Expected a.txt to be skipped, got %v", result.Skipped)
	}

	r := openArchive(t, archivePath)
	if r.Size() != 3 {
		t.Fatalf("Expected 3 entries, got %v", r.ListFiles())
	}
	data, err := r.GetFile("a.txt")
	if err != nil || string(data) != "first a" {
		t.Errorf("Existing entry must win: %q / %v", data, err)
	}
	entry, _ := r.Entry("dir/c.txt")
	if entry.CompressionMethod != datarchive.CompressionNone {
		t.Errorf("Expected stored entry, got %s", entry.CompressionMethod)
	}
}

func TestCompressFileList(t *testing.T) {
	base := t.TempDir()
	writeTree(t, base, map[string][]byte{
		"docs/readme.md":   []byte("readme"),
		"docs/sub/x.txt":   []byte("x"),
		"single.cfg":       []byte("cfg"),
		"other/single.cfg": []byte("clash"),
	})
	archivePath := filepath.Join(t.TempDir(), "list.dat")

	result, err := compress.Compress(&compress.Options{
		Files:      []string{filepath.Join(base, "docs"), filepath.Join(base, "single.cfg"), filepath.Join(base, "missing")},
		OutputPath: archivePath,
		Quiet:      true,
	}, nil)
	if err != nil {
		t.Fatalf("Compression failed: %v", err)
	}
	if result.FilesProcessed != 3 || len(result.Errors) != 1 {
		t.Errorf("Expected 3 files and 1 error, got %d / %v", result.FilesProcessed, result.Errors)
	}

	r := openArchive(t, archivePath)
	for _, name := range []string{"docs/readme.md", "docs/sub/x.txt", "single.cfg"} {
		if !r.Contains(name) {
			t.Errorf("Missing entry %s in %v", name, r.ListFiles())
		}
	}

	_, err = compress.Compress(&compress.Options{
		Files:      []string{filepath.Join(base, "single.cfg"), filepath.Join(base, "other", "single.cfg")},
		OutputPath: filepath.Join(t.TempDir(), "clash.dat"),
		Quiet:      true,
	}, nil)
	if !errors.Is(err, compress.ErrNameOverlap) {
		t.Errorf("Expected ErrNameOverlap, got %v", err)
	}
}

func TestCompressSkipsOwnOutput(t *testing.T) {
	sourceDir := t.TempDir()
	writeTree(t, sourceDir, map[string][]byte{"a.txt": []byte("a")})
	archivePath := filepath.Join(sourceDir, "self.dat")

	opts := &compress.Options{InputPath: sourceDir, OutputPath: archivePath, Quiet: true}
	if _, err := compress.Compress(opts, nil); err != nil {
		t.Fatalf("Compression failed: %v", err)
	}

	opts.Overwrite = true
	result, err := compress.Compress(opts, nil)
	if err != nil {
		t.Fatalf("Second compression failed: %v", err)
	}
	if result.FilesProcessed != 1 {
		t.Errorf("The archive must not pack itself, got %d files", result.FilesProcessed)
	}
}

func TestProgressEvents(t *testing.T) {
	sourceDir := t.TempDir()
	writeTree(t, sourceDir, map[string][]byte{
		"a.txt": []byte("aaaa"),
		"b.txt": []byte("bbbbbbbb"),
	})

	counts := make(map[compress.EventType]int)
	_, err := compress.Compress(&compress.Options{
		InputPath:  sourceDir,
		OutputPath: filepath.Join(t.TempDir(), "p.dat"),
		Quiet:      true,
	}, func(ev compress.ProgressEvent) {
		counts[ev.Type]++
		if ev.Type == compress.EventFileStart && ev.Total == 0 {
			t.Errorf("File start for %s has no size", ev.FilePath)
		}
	})
	if err != nil {
		t.Fatalf("Compression failed: %v", err)
	}

	if counts[compress.EventStart] != 1 || counts[compress.EventFileStart] != 2 ||
		counts[compress.EventFileComplete] != 2 || counts[compress.EventComplete] != 1 {
		t.Errorf("Unexpected event counts: %v", counts)
	}
}

func TestFormatSummary(t *testing.T) {
	summary := compress.FormatSummary(&compress.Result{
		FilesTotal:     2,
		FilesProcessed: 1,
		Skipped:        []string{"dup.txt"},
		OriginalSize:   2048,
		StoredSize:     1024,
		ArchiveSize:    1100,
		Appended:       true,
	})
	for _, want := range []string{"appended", "1 / 2", "dup.txt", "Archive size"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary missing %q:\n%s", want, summary)
		}
	}
}

func TestLoggingSwitches(t *testing.T) {
	sourceDir := t.TempDir()
	writeTree(t, sourceDir, map[string][]byte{"a.txt": []byte("aaaa")})

	tests := []struct {
		name           string
		verbose, quiet bool
		wantInfo       bool
		wantDebug      bool
	}{
		{"default", false, false, true, false},
		{"verbose", true, false, true, true},
		{"quiet", false, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			_, err := compress.Compress(&compress.Options{
				InputPath:  sourceDir,
				OutputPath: filepath.Join(t.TempDir(), "log.dat"),
				Verbose:    tt.verbose,
				Quiet:      tt.quiet,
				Logger:     &logger,
			}, func(compress.ProgressEvent) {})
			if err != nil {
				t.Fatalf("Compression failed: %v", err)
			}

			out := buf.String()
			if got := strings.Contains(out, "Archive written"); got != tt.wantInfo {
				t.Errorf("Info output present = %v, want %v:\n%s", got, tt.wantInfo, out)
			}
			if got := strings.Contains(out, "File queued"); got != tt.wantDebug {
				t.Errorf("Debug output present = %v, want %v:\n%s", got, tt.wantDebug, out)
			}
		})
	}
}

func TestProgressWriter(t *testing.T) {
	sourceDir := t.TempDir()
	writeTree(t, sourceDir, map[string][]byte{
		"a.txt": bytes.Repeat([]byte("a"), 4096),
		"b.txt": []byte("b"),
	})

	var bars bytes.Buffer
	result, err := compress.Compress(&compress.Options{
		InputPath:      sourceDir,
		OutputPath:     filepath.Join(t.TempDir(), "bars.dat"),
		ProgressWriter: &bars,
	}, nil)
	if err != nil {
		t.Fatalf("Compression failed: %v", err)
	}
	if result.FilesProcessed != 2 {
		t.Errorf("Expected 2 files packed, got %d", result.FilesProcessed)
	}
	if !strings.Contains(bars.String(), "Entries") {
		t.Errorf("Expected progress bars in the writer, got %q", bars.String())
	}

	// Quiet wins over the writer
	bars.Reset()
	_, err = compress.Compress(&compress.Options{
		InputPath:      sourceDir,
		OutputPath:     filepath.Join(t.TempDir(), "quiet.dat"),
		ProgressWriter: &bars,
		Quiet:          true,
	}, nil)
	if err != nil {
		t.Fatalf("Compression failed: %v", err)
	}
	if bars.Len() != 0 {
		t.Errorf("Quiet run drew progress: %q", bars.String())
	}
}
