// pkg/decompress/decompress.go
package decompress

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"


	"github.com/creativeyann17/go-datarchive/internal/format"
	"github.com/creativeyann17/go-datarchive/pkg/datarchive"
	"github.com/creativeyann17/go-datarchive/pkg/datutil"
)

// ProgressCallback is called for various progress events
type ProgressCallback func(event ProgressEvent)

// ProgressEvent contains progress information
type ProgressEvent struct {
	Type          EventType
	FilePath      string
	Current       int64
	Total         int64
	ExtractedSize uint64
}

// EventType indicates the type of progress event
type EventType int

const (
	EventStart EventType = iota
	EventFileStart
	EventFileProgress
	EventFileComplete
	EventComplete
	EventError
)

// Decompress extracts the entries of the archive at opts.InputPath into
// opts.OutputPath, in write order. Without a callback, progress bars are
// drawn to opts.ProgressWriter when it is set.
func Decompress(opts *Options, progressCb ProgressCallback) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if progressCb != nil || opts.ProgressWriter == nil || opts.Quiet {
		return unpack(opts, progressCb)
	}

	progressCb, progress := progressBarsTo(opts.ProgressWriter)
	result, err := unpack(opts, progressCb)
	if err != nil {
		progress.Shutdown()
	} else {
		progress.Wait()
	}
	return result, err
}

func unpack(opts *Options, progressCb ProgressCallback) (*Result, error) {
	if err := checkFormat(opts.InputPath); err != nil {
		return nil, err
	}

	logger := datutil.Logger(opts.Logger, opts.Verbose, opts.Quiet)

	reader, err := datarchive.OpenReader(opts.InputPath,
		datarchive.WithLogger(logger),
		datarchive.WithChunkSize(opts.ChunkSize),
	)
	if err != nil {
		if errors.Is(err, datarchive.ErrBadArchive) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArchive, err)
		}
		return nil, err
	}
	defer reader.Close()

	result := &Result{}
	entries := selectEntries(reader, opts.Names, result)
	result.FilesTotal = len(entries)

	if progressCb != nil {
		progressCb(ProgressEvent{
			Type:  EventStart,
			Total: int64(len(entries)),
		})
	}

	if err := os.MkdirAll(opts.OutputPath, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var extractOpts []datarchive.ExtractOption
	if opts.SkipCRC {
		extractOpts = append(extractOpts, datarchive.WithoutCRCValidation())
	}

	for _, entry := range entries {
		if progressCb != nil {
			progressCb(ProgressEvent{
				Type:     EventFileStart,
				FilePath: entry.Name,
				Total:    int64(entry.OriginalSize),
			})
		}

		written, err := extractEntry(reader, entry, opts, extractOpts, progressCb)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", entry.Name, err))
			if progressCb != nil {
				progressCb(ProgressEvent{
					Type:     EventError,
					FilePath: entry.Name,
				})
			}
			// After an I/O failure on the archive nothing else can be trusted
			if reader.IsBad() {
				break
			}
			continue
		}

		result.FilesProcessed++
		result.StoredSize += entry.SizeInArchive()
		result.ExtractedSize += written
		if progressCb != nil {
			progressCb(ProgressEvent{
				Type:          EventFileComplete,
				FilePath:      entry.Name,
				Current:       int64(entry.OriginalSize),
				Total:         int64(entry.OriginalSize),
				ExtractedSize: written,
			})
		}
	}

	if progressCb != nil {
		progressCb(ProgressEvent{
			Type:          EventComplete,
			Current:       int64(result.FilesProcessed),
			Total:         int64(result.FilesTotal),
			ExtractedSize: result.ExtractedSize,
		})
	}

	if reader.IsBad() {
		return result, fmt.Errorf("%w: extraction stopped", datarchive.ErrRead)
	}
	return result, nil
}

// checkFormat peeks at the leading bytes to give a precise error for
// foreign files and newer format versions
func checkFormat(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	magic := make([]byte, format.SignatureSize+1)
	if _, err := io.ReadFull(f, magic); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}

	switch format.DetectFormat(magic) {
	case format.FormatDatArchive01:
		return nil
	case format.FormatDatArchiveNewer:
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, magic[format.SignatureSize])
	default:
		return fmt.Errorf("%w: unknown signature % x", ErrInvalidArchive, magic[:format.SignatureSize])
	}
}

// selectEntries returns the entries to extract in write order. Requested
// names that are missing are recorded as errors.
func selectEntries(reader *datarchive.Reader, names []string, result *Result) []datarchive.TableEntry {
	if len(names) == 0 {
		entries := reader.Table()
		datarchive.SortByDataStart(entries)
		return entries
	}

	entries := make([]datarchive.TableEntry, 0, len(names))
	for _, name := range names {
		entry, ok := reader.Entry(name)
		if !ok {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", name, datarchive.ErrEntryNotFound))
			continue
		}
		entries = append(entries, entry)
	}
	datarchive.SortByDataStart(entries)
	return entries
}

// outputPath maps an entry name to a path under root, refusing names that
// are absolute or climb out of root
func outputPath(root, name string) (string, error) {
	local := filepath.FromSlash(name)
	if name == "" || !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return filepath.Join(root, local), nil
}

func extractEntry(
	reader *datarchive.Reader,
	entry datarchive.TableEntry,
	opts *Options,
	extractOpts []datarchive.ExtractOption,
	progressCb ProgressCallback,
) (uint64, error) {
	outPath, err := outputPath(opts.OutputPath, entry.Name)
	if err != nil {
		return 0, err
	}

	if !opts.Overwrite {
		if _, err := os.Stat(outPath); err == nil {
			return 0, ErrFileExists
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return 0, fmt.Errorf("create directories: %w", err)
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create output file: %w", err)
	}

	var written uint64
	proxy := &datutil.ProgressWriter{
		Writer: outFile,
		OnWrite: func(n int) {
			written += uint64(n)
			if progressCb != nil {
				progressCb(ProgressEvent{
					Type:     EventFileProgress,
					FilePath: entry.Name,
					Current:  int64(written),
					Total:    int64(entry.OriginalSize),
				})
			}
		},
	}

	_, err = reader.WriteFileTo(entry.Name, proxy, extractOpts...)
	if cerr := outFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// Do not leave partial or unverified content behind
		os.Remove(outPath)
		return 0, err
	}

	return written, nil
}
