// pkg/compress/compress.go
package compress

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/creativeyann17/go-datarchive/pkg/datarchive"
	"github.com/creativeyann17/go-datarchive/pkg/datutil"
)

type fileTask struct {
	AbsPath  string
	Name     string
	OrigSize uint64
}

// ProgressCallback is called for various progress events
type ProgressCallback func(event ProgressEvent)

// ProgressEvent contains progress information
type ProgressEvent struct {
	Type       EventType
	FilePath   string
	Current    int64
	Total      int64
	StoredSize uint64
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

// Compress packs the files selected by opts into a container, creating it or,
// with opts.Append, extending an existing one. Without a callback, progress
// bars are drawn to opts.ProgressWriter when it is set.
func Compress(opts *Options, progressCb ProgressCallback) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if progressCb != nil || opts.ProgressWriter == nil || opts.Quiet {
		return pack(opts, progressCb)
	}

	progressCb, progress := progressBarsTo(opts.ProgressWriter)
	result, err := pack(opts, progressCb)
	if err != nil {
		progress.Shutdown()
	} else {
		progress.Wait()
	}
	return result, err
}

func pack(opts *Options, progressCb ProgressCallback) (*Result, error) {
	result := &Result{}

	tasks, err := collectFiles(opts, result)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNoFiles
	}
	result.FilesTotal = len(tasks)

	logger := datutil.Logger(opts.Logger, opts.Verbose, opts.Quiet)

	// Source path -> size, for progress totals
	sizes := make(map[string]uint64, len(tasks))
	for _, t := range tasks {
		sizes[t.AbsPath] = t.OrigSize
	}

	emit := func(ev ProgressEvent) {
		if progressCb != nil {
			progressCb(ev)
		}
	}

	writer := datarchive.NewWriter(
		datarchive.WithLogger(logger),
		datarchive.WithCompressionLevel(opts.Level),
		datarchive.WithChunkSize(opts.ChunkSize),
		datarchive.WithEntryCallback(func(ev datarchive.EntryEvent) {
			switch ev.Type {
			case datarchive.EventEntryStart:
				emit(ProgressEvent{Type: EventFileStart, FilePath: ev.Entry.Name, Total: int64(sizes[ev.Path])})
			case datarchive.EventEntryProgress:
				emit(ProgressEvent{Type: EventFileProgress, FilePath: ev.Entry.Name, Current: int64(ev.Current), Total: int64(ev.Total)})
			case datarchive.EventEntryDone:
				emit(ProgressEvent{
					Type:       EventFileComplete,
					FilePath:   ev.Entry.Name,
					Current:    int64(ev.Entry.OriginalSize),
					Total:      int64(ev.Entry.OriginalSize),
					StoredSize: ev.Entry.SizeInArchive(),
				})
			case datarchive.EventEntryError, datarchive.EventEntrySkipped:
				emit(ProgressEvent{Type: EventError, FilePath: ev.Entry.Name})
			}
		}),
	)

	for _, t := range tasks {
		if err := writer.QueueFile(t.AbsPath, datarchive.NewTableEntry(t.Name, opts.method, 0)); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", t.Name, err))
		}
	}

	emit(ProgressEvent{Type: EventStart, Total: int64(writer.Len())})

	var wr *datarchive.WriteResult
	if opts.Append {
		wr, err = writer.AppendArchive(opts.OutputPath)
		if errors.Is(err, datarchive.ErrArchiveNotFound) {
			wr, err = writer.WriteArchive(opts.OutputPath, false)
		} else {
			result.Appended = true
		}
	} else {
		wr, err = writer.WriteArchive(opts.OutputPath, opts.Overwrite)
	}
	if err != nil {
		return nil, err
	}

	result.FilesProcessed = len(wr.Entries)
	result.OriginalSize = wr.OriginalSize()
	result.StoredSize = wr.StoredSize()
	result.ArchiveSize = wr.ArchiveSize
	for _, e := range wr.Skipped {
		result.Skipped = append(result.Skipped, e.Name)
	}
	result.Errors = append(result.Errors, wr.Errors...)

	emit(ProgressEvent{Type: EventComplete, Current: int64(result.FilesProcessed), Total: int64(result.FilesTotal)})

	return result, nil
}

// collectFiles gathers the files to pack, in walk order, from either the
// Files list or InputPath. Names are slash-separated and relative to the input.
func collectFiles(opts *Options, result *Result) ([]fileTask, error) {
	var tasks []fileTask
	names := datutil.NewNameTracker()

	outputAbs, _ := filepath.Abs(opts.OutputPath)

	addFile := func(absPath, relPath string, info fs.FileInfo, source string) error {
		if abs, err := filepath.Abs(absPath); err == nil && abs == outputAbs {
			return nil
		}
		name := datutil.EntryName(relPath)
		if owner, ok := names.Claim(name, source); !ok {
			return fmt.Errorf("%w: %q from %q conflicts with %q", ErrNameOverlap, name, source, owner)
		}
		tasks = append(tasks, fileTask{
			AbsPath:  absPath,
			Name:     name,
			OrigSize: uint64(info.Size()),
		})
		return nil
	}

	walk := func(root, prefix, source string) error {
		filter, err := newPathFilter(root, opts.UseGitignore, opts.Exclude)
		if err != nil {
			return err
		}

		return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", path, err))
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = filepath.Base(path)
			}

			if d.IsDir() {
				if rel != "." && filter.ExcludedDir(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || filter.Excluded(rel) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", path, err))
				return nil
			}
			return addFile(path, filepath.Join(prefix, rel), info, source)
		})
	}

	if len(opts.Files) > 0 {
		// Custom file list mode: directories keep their base name
		for _, inputPath := range opts.Files {
			cleanPath := filepath.Clean(inputPath)
			info, err := os.Stat(cleanPath)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", inputPath, err))
				continue
			}

			switch {
			case info.IsDir():
				if err := walk(cleanPath, filepath.Base(cleanPath), inputPath); err != nil {
					return nil, err
				}
			case info.Mode().IsRegular():
				if err := addFile(cleanPath, filepath.Base(cleanPath), info, inputPath); err != nil {
					return nil, err
				}
			}
		}
		return tasks, nil
	}

	info, err := os.Stat(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		if err := addFile(opts.InputPath, filepath.Base(opts.InputPath), info, opts.InputPath); err != nil {
			return nil, err
		}
		return tasks, nil
	}

	if err := walk(opts.InputPath, "", opts.InputPath); err != nil {
		return nil, fmt.Errorf("directory walk failed: %w", err)
	}
	return tasks, nil
}
