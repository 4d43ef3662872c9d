// pkg/datarchive/writer.go
package datarchive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"

	"github.com/creativeyann17/go-datarchive/internal/format"
)

// EntryEventType identifies a Writer progress event.
type EntryEventType int

const (
	EventEntryStart EntryEventType = iota
	EventEntryProgress
	EventEntryDone
	EventEntrySkipped
	EventEntryError
)

// EntryEvent is passed to the callback registered with WithEntryCallback.
type EntryEvent struct {
	Type EntryEventType
	Path string
	// Entry is final (offsets, CRC, sizes set) only for EventEntryDone.
	Entry TableEntry
	// Current and Total are source bytes read so far and the source size.
	Current uint64
	Total   uint64
	Err     error
}

// EntryCallback receives Writer progress events.
type EntryCallback func(EntryEvent)

// QueuedFile is a staged (source path, entry) pair.
type QueuedFile struct {
	Path  string
	Entry TableEntry
}

// WriteResult summarises a WriteArchive or AppendArchive call.
type WriteResult struct {
	// Entries written by this call, in write order.
	Entries []TableEntry
	// Skipped holds queued entries dropped because the container already had the name.
	Skipped []TableEntry
	// Errors holds per-source failures. Those sources were left out of the table.
	Errors []error
	// TableOffset is the final table position.
	TableOffset uint64
	// ArchiveSize is the container size after the call.
	ArchiveSize uint64
}

// OriginalSize returns the total source bytes of the written entries.
func (r *WriteResult) OriginalSize() uint64 {
	var total uint64
	for _, e := range r.Entries {
		total += e.OriginalSize
	}
	return total
}

// StoredSize returns the total payload bytes of the written entries.
func (r *WriteResult) StoredSize() uint64 {
	var total uint64
	for _, e := range r.Entries {
		total += e.SizeInArchive()
	}
	return total
}

// Success returns true if every queued source made it into the table.
func (r *WriteResult) Success() bool {
	return len(r.Errors) == 0 && len(r.Skipped) == 0
}

// Writer stages files and writes them to a container in queue order.
type Writer struct {
	queue  []QueuedFile
	paths  map[string]struct{}
	names  map[string]string
	cfg    config
	logger zerolog.Logger
}

func NewWriter(opts ...Option) *Writer {
	cfg := newConfig(opts)
	return &Writer{
		paths:  make(map[string]struct{}),
		names:  make(map[string]string),
		cfg:    cfg,
		logger: cfg.logger,
	}
}

// QueueFile stages the file at path to be stored as entry. Only Name,
// CompressionMethod and Flags of entry are used; the rest is filled in when
// the file is written.
func (w *Writer) QueueFile(path string, entry TableEntry) error {
	path = filepath.Clean(path)

	if _, queued := w.paths[path]; queued {
		return fmt.Errorf("%w: %s", ErrAlreadyQueued, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	if len(entry.Name) > MaxNameLength {
		return fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(entry.Name))
	}
	if err := entry.CompressionMethod.Valid(); err != nil {
		return fmt.Errorf("%s: %w", entry.Name, err)
	}
	if other, taken := w.names[entry.Name]; taken {
		return fmt.Errorf("%w: %q (from %s)", ErrDuplicateName, entry.Name, other)
	}

	w.queue = append(w.queue, QueuedFile{
		Path:  path,
		Entry: NewTableEntry(entry.Name, entry.CompressionMethod, entry.Flags),
	})
	w.paths[path] = struct{}{}
	w.names[entry.Name] = path

	w.logger.Debug().Str("path", path).Str("name", entry.Name).Stringer("method", entry.CompressionMethod).Msg("File queued")
	return nil
}

// RemoveFile unstages path. It reports whether path was queued.
func (w *Writer) RemoveFile(path string) bool {
	path = filepath.Clean(path)
	if _, queued := w.paths[path]; !queued {
		return false
	}

	i := slices.IndexFunc(w.queue, func(q QueuedFile) bool { return q.Path == path })
	w.dequeue(i)
	return true
}

func (w *Writer) dequeue(i int) {
	q := w.queue[i]
	delete(w.paths, q.Path)
	delete(w.names, q.Entry.Name)
	w.queue = slices.Delete(w.queue, i, i+1)
}

// Clear empties the queue.
func (w *Writer) Clear() {
	w.queue = nil
	clear(w.paths)
	clear(w.names)
}

// Len returns the number of queued files.
func (w *Writer) Len() int {
	return len(w.queue)
}

// Queued returns a copy of the queue in write order.
func (w *Writer) Queued() []QueuedFile {
	return slices.Clone(w.queue)
}

// WriteArchive writes every queued file to a new container at destination.
// An existing destination is replaced only when overwrite is true. Sources
// that cannot be read are left out and reported in WriteResult.Errors; a
// failure writing the container itself aborts with an error. The queue is
// left intact.
func (w *Writer) WriteArchive(destination string, overwrite bool) (*WriteResult, error) {
	if _, err := os.Stat(destination); err == nil {
		if !overwrite {
			return nil, fmt.Errorf("%w: %s", ErrDestinationExists, destination)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat destination: %w", err)
	}

	if dir := filepath.Dir(destination); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(destination, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	if err := format.WriteHeader(f); err != nil {
		return nil, err
	}

	result := &WriteResult{}
	written, end, err := w.writeFiles(f, HeaderSize, result)
	if err != nil {
		return result, err
	}
	result.Entries = written

	if err := w.writeTable(f, end, nil, written, result); err != nil {
		return result, err
	}

	w.logger.Info().
		Str("path", destination).
		Int("entries", len(written)).
		Int("errors", len(result.Errors)).
		Uint64("size", result.ArchiveSize).
		Msg("Archive written")

	return result, f.Close()
}

// writeFiles writes every queued payload starting at start and returns the
// entries written and the end of the payload region.
func (w *Writer) writeFiles(f *os.File, start uint64, result *WriteResult) ([]TableEntry, uint64, error) {
	if _, err := f.Seek(int64(start), io.SeekStart); err != nil {
		return nil, start, &containerError{err: err}
	}

	pos := start
	written := make([]TableEntry, 0, len(w.queue))

	for _, q := range w.queue {
		entry := q.Entry
		entry.DataStart = pos

		w.notify(EntryEvent{Type: EventEntryStart, Path: q.Path, Entry: entry})

		n, err := w.writeEntry(f, q.Path, &entry)
		if err != nil {
			var cerr *containerError
			var ierr *InternalError
			if errors.As(err, &cerr) || errors.As(err, &ierr) {
				w.notify(EntryEvent{Type: EventEntryError, Path: q.Path, Entry: entry, Err: err})
				return written, pos, fmt.Errorf("%s: %w", entry.Name, err)
			}

			w.logger.Warn().Err(err).Str("path", q.Path).Str("name", entry.Name).Msg("Source skipped")
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", q.Path, err))
			w.notify(EntryEvent{Type: EventEntryError, Path: q.Path, Entry: entry, Err: err})

			// Rewind over the partial payload; the next entry overwrites it
			if _, err := f.Seek(int64(pos), io.SeekStart); err != nil {
				return written, pos, &containerError{err: err}
			}
			continue
		}

		entry.DataEnd = pos + n
		cur, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return written, pos, &containerError{err: err}
		}
		if uint64(cur) != entry.DataEnd {
			return written, pos, &InternalError{
				Op:  "write",
				Msg: fmt.Sprintf("%s: container at %d after writing %d bytes from %d", entry.Name, cur, n, pos),
			}
		}

		pos = entry.DataEnd
		written = append(written, entry)

		w.logger.Debug().
			Str("name", entry.Name).
			Uint64("original", entry.OriginalSize).
			Uint64("stored", entry.SizeInArchive()).
			Msg("Entry written")
		w.notify(EntryEvent{Type: EventEntryDone, Path: q.Path, Entry: entry, Current: entry.OriginalSize, Total: entry.OriginalSize})
	}

	return written, pos, nil
}

// writeTable points the header at tableOffset, writes the records of old then
// added there, and cuts anything left past the new end of the container.
func (w *Writer) writeTable(f *os.File, tableOffset uint64, old, added []TableEntry, result *WriteResult) error {
	if err := format.PatchTableOffset(f, tableOffset); err != nil {
		return &containerError{err: err}
	}
	if _, err := f.Seek(int64(tableOffset), io.SeekStart); err != nil {
		return &containerError{err: err}
	}

	var buf bytes.Buffer
	if err := format.WriteTable(&buf, append(slices.Clone(old), added...)); err != nil {
		return err
	}
	n, err := buf.WriteTo(f)
	if err != nil {
		return &containerError{err: err}
	}

	end := tableOffset + uint64(n)
	if err := f.Truncate(int64(end)); err != nil {
		return &containerError{err: err}
	}

	result.TableOffset = tableOffset
	result.ArchiveSize = end
	return nil
}

func (w *Writer) notify(ev EntryEvent) {
	if w.cfg.onEntry != nil {
		w.cfg.onEntry(ev)
	}
}
