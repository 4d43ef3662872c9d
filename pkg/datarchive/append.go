// pkg/datarchive/append.go
package datarchive

import (
	"errors"
	"fmt"
	"os"
	"slices"
)

// AppendArchive adds every queued file to the existing container at
// destination. New payloads overwrite the old table, and the rewritten table
// lists the old records in write order followed by the new ones.
//
// Queued entries whose name is already in the container are removed from the
// queue, logged, and reported in WriteResult.Skipped. The other rules match
// WriteArchive.
func (w *Writer) AppendArchive(destination string) (*WriteResult, error) {
	if _, err := os.Stat(destination); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArchiveNotFound, destination)
		}
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	r := NewReader(WithLogger(w.logger), WithChunkSize(w.cfg.chunkSize))
	if err := r.Open(destination); err != nil {
		if errors.Is(err, ErrBadArchive) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrBadArchive, err)
	}
	tableOffset := r.TableOffset()
	// Every record is carried over, including names the index shadows
	old := slices.Clone(r.records)
	if err := r.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	SortByDataStart(old)

	result := &WriteResult{}
	w.dropCollisions(old, result)

	f, err := os.OpenFile(destination, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open archive for append: %w", err)
	}
	defer f.Close()

	written, end, err := w.writeFiles(f, tableOffset, result)
	if err != nil {
		return result, err
	}
	result.Entries = written

	if err := w.writeTable(f, end, old, written, result); err != nil {
		return result, err
	}

	w.logger.Info().
		Str("path", destination).
		Int("existing", len(old)).
		Int("added", len(written)).
		Int("skipped", len(result.Skipped)).
		Uint64("size", result.ArchiveSize).
		Msg("Archive appended")

	return result, f.Close()
}

// dropCollisions removes queued entries whose name already exists in the container.
func (w *Writer) dropCollisions(existing []TableEntry, result *WriteResult) {
	names := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		names[e.Name] = struct{}{}
	}

	for i := 0; i < len(w.queue); {
		q := w.queue[i]
		if _, exists := names[q.Entry.Name]; !exists {
			i++
			continue
		}

		w.logger.Warn().Str("name", q.Entry.Name).Str("path", q.Path).Msg("Entry already in archive, skipping")
		result.Skipped = append(result.Skipped, q.Entry)
		w.notify(EntryEvent{Type: EventEntrySkipped, Path: q.Path, Entry: q.Entry, Err: ErrNameCollision})
		w.dequeue(i)
	}
}
