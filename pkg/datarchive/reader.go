// pkg/datarchive/reader.go
package datarchive

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/tidwall/btree"

	"github.com/creativeyann17/go-datarchive/internal/format"
)

// ReaderState is the lifecycle state of a Reader.
type ReaderState int

const (
	StateClosed ReaderState = iota
	StateOpening
	StateBad
	StateLoaded
)

func (s ReaderState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateBad:
		return "bad"
	case StateLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("ReaderState(%d)", int(s))
	}
}

// Reader opens a container and serves its entries by name.
type Reader struct {
	path   string
	file   *os.File
	header format.Header
	index  btree.Map[string, TableEntry]
	state  ReaderState
	bad    bool
	cfg    config
	logger zerolog.Logger

	// records holds every table record in on-disk order, duplicates included
	records []TableEntry
}

// NewReader returns a closed Reader.
func NewReader(opts ...Option) *Reader {
	cfg := newConfig(opts)
	return &Reader{
		cfg:    cfg,
		logger: cfg.logger,
	}
}

// OpenReader is shorthand for NewReader followed by Open. The Reader is
// returned even on failure so its state can be inspected.
func OpenReader(path string, opts ...Option) (*Reader, error) {
	r := NewReader(opts...)
	return r, r.Open(path)
}

// Open opens path and loads its table. Any previously open archive is closed
// first. On failure the Reader is left bad with an empty index.
func (r *Reader) Open(path string) error {
	if r.file != nil {
		_ = r.file.Close()
		r.file = nil
	}
	r.path = path
	r.header = format.Header{}
	r.index = btree.Map[string, TableEntry]{}
	r.records = nil
	r.bad = false
	r.state = StateOpening

	info, err := os.Stat(path)
	if err != nil {
		return r.fail(fmt.Errorf("open archive: %w", err))
	}
	if !info.Mode().IsRegular() {
		return r.fail(fmt.Errorf("%w: %s is not a regular file", ErrBadArchive, path))
	}

	f, err := os.Open(path)
	if err != nil {
		return r.fail(fmt.Errorf("open archive: %w", err))
	}
	r.file = f

	h, err := format.ReadHeader(f)
	if err != nil {
		return r.fail(fmt.Errorf("%w: %w", ErrBadArchive, err))
	}
	r.header = h

	entries, err := format.ReadTableAt(f, h)
	if err != nil {
		return r.fail(fmt.Errorf("%w: %w", ErrBadArchive, err))
	}

	for _, e := range entries {
		if e.DataStart < HeaderSize || e.DataStart > e.DataEnd || e.DataEnd > h.TableOffset {
			return r.fail(fmt.Errorf("%w: %q spans [%d, %d) outside payload region [%d, %d)",
				ErrCorruptTable, e.Name, e.DataStart, e.DataEnd, HeaderSize, h.TableOffset))
		}
		if _, exists := r.index.Get(e.Name); exists {
			r.logger.Debug().Str("name", e.Name).Msg("Duplicate entry name in table, keeping first")
			continue
		}
		r.index.Set(e.Name, e)
	}
	r.records = entries

	r.state = StateLoaded
	r.logger.Debug().
		Str("path", path).
		Int("entries", r.index.Len()).
		Uint64("table_offset", h.TableOffset).
		Msg("Archive opened")

	return nil
}

// fail moves the reader to the bad state, releasing the file handle.
func (r *Reader) fail(err error) error {
	if r.file != nil {
		_ = r.file.Close()
		r.file = nil
	}
	r.index = btree.Map[string, TableEntry]{}
	r.records = nil
	r.bad = true
	r.state = StateBad
	r.logger.Debug().Err(err).Str("path", r.path).Msg("Archive open failed")
	return err
}

// markBad records an I/O failure after a successful load. The index stays
// queryable but no further extraction is attempted.
func (r *Reader) markBad(err error) {
	r.bad = true
	r.state = StateBad
	r.logger.Warn().Err(err).Str("path", r.path).Msg("Archive read failed")
}

// Close releases the file handle. It returns ErrNotOpen when nothing is open.
// The loaded index stays available for queries.
func (r *Reader) Close() error {
	if r.file == nil {
		return ErrNotOpen
	}
	err := r.file.Close()
	r.file = nil
	r.state = StateClosed
	return err
}

// IsOpen reports whether an archive handle is held.
func (r *Reader) IsOpen() bool {
	return r.file != nil
}

// IsBad reports whether opening or reading the archive failed.
func (r *Reader) IsBad() bool {
	return r.bad
}

func (r *Reader) State() ReaderState {
	return r.state
}

// Path returns the path given to the last Open.
func (r *Reader) Path() string {
	return r.path
}

// Version returns the header version byte, or 0 if no header was read.
func (r *Reader) Version() byte {
	return r.header.Version
}

// TableOffset returns the position of the table, which is also the end of
// the payload region.
func (r *Reader) TableOffset() uint64 {
	return r.header.TableOffset
}

// Size returns the number of entries.
func (r *Reader) Size() int {
	return r.index.Len()
}

// Contains reports whether an entry named name exists.
func (r *Reader) Contains(name string) bool {
	_, ok := r.index.Get(name)
	return ok
}

// Entry returns the table entry for name.
func (r *Reader) Entry(name string) (TableEntry, bool) {
	return r.index.Get(name)
}

// ListFiles returns all entry names in lexical order.
func (r *Reader) ListFiles() []string {
	return r.index.Keys()
}

// Table returns a copy of every entry, ordered by name. Use SortByDataStart
// for write order.
func (r *Reader) Table() []TableEntry {
	return r.index.Values()
}

// lookup resolves name to an entry that can be extracted right now.
func (r *Reader) lookup(name string) (TableEntry, error) {
	if r.bad {
		return TableEntry{}, ErrBadArchive
	}
	if r.file == nil {
		return TableEntry{}, ErrNotOpen
	}
	entry, ok := r.index.Get(name)
	if !ok {
		return TableEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	if err := entry.CompressionMethod.Valid(); err != nil {
		return TableEntry{}, fmt.Errorf("%s: %w", name, err)
	}
	if err := checkSizes(entry); err != nil {
		return TableEntry{}, err
	}
	return entry, nil
}

// IsNotFound reports whether err means the archive or entry does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound) || errors.Is(err, os.ErrNotExist)
}
