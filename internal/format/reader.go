// internal/format/reader.go
package format

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// TableReader decodes table records from a stream positioned at the table start.
// The table has no count and no terminator: it ends where the stream ends.
type TableReader struct {
	r      io.Reader
	offset uint64
	fixed  []byte
}

// NewTableReader creates a table reader. tableOffset is only used to report
// the absolute position of a malformed record.
func NewTableReader(r io.Reader, tableOffset uint64) *TableReader {
	return &TableReader{
		r:      r,
		offset: tableOffset,
		fixed:  make([]byte, EntryFixedSize-2),
	}
}

// Next reads the next record. It returns io.EOF only when the stream ends
// exactly on a record boundary; a partial trailing record is ErrTruncatedRecord.
func (tr *TableReader) Next() (TableEntry, error) {
	var entry TableEntry
	recordStart := tr.offset

	// Read name length
	var lenBuf [2]byte
	n, err := io.ReadFull(tr.r, lenBuf[:])
	if err != nil {
		if err == io.EOF && n == 0 {
			return entry, io.EOF
		}
		return entry, tr.truncated(recordStart, err)
	}
	nameLen := binary.LittleEndian.Uint16(lenBuf[:])

	// Read name
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(tr.r, name); err != nil {
		return entry, tr.truncated(recordStart, err)
	}

	// Read method, flags, crc, sizes and offsets in one go
	if _, err := io.ReadFull(tr.r, tr.fixed); err != nil {
		return entry, tr.truncated(recordStart, err)
	}

	entry.Name = string(name)
	entry.CompressionMethod = CompressionMethod(tr.fixed[0])
	entry.Flags = Flags(tr.fixed[1])
	entry.CRC32 = binary.LittleEndian.Uint32(tr.fixed[2:6])
	entry.OriginalSize = binary.LittleEndian.Uint64(tr.fixed[6:14])
	entry.DataStart = binary.LittleEndian.Uint64(tr.fixed[14:22])
	entry.DataEnd = binary.LittleEndian.Uint64(tr.fixed[22:30])

	tr.offset += uint64(EncodedSize(entry))

	return entry, nil
}

func (tr *TableReader) truncated(recordStart uint64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w at offset %d", ErrTruncatedRecord, recordStart)
	}
	return fmt.Errorf("read entry at offset %d: %w", recordStart, err)
}

// ReadTable reads every record until end of stream
func ReadTable(r io.Reader, tableOffset uint64) ([]TableEntry, error) {
	tr := NewTableReader(r, tableOffset)
	var entries []TableEntry

	for {
		entry, err := tr.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
}

// ReadTableAt reads the whole table of a container, given its header
func ReadTableAt(r io.ReadSeeker, h Header) ([]TableEntry, error) {
	if h.TableOffset < HeaderSize {
		return nil, fmt.Errorf("%w: %d", ErrBadTableOffset, h.TableOffset)
	}

	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("seek to end: %w", err)
	}
	if h.TableOffset > uint64(end) {
		return nil, fmt.Errorf("%w: %d beyond end of file (%d)", ErrBadTableOffset, h.TableOffset, end)
	}

	if _, err := r.Seek(int64(h.TableOffset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to table: %w", err)
	}

	return ReadTable(bufio.NewReader(io.LimitReader(r, end-int64(h.TableOffset))), h.TableOffset)
}
