// internal/format/archive.go
package format

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Container layout (all integers little-endian):
//
//	Header (13 bytes):
//	  Signature (4):     0xB1 'D' 'A' 'T'
//	  Version (1):       0x01
//	  Table Offset (8):  uint64, absolute offset of the table
//	Payloads:            one contiguous region per entry
//	Table:               entry records from Table Offset to end of file
//
//	Entry record:
//	  Name Length (2):   uint16
//	  Name (variable)
//	  Method (1):        0 = none, 1 = deflate (zlib stream)
//	  Flags (1):         bit 0 = encrypted (reserved)
//	  CRC-32 (4):        IEEE, over the on-disk payload bytes
//	  Original Size (8): uint64
//	  Data Start (8):    uint64
//	  Data End (8):      uint64
const (
	// Signature is the 4-byte magic at the start of every container
	Signature     = "\xB1DAT"
	SignatureSize = 4

	// Version is the only container version this package reads or writes
	Version byte = 0x01

	// HeaderSize is signature(4) + version(1) + table offset(8)
	HeaderSize = 13

	// TableOffsetPos is the absolute position of the table offset field
	TableOffsetPos = SignatureSize + 1

	// EntryFixedSize is every record field except the name:
	// name_len(2) + method(1) + flags(1) + crc(4) + orig(8) + start(8) + end(8)
	EntryFixedSize = 32

	// MaxNameLength is bounded by the uint16 name length prefix
	MaxNameLength = 1<<16 - 1
)

// Header is the decoded fixed-size container header
type Header struct {
	Signature   [SignatureSize]byte
	Version     byte
	TableOffset uint64
}

// Validate checks the signature and version
func (h Header) Validate() error {
	if string(h.Signature[:]) != Signature {
		return fmt.Errorf("%w: got %q", ErrBadSignature, h.Signature[:])
	}
	if h.Version != Version {
		return fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, h.Version, Version)
	}
	return nil
}

// WriteHeader writes the signature, version and a zeroed table offset placeholder.
// The placeholder is patched with PatchTableOffset once the payloads are written.
func WriteHeader(w io.Writer) error {
	buf := make([]byte, 0, HeaderSize)
	buf = append(buf, Signature...)
	buf = append(buf, Version)
	buf = binary.LittleEndian.AppendUint64(buf, 0)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// ReadHeader reads the 13-byte header. The decoded header is returned even when
// validation fails so callers can report what was found.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header

	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return h, ErrShortHeader
		}
		return h, fmt.Errorf("read header: %w", err)
	}

	copy(h.Signature[:], buf[:SignatureSize])
	h.Version = buf[SignatureSize]
	h.TableOffset = binary.LittleEndian.Uint64(buf[TableOffsetPos:])

	return h, h.Validate()
}

// PatchTableOffset writes tableOffset into the header in place and restores the
// writer's position afterwards.
func PatchTableOffset(w io.WriteSeeker, tableOffset uint64) error {
	// Save current position
	currentPos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("get current position: %w", err)
	}

	if _, err := w.Seek(TableOffsetPos, io.SeekStart); err != nil {
		return fmt.Errorf("seek to table offset field: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, tableOffset); err != nil {
		return fmt.Errorf("write table offset: %w", err)
	}

	// Restore original position
	if _, err := w.Seek(currentPos, io.SeekStart); err != nil {
		return fmt.Errorf("restore position: %w", err)
	}

	return nil
}

// AppendTableEntry encodes one table record onto buf
func AppendTableEntry(buf []byte, entry TableEntry) ([]byte, error) {
	if len(entry.Name) > MaxNameLength {
		return buf, fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(entry.Name))
	}

	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(entry.Name)))
	buf = append(buf, entry.Name...)
	buf = append(buf, byte(entry.CompressionMethod), byte(entry.Flags))
	buf = binary.LittleEndian.AppendUint32(buf, entry.CRC32)
	buf = binary.LittleEndian.AppendUint64(buf, entry.OriginalSize)
	buf = binary.LittleEndian.AppendUint64(buf, entry.DataStart)
	buf = binary.LittleEndian.AppendUint64(buf, entry.DataEnd)
	return buf, nil
}

// WriteTableEntry writes a single table record
func WriteTableEntry(w io.Writer, entry TableEntry) error {
	buf, err := AppendTableEntry(make([]byte, 0, EntryFixedSize+len(entry.Name)), entry)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write entry %q: %w", entry.Name, err)
	}
	return nil
}

// WriteTable writes every record in order
func WriteTable(w io.Writer, entries []TableEntry) error {
	for _, entry := range entries {
		if err := WriteTableEntry(w, entry); err != nil {
			return err
		}
	}
	return nil
}

// EncodedSize returns the on-disk size of a table record
func EncodedSize(entry TableEntry) int {
	return EntryFixedSize + len(entry.Name)
}
