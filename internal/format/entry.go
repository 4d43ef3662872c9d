// internal/format/entry.go
package format

import "fmt"

// CompressionMethod identifies how an entry's payload is stored
type CompressionMethod uint8

const (
	// CompressionNone stores the content verbatim
	CompressionNone CompressionMethod = iota
	// CompressionDeflate stores the content as a zlib (RFC 1950) deflate stream
	CompressionDeflate
)

// String returns the string representation of the method
func (m CompressionMethod) String() string {
	switch m {
	case CompressionNone:
		return "none"
	case CompressionDeflate:
		return "deflate"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// Valid returns nil iff the method is known
func (m CompressionMethod) Valid() error {
	switch m {
	case CompressionNone, CompressionDeflate:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrUnknownMethod, uint8(m))
}

// ParseCompressionMethod parses "none" or "deflate" (also accepts "zlib")
func ParseCompressionMethod(s string) (CompressionMethod, error) {
	switch s {
	case "none", "store":
		return CompressionNone, nil
	case "deflate", "zlib":
		return CompressionDeflate, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Flags is the per-entry flag byte. Bits other than the ones named here are
// carried through unchanged.
type Flags uint8

const (
	// FlagEncrypted is reserved. No cipher is implemented; the bit is stored
	// and reported but never acted on.
	FlagEncrypted Flags = 1 << 0
)

// Encrypted reports whether the reserved encrypted bit is set
func (f Flags) Encrypted() bool {
	return f&FlagEncrypted != 0
}

// String returns a short human-readable form
func (f Flags) String() string {
	if f == 0 {
		return "-"
	}
	s := ""
	if f.Encrypted() {
		s = "encrypted"
	}
	if rest := f &^ FlagEncrypted; rest != 0 {
		if s != "" {
			s += ","
		}
		s += fmt.Sprintf("0x%02x", uint8(rest))
	}
	return s
}

// TableEntry describes one stored file. It is a plain value and is copied
// freely between the writer queue and the reader index.
type TableEntry struct {
	// Name is unique within a container. "/" is allowed as an organizational
	// separator and carries no filesystem meaning.
	Name              string
	CompressionMethod CompressionMethod
	Flags             Flags
	// CRC32 is the IEEE checksum of the on-disk payload bytes
	CRC32        uint32
	OriginalSize uint64
	// DataStart and DataEnd bound the payload: [DataStart, DataEnd)
	DataStart uint64
	DataEnd   uint64
}

// NewTableEntry returns an entry ready to be queued for writing
func NewTableEntry(name string, method CompressionMethod, flags Flags) TableEntry {
	return TableEntry{
		Name:              name,
		CompressionMethod: method,
		Flags:             flags,
	}
}

// SizeInArchive returns the on-disk (possibly compressed) payload size
func (e TableEntry) SizeInArchive() uint64 {
	return e.DataEnd - e.DataStart
}
