// pkg/datarchive/entry.go
package datarchive

import (
	"cmp"
	"slices"

	"github.com/creativeyann17/go-datarchive/internal/format"
)

// TableEntry describes one stored file.
type TableEntry = format.TableEntry

// CompressionMethod identifies how an entry's payload is stored.
type CompressionMethod = format.CompressionMethod

// Flags is the per-entry flag byte.
type Flags = format.Flags

const (
	CompressionNone    = format.CompressionNone
	CompressionDeflate = format.CompressionDeflate

	// FlagEncrypted is reserved: stored and reported, never acted on.
	FlagEncrypted = format.FlagEncrypted
)

const (
	// HeaderSize is the size of the fixed container header.
	HeaderSize = format.HeaderSize

	// MaxNameLength is the longest entry name the table can encode.
	MaxNameLength = format.MaxNameLength
)

// NewTableEntry returns an entry ready to be queued.
func NewTableEntry(name string, method CompressionMethod, flags Flags) TableEntry {
	return format.NewTableEntry(name, method, flags)
}

// ParseCompressionMethod parses "none" or "deflate".
func ParseCompressionMethod(s string) (CompressionMethod, error) {
	return format.ParseCompressionMethod(s)
}

// SortByDataStart sorts entries into write order.
func SortByDataStart(entries []TableEntry) {
	slices.SortStableFunc(entries, func(a, b TableEntry) int {
		return cmp.Compare(a.DataStart, b.DataStart)
	})
}
