// internal/format/detect.go
package format

// ArchiveFormat represents the detected archive format
type ArchiveFormat int

const (
	FormatUnknown ArchiveFormat = iota
	FormatDatArchive01
	// FormatDatArchiveNewer has our signature but a version this package cannot read
	FormatDatArchiveNewer
)

// String returns the string representation of the format
func (f ArchiveFormat) String() string {
	switch f {
	case FormatDatArchive01:
		return "DATARCHIVE01"
	case FormatDatArchiveNewer:
		return "DATARCHIVE(unsupported version)"
	default:
		return "UNKNOWN"
	}
}

// DetectFormat detects the archive format from the leading bytes.
// Requires at least 5 bytes (signature + version).
func DetectFormat(magic []byte) ArchiveFormat {
	if len(magic) < SignatureSize+1 {
		return FormatUnknown
	}

	if string(magic[:SignatureSize]) != Signature {
		return FormatUnknown
	}

	if magic[SignatureSize] == Version {
		return FormatDatArchive01
	}
	return FormatDatArchiveNewer
}
