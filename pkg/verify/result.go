// pkg/verify/result.go
package verify

import (
	"fmt"

	"github.com/creativeyann17/go-datarchive/pkg/datarchive"
	"github.com/creativeyann17/go-datarchive/pkg/datutil"
)

// Result contains comprehensive verification results
type Result struct {
	// Archive metadata
	Format      string // Detected format name
	ArchivePath string // Path to the verified archive
	ArchiveSize uint64 // Total archive file size in bytes
	Version     byte   // Header version byte
	TableOffset uint64 // Start of the table

	// Header information
	HeaderValid bool // Signature and version are correct
	TableValid  bool // Table decodes to end of file

	// File statistics
	FileCount       int    // Number of table records
	TotalOrigSize   uint64 // Sum of original sizes
	TotalStoredSize uint64 // Sum of payload sizes
	EmptyFiles      int    // Number of zero-byte entries
	DeflateFiles    int    // Entries stored with deflate
	StoredFiles     int    // Entries stored without compression
	FlaggedFiles    int    // Entries with any flag bit set

	// Structural integrity
	StructureValid    bool   // Overall structure is valid
	OutOfBounds       int    // Entries pointing outside the payload region
	Overlaps          int    // Entries sharing bytes with the previous one
	DuplicateNames    int    // Records repeating an earlier name
	UnknownMethods    int    // Entries with an unknown method code
	UnreferencedBytes uint64 // Payload region bytes no entry covers

	// Data integrity (only populated when VerifyData=true)
	DataVerified  bool // Whether data verification was performed
	FilesVerified int  // Number of entries with verified data
	CorruptFiles  int  // Number of entries that failed verification

	// File details in table order
	Files []FileInfo

	// Errors encountered during verification
	Errors []error
}

// FileInfo contains information about a single entry
type FileInfo struct {
	Name         string
	Method       datarchive.CompressionMethod
	Flags        datarchive.Flags
	CRC32        uint32
	OriginalSize uint64
	StoredSize   uint64
	DataStart    uint64
	DataValid    bool   // Data integrity verified (when VerifyData=true)
	Digest       string // BLAKE3 of the content, hex (when VerifyData=true)
	Error        error  // Error if verification failed for this entry
}

// CompressionRatio returns the stored size as a percentage of the original
func (r *Result) CompressionRatio() float64 {
	if r.TotalOrigSize == 0 {
		return 0
	}
	return float64(r.TotalStoredSize) / float64(r.TotalOrigSize) * 100
}

// SpaceSaved returns bytes saved by compression
func (r *Result) SpaceSaved() uint64 {
	if r.TotalStoredSize >= r.TotalOrigSize {
		return 0
	}
	return r.TotalOrigSize - r.TotalStoredSize
}

// IsValid returns true if the archive passed all validation checks
func (r *Result) IsValid() bool {
	return r.HeaderValid && r.StructureValid && len(r.Errors) == 0 && r.CorruptFiles == 0
}

// Success returns true if verification completed without critical errors
func (r *Result) Success() bool {
	return r.IsValid()
}

// Summary returns a human-readable summary of the verification result
func (r *Result) Summary() string {
	status := "VALID"
	if !r.IsValid() {
		status = "INVALID"
	}

	s := fmt.Sprintf("Archive: %s [%s]\n", r.ArchivePath, status)
	s += fmt.Sprintf("Format:  %s\n", r.Format)
	s += fmt.Sprintf("Size:    %s\n", datutil.FormatSize(r.ArchiveSize))
	s += fmt.Sprintf("Entries: %d (%d deflate, %d stored)\n", r.FileCount, r.DeflateFiles, r.StoredFiles)

	if r.TotalOrigSize > 0 {
		s += fmt.Sprintf("Original: %s\n", datutil.FormatSize(r.TotalOrigSize))
		s += fmt.Sprintf("Stored:   %s (%.1f%% ratio)\n", datutil.FormatSize(r.TotalStoredSize), r.CompressionRatio())
	}

	if r.UnreferencedBytes > 0 {
		s += fmt.Sprintf("Unreferenced payload bytes: %d\n", r.UnreferencedBytes)
	}

	if r.DataVerified {
		s += "\nData Integrity:\n"
		s += fmt.Sprintf("  Entries Verified: %d/%d\n", r.FilesVerified, r.FileCount)
		if r.CorruptFiles > 0 {
			s += fmt.Sprintf("  Corrupt Entries:  %d\n", r.CorruptFiles)
		}
	}

	if len(r.Errors) > 0 {
		s += fmt.Sprintf("\nErrors (%d):\n", len(r.Errors))
		for i, err := range r.Errors {
			if i >= 10 {
				s += fmt.Sprintf("  ... and %d more errors\n", len(r.Errors)-10)
				break
			}
			s += fmt.Sprintf("  - %v\n", err)
		}
	}

	return s
}
