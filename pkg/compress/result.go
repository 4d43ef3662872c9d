// pkg/compress/result.go
package compress

// Result contains statistics about a pack operation
type Result struct {
	// Total number of files found
	FilesTotal int

	// Number of files written to the archive
	FilesProcessed int

	// Entries left out because the archive already had the name (append only)
	Skipped []string

	// Total original size in bytes of the written files
	OriginalSize uint64

	// Total payload size in bytes of the written files
	StoredSize uint64

	// Archive size after the operation
	ArchiveSize uint64

	// Appended is true when an existing archive was extended
	Appended bool

	// List of errors encountered (non-fatal)
	Errors []error
}

// CompressionRatio returns the stored size as a percentage of the original
func (r *Result) CompressionRatio() float64 {
	if r.OriginalSize == 0 {
		return 0
	}
	return float64(r.StoredSize) / float64(r.OriginalSize) * 100
}

// Success returns true if all files were written without errors
func (r *Result) Success() bool {
	return len(r.Errors) == 0 && len(r.Skipped) == 0 && r.FilesProcessed == r.FilesTotal
}

func (r *Result) GetFilesTotal() int      { return r.FilesTotal }
func (r *Result) GetFilesProcessed() int  { return r.FilesProcessed }
func (r *Result) GetErrors() []error      { return r.Errors }
func (r *Result) GetOriginalSize() uint64 { return r.OriginalSize }
func (r *Result) GetStoredSize() uint64   { return r.StoredSize }
