// pkg/decompress/result.go
package decompress

// Result contains statistics about the extraction
type Result struct {
	// Number of entries selected for extraction
	FilesTotal int

	// Number of entries successfully extracted
	FilesProcessed int

	// Total payload size in bytes of the extracted entries
	StoredSize uint64

	// Total extracted size in bytes
	ExtractedSize uint64

	// List of errors encountered (non-fatal)
	Errors []error
}

// Success returns true if all files were processed without errors
func (r *Result) Success() bool {
	return len(r.Errors) == 0 && r.FilesProcessed == r.FilesTotal
}

// GetFilesTotal returns total files (interface method)
func (r *Result) GetFilesTotal() int {
	return r.FilesTotal
}

// GetFilesProcessed returns processed files (interface method)
func (r *Result) GetFilesProcessed() int {
	return r.FilesProcessed
}

// GetErrors returns the error list (interface method)
func (r *Result) GetErrors() []error {
	return r.Errors
}

// GetOriginalSize returns extracted size (interface method)
func (r *Result) GetOriginalSize() uint64 {
	return r.ExtractedSize
}

// GetStoredSize returns payload size (interface method)
func (r *Result) GetStoredSize() uint64 {
	return r.StoredSize
}
