// pkg/compress/errors.go
package compress

import "errors"

var (
	// ErrInputRequired is returned when input path is not specified
	ErrInputRequired = errors.New("input path is required")

	// ErrInvalidLevel is returned when compression level is out of range
	ErrInvalidLevel = errors.New("compression level must be between 1 and 9")

	// ErrInvalidMethod is returned for compression methods other than deflate and none
	ErrInvalidMethod = errors.New("compression method must be deflate or none")

	// ErrAppendOverwrite is returned when both Append and Overwrite are set
	ErrAppendOverwrite = errors.New("append and overwrite are mutually exclusive")

	// ErrNoFiles is returned when no files are found to pack
	ErrNoFiles = errors.New("no regular files found to compress")

	// ErrNameOverlap is returned when two inputs map to the same entry name
	ErrNameOverlap = errors.New("entry name overlap")
)
