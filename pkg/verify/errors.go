// pkg/verify/errors.go
package verify

import "errors"

var (
	// ErrInputRequired is returned when input path is not specified
	ErrInputRequired = errors.New("input path is required")

	// ErrInvalidMagic is returned when archive has invalid signature bytes
	ErrInvalidMagic = errors.New("invalid archive signature")

	// ErrUnsupportedVersion is returned when the header version is not supported
	ErrUnsupportedVersion = errors.New("unsupported archive version")

	// ErrInvalidTable is returned when the table cannot be decoded
	ErrInvalidTable = errors.New("invalid archive table")

	// ErrOutOfBounds is returned when an entry points outside the payload region
	ErrOutOfBounds = errors.New("entry outside payload region")

	// ErrOverlap is returned when two entries share payload bytes
	ErrOverlap = errors.New("entries overlap")

	// ErrDuplicateName is returned when the table has the same name twice
	ErrDuplicateName = errors.New("duplicate entry name")

	// ErrUnknownMethod is returned for compression method codes that cannot be decoded
	ErrUnknownMethod = errors.New("unknown compression method")

	// ErrSizeMismatch is returned when an entry's original size cannot match its payload
	ErrSizeMismatch = errors.New("entry size mismatch")

	// ErrCorruptData is returned when extracted data fails integrity check
	ErrCorruptData = errors.New("data corruption detected")

	// ErrTruncatedArchive is returned when archive is shorter than its header
	ErrTruncatedArchive = errors.New("archive appears truncated")

	// ErrUnsupportedFormat is returned for files that are not containers
	ErrUnsupportedFormat = errors.New("unsupported archive format")
)
