// internal/format/errors.go
package format

import "errors"

var (
	// ErrShortHeader is returned when the file is smaller than the header
	ErrShortHeader = errors.New("archive shorter than header")

	// ErrBadSignature is returned when the header signature does not match
	ErrBadSignature = errors.New("invalid archive signature")

	// ErrUnsupportedVersion is returned when the header version is not Version
	ErrUnsupportedVersion = errors.New("unsupported archive version")

	// ErrBadTableOffset is returned when the header table offset points outside the file
	ErrBadTableOffset = errors.New("invalid table offset")

	// ErrTruncatedRecord is returned when the table ends in the middle of a record
	ErrTruncatedRecord = errors.New("truncated table record")

	// ErrNameTooLong is returned when an entry name does not fit the uint16 length prefix
	ErrNameTooLong = errors.New("entry name too long")

	// ErrUnknownMethod is returned for compression method codes this package does not know
	ErrUnknownMethod = errors.New("unknown compression method")
)
