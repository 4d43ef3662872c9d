// pkg/datarchive/errors.go
package datarchive

import (
	"errors"
	"fmt"

	"github.com/creativeyann17/go-datarchive/internal/format"
)

// Format errors, re-exported from the codec.
var (
	ErrShortHeader        = format.ErrShortHeader
	ErrBadSignature       = format.ErrBadSignature
	ErrUnsupportedVersion = format.ErrUnsupportedVersion
	ErrBadTableOffset     = format.ErrBadTableOffset
	ErrTruncatedRecord    = format.ErrTruncatedRecord
	ErrNameTooLong        = format.ErrNameTooLong
	ErrUnknownMethod      = format.ErrUnknownMethod
)

var (
	// ErrNotOpen is returned when a Reader has no open archive.
	ErrNotOpen = errors.New("archive is not open")

	// ErrBadArchive is returned when a Reader is in the bad state or an
	// archive cannot be loaded.
	ErrBadArchive = errors.New("archive is bad")

	// ErrCorruptTable is returned when a loaded record points outside the payload region.
	ErrCorruptTable = errors.New("corrupt table entry")

	// ErrEntryNotFound is returned when no entry has the requested name.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrShortBuffer is returned when a caller buffer is smaller than the entry's original size.
	ErrShortBuffer = errors.New("buffer smaller than entry")

	// ErrChecksumMismatch is returned when the computed CRC-32 differs from the stored one.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrCorruptStream is returned when the compressed payload cannot be decoded.
	ErrCorruptStream = errors.New("corrupt compressed stream")

	// ErrDictionaryRequired is returned for deflate streams that need a preset dictionary.
	ErrDictionaryRequired = errors.New("compressed stream requires a dictionary")

	// ErrSizeMismatch is returned when decoded content does not match the recorded original size.
	ErrSizeMismatch = errors.New("content size does not match entry")

	// ErrTruncatedPayload is returned when the payload region is shorter than recorded.
	ErrTruncatedPayload = errors.New("payload truncated")

	// ErrEntryTooLarge is returned when an entry cannot be held in memory on this platform.
	ErrEntryTooLarge = errors.New("entry too large for memory")

	// ErrRead is returned for genuine I/O failures while reading the archive.
	// The Reader is marked bad when it happens.
	ErrRead = errors.New("archive read failed")
)

var (
	// ErrAlreadyQueued is returned when a source path is queued twice.
	ErrAlreadyQueued = errors.New("file already queued")

	// ErrSourceNotFound is returned when a queued source path does not exist.
	ErrSourceNotFound = errors.New("source file does not exist")

	// ErrNotRegularFile is returned when a queued source path is a directory or device.
	ErrNotRegularFile = errors.New("source is not a regular file")

	// ErrDuplicateName is returned when two queued sources share an entry name.
	ErrDuplicateName = errors.New("entry name already queued")

	// ErrDestinationExists is returned by WriteArchive when overwrite is false.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrArchiveNotFound is returned by AppendArchive when the destination is missing.
	ErrArchiveNotFound = errors.New("archive does not exist")

	// ErrNameCollision marks queued entries dropped by AppendArchive.
	ErrNameCollision = errors.New("name already exists in archive")
)

// InternalError reports a broken internal invariant, such as the container
// position disagreeing with the byte count just written. It is never a
// consequence of bad input and callers should not retry.
type InternalError struct {
	Op  string
	Msg string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("internal error in %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("internal error in %s: %s", e.Op, e.Msg)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// containerError wraps failures writing to the archive itself, which abort the
// whole operation, as opposed to source failures which only skip one file.
type containerError struct {
	err error
}

func (e *containerError) Error() string {
	return "write archive: " + e.err.Error()
}

func (e *containerError) Unwrap() error {
	return e.err
}
