// pkg/verify/verify.go
package verify

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"

	"github.com/creativeyann17/go-datarchive/internal/format"
	"github.com/creativeyann17/go-datarchive/pkg/datarchive"
	"github.com/creativeyann17/go-datarchive/pkg/datutil"
)

// ProgressCallback is called for progress updates during verification
type ProgressCallback func(event ProgressEvent)

// ProgressEvent contains progress information
type ProgressEvent struct {
	Type     EventType
	FilePath string
	Current  int
	Total    int
	Message  string
}

// EventType indicates the type of progress event
type EventType int

const (
	EventStart EventType = iota
	EventFileVerify
	EventComplete
	EventError
)

// Verify checks an archive's structure and, with VerifyData, its content
func Verify(opts *Options, progressCb ProgressCallback) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		ArchivePath: opts.InputPath,
		Format:      format.FormatUnknown.String(),
	}

	archiveFile, err := os.Open(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	stat, err := archiveFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	result.ArchiveSize = uint64(stat.Size())

	header, err := format.ReadHeader(archiveFile)
	result.Version = header.Version
	result.TableOffset = header.TableOffset
	switch {
	case errors.Is(err, format.ErrShortHeader):
		result.Errors = append(result.Errors, err)
		return result, ErrTruncatedArchive
	case errors.Is(err, format.ErrBadSignature):
		result.Errors = append(result.Errors, ErrInvalidMagic)
		return result, ErrUnsupportedFormat
	case errors.Is(err, format.ErrUnsupportedVersion):
		result.Format = format.FormatDatArchiveNewer.String()
		result.Errors = append(result.Errors, err)
		return result, ErrUnsupportedVersion
	case err != nil:
		return nil, err
	}
	result.Format = format.FormatDatArchive01.String()
	result.HeaderValid = true

	entries, err := format.ReadTableAt(archiveFile, header)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("%w: %w", ErrInvalidTable, err))
	} else {
		result.TableValid = true
	}

	if progressCb != nil {
		progressCb(ProgressEvent{
			Type:    EventStart,
			Total:   len(entries),
			Message: fmt.Sprintf("Verifying %d entries", len(entries)),
		})
	}

	logger := datutil.Logger(opts.Logger, opts.Verbose, opts.Quiet)

	checkStructure(entries, header.TableOffset, result)
	for _, fi := range result.Files {
		logger.Debug().
			Str("name", fi.Name).
			Stringer("method", fi.Method).
			Uint64("start", fi.DataStart).
			Uint64("stored", fi.StoredSize).
			Msg("Entry checked")
	}

	if opts.VerifyData {
		if err := verifyData(opts, logger, result, progressCb); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	if progressCb != nil {
		progressCb(ProgressEvent{
			Type:    EventComplete,
			Current: result.FileCount,
			Total:   result.FileCount,
			Message: "Verification complete",
		})
	}

	return result, nil
}

// checkStructure validates every record against the payload region and
// against each other
func checkStructure(entries []datarchive.TableEntry, tableOffset uint64, result *Result) {
	seen := make(map[string]bool, len(entries))
	inBounds := make([]datarchive.TableEntry, 0, len(entries))

	for _, e := range entries {
		result.FileCount++
		result.Files = append(result.Files, FileInfo{
			Name:         e.Name,
			Method:       e.CompressionMethod,
			Flags:        e.Flags,
			CRC32:        e.CRC32,
			OriginalSize: e.OriginalSize,
			StoredSize:   e.SizeInArchive(),
			DataStart:    e.DataStart,
		})

		if seen[e.Name] {
			result.DuplicateNames++
			result.Errors = append(result.Errors, fmt.Errorf("%w: %s", ErrDuplicateName, e.Name))
		}
		seen[e.Name] = true

		switch e.CompressionMethod {
		case datarchive.CompressionDeflate:
			result.DeflateFiles++
		case datarchive.CompressionNone:
			result.StoredFiles++
		default:
			result.UnknownMethods++
			result.Errors = append(result.Errors, fmt.Errorf("%w: %s uses %d", ErrUnknownMethod, e.Name, e.CompressionMethod))
		}
		if e.Flags != 0 {
			result.FlaggedFiles++
		}
		if e.OriginalSize == 0 {
			result.EmptyFiles++
		}

		if e.DataStart < datarchive.HeaderSize || e.DataStart > e.DataEnd || e.DataEnd > tableOffset {
			result.OutOfBounds++
			result.Errors = append(result.Errors, fmt.Errorf("%w: %s spans [%d, %d)", ErrOutOfBounds, e.Name, e.DataStart, e.DataEnd))
			continue
		}

		result.TotalOrigSize += e.OriginalSize
		result.TotalStoredSize += e.SizeInArchive()
		if e.CompressionMethod == datarchive.CompressionNone && e.OriginalSize != e.SizeInArchive() {
			result.Errors = append(result.Errors, fmt.Errorf("%w: %s has %d bytes on disk, original size %d",
				ErrSizeMismatch, e.Name, e.SizeInArchive(), e.OriginalSize))
		}
		if e.CompressionMethod == datarchive.CompressionDeflate && e.OriginalSize/datarchive.MaxInflateRatio > e.SizeInArchive() {
			result.Errors = append(result.Errors, fmt.Errorf("%w: %s claims %d bytes from %d deflate bytes",
				ErrSizeMismatch, e.Name, e.OriginalSize, e.SizeInArchive()))
		}
		inBounds = append(inBounds, e)
	}

	// Walk the payload region in offset order
	datarchive.SortByDataStart(inBounds)
	pos := uint64(datarchive.HeaderSize)
	for i, e := range inBounds {
		if i > 0 && e.DataStart < inBounds[i-1].DataEnd {
			result.Overlaps++
			result.Errors = append(result.Errors, fmt.Errorf("%w: %s and %s", ErrOverlap, inBounds[i-1].Name, e.Name))
		}
		if e.DataStart > pos {
			result.UnreferencedBytes += e.DataStart - pos
		}
		pos = max(pos, e.DataEnd)
	}
	if tableOffset > pos {
		result.UnreferencedBytes += tableOffset - pos
	}

	result.StructureValid = result.HeaderValid && result.TableValid &&
		result.OutOfBounds == 0 && result.Overlaps == 0 &&
		result.DuplicateNames == 0 && result.UnknownMethods == 0
}

// verifyData extracts every entry through the archive reader
func verifyData(opts *Options, logger zerolog.Logger, result *Result, progressCb ProgressCallback) error {
	reader, err := datarchive.OpenReader(opts.InputPath,
		datarchive.WithLogger(logger),
		datarchive.WithChunkSize(opts.ChunkSize),
	)
	if err != nil {
		return fmt.Errorf("%w: cannot open for data verification: %w", ErrCorruptData, err)
	}
	defer reader.Close()

	result.DataVerified = true
	verified := make(map[string]bool, len(result.Files))

	for i := range result.Files {
		fi := &result.Files[i]

		if progressCb != nil {
			progressCb(ProgressEvent{
				Type:     EventFileVerify,
				FilePath: fi.Name,
				Current:  i + 1,
				Total:    len(result.Files),
			})
		}

		// The reader serves the first record of a duplicated name only
		if verified[fi.Name] || !reader.Contains(fi.Name) {
			continue
		}
		verified[fi.Name] = true

		digest, _, err := EntryDigest(reader, fi.Name)
		if err != nil {
			fi.Error = err
			result.CorruptFiles++
			result.Errors = append(result.Errors, fmt.Errorf("%w: %w", ErrCorruptData, err))
			if progressCb != nil {
				progressCb(ProgressEvent{Type: EventError, FilePath: fi.Name, Message: err.Error()})
			}
			if reader.IsBad() {
				return fmt.Errorf("%w: data verification stopped", datarchive.ErrRead)
			}
			continue
		}

		fi.DataValid = true
		fi.Digest = digest
		result.FilesVerified++
	}

	return nil
}

// EntryDigest extracts the named entry, checking its CRC-32, and returns the
// BLAKE3 digest of the content in hex along with the content size.
func EntryDigest(reader *datarchive.Reader, name string) (string, uint64, error) {
	hasher := blake3.New()
	counter := &datutil.CountingWriter{Writer: hasher}

	if _, err := reader.WriteFileTo(name, counter); err != nil {
		return "", counter.Count, err
	}
	return hex.EncodeToString(hasher.Sum(nil)), counter.Count, nil
}
