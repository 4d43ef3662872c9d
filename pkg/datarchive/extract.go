// pkg/datarchive/extract.go
package datarchive

import (
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"math"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"

	"github.com/creativeyann17/go-datarchive/internal/chunker"
)

// GetFile extracts the named entry into a new buffer of its original size.
func (r *Reader) GetFile(name string, opts ...ExtractOption) ([]byte, error) {
	entry, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	if entry.OriginalSize > math.MaxInt {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrEntryTooLarge, name, entry.OriginalSize)
	}

	buf := make([]byte, entry.OriginalSize)
	if _, err := r.extract(entry, &fixedWriter{buf: buf}, newExtractConfig(opts)); err != nil {
		return nil, err
	}
	return buf, nil
}

// GetFileInto extracts the named entry into buf, which must hold at least the
// entry's original size. It returns the number of bytes written, or 0 on failure.
func (r *Reader) GetFileInto(name string, buf []byte, opts ...ExtractOption) (int, error) {
	entry, err := r.lookup(name)
	if err != nil {
		return 0, err
	}
	if uint64(len(buf)) < entry.OriginalSize {
		return 0, fmt.Errorf("%w: %s needs %d bytes, buffer has %d", ErrShortBuffer, name, entry.OriginalSize, len(buf))
	}

	dst := buf[:entry.OriginalSize]
	if _, err := r.extract(entry, &fixedWriter{buf: dst}, newExtractConfig(opts)); err != nil {
		return 0, err
	}
	return len(dst), nil
}

// WriteFileTo streams the named entry to w with bounded memory. Content is
// written before the checksum can be compared, so on ErrChecksumMismatch w
// has already received the full (suspect) content.
func (r *Reader) WriteFileTo(name string, w io.Writer, opts ...ExtractOption) (int64, error) {
	entry, err := r.lookup(name)
	if err != nil {
		return 0, err
	}
	return r.extract(entry, &limitedWriter{w: w, remaining: entry.OriginalSize}, newExtractConfig(opts))
}

func (r *Reader) extract(entry TableEntry, w io.Writer, cfg extractConfig) (int64, error) {
	src := &readErrorRecorder{
		r: io.NewSectionReader(r.file, int64(entry.DataStart), int64(entry.SizeInArchive())),
	}
	crc := crc32.NewIEEE()

	var n int64
	var err error
	switch entry.CompressionMethod {
	case CompressionNone:
		n, err = r.extractStored(entry, src, w, crc)
	case CompressionDeflate:
		n, err = r.extractDeflate(entry, src, w, crc)
	default:
		return 0, fmt.Errorf("%s: %w: %d", entry.Name, ErrUnknownMethod, entry.CompressionMethod)
	}

	if src.err != nil {
		r.markBad(src.err)
		return n, fmt.Errorf("%w: %s: %w", ErrRead, entry.Name, src.err)
	}
	if err != nil {
		return n, fmt.Errorf("%s: %w", entry.Name, err)
	}

	if cfg.validateCRC && crc.Sum32() != entry.CRC32 {
		return n, fmt.Errorf("%w: %s: stored %08x, computed %08x", ErrChecksumMismatch, entry.Name, entry.CRC32, crc.Sum32())
	}

	return n, nil
}

func (r *Reader) extractStored(entry TableEntry, src io.Reader, w io.Writer, crc hash.Hash32) (int64, error) {
	var written int64
	total, err := chunker.New(r.cfg.chunkSize).Stream(src, func(chunk []byte) error {
		crc.Write(chunk)
		n, err := w.Write(chunk)
		written += int64(n)
		return err
	})
	if err != nil {
		return written, err
	}
	if total != entry.SizeInArchive() {
		return written, fmt.Errorf("%w: read %d of %d bytes", ErrTruncatedPayload, total, entry.SizeInArchive())
	}
	return written, nil
}

func (r *Reader) extractDeflate(entry TableEntry, src io.Reader, w io.Writer, crc hash.Hash32) (int64, error) {
	cr := chunker.New(r.cfg.chunkSize).Reader(src, func(chunk []byte) {
		crc.Write(chunk)
	})

	zr, err := zlib.NewReader(cr)
	if err != nil {
		return 0, inflateError(err)
	}
	defer zr.Close()

	n, err := io.Copy(w, zr)
	if err != nil {
		return n, inflateError(err)
	}
	if uint64(n) != entry.OriginalSize {
		return n, fmt.Errorf("%w: decoded %d bytes, expected %d", ErrSizeMismatch, n, entry.OriginalSize)
	}

	// Pull whatever trails the stream so the checksum spans the whole region
	if _, err := cr.Drain(); err != nil {
		return n, err
	}
	if cr.Total() != entry.SizeInArchive() {
		return n, fmt.Errorf("%w: read %d of %d bytes", ErrTruncatedPayload, cr.Total(), entry.SizeInArchive())
	}
	return n, nil
}

// MaxInflateRatio is the largest expansion a deflate stream can encode
// (about 1032:1). A deflate entry claiming more is corrupt.
const MaxInflateRatio = 1032

// checkSizes rejects entries whose original size cannot come from their
// payload, before anything is allocated for them.
func checkSizes(entry TableEntry) error {
	stored := entry.SizeInArchive()
	switch entry.CompressionMethod {
	case CompressionNone:
		if entry.OriginalSize != stored {
			return fmt.Errorf("%w: %s: stored entry has %d bytes on disk but original size %d",
				ErrSizeMismatch, entry.Name, stored, entry.OriginalSize)
		}
	case CompressionDeflate:
		if entry.OriginalSize/MaxInflateRatio > stored {
			return fmt.Errorf("%w: %s: original size %d is impossible for %d deflate bytes",
				ErrSizeMismatch, entry.Name, entry.OriginalSize, stored)
		}
	}
	return nil
}

// inflateError maps decoder failures onto the package errors. Errors it does
// not recognise (write failures, archive read failures) pass through.
func inflateError(err error) error {
	var corrupt flate.CorruptInputError
	var internal flate.InternalError

	switch {
	case errors.Is(err, zlib.ErrDictionary):
		return fmt.Errorf("%w: %w", ErrDictionaryRequired, err)
	case errors.Is(err, zlib.ErrHeader),
		errors.Is(err, zlib.ErrChecksum),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF),
		errors.As(err, &corrupt):
		return fmt.Errorf("%w: %w", ErrCorruptStream, err)
	case errors.As(err, &internal):
		return &InternalError{Op: "inflate", Msg: "decoder failure", Err: err}
	default:
		return err
	}
}

// readErrorRecorder remembers the first non-EOF error from the archive so it
// can be told apart from decoding errors.
type readErrorRecorder struct {
	r   io.Reader
	err error
}

func (rr *readErrorRecorder) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	if err != nil && err != io.EOF && rr.err == nil {
		rr.err = err
	}
	return n, err
}

// fixedWriter fills a caller buffer and refuses to overflow it.
type fixedWriter struct {
	buf []byte
	n   int
}

func (fw *fixedWriter) Write(p []byte) (int, error) {
	n := copy(fw.buf[fw.n:], p)
	fw.n += n
	if n < len(p) {
		return n, fmt.Errorf("%w: content exceeds %d bytes", ErrSizeMismatch, len(fw.buf))
	}
	return n, nil
}

// limitedWriter forwards to w and refuses more than the entry's original size.
type limitedWriter struct {
	w         io.Writer
	remaining uint64
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	if uint64(len(p)) > lw.remaining {
		n, err := lw.w.Write(p[:lw.remaining])
		lw.remaining -= uint64(n)
		if err != nil {
			return n, err
		}
		return n, fmt.Errorf("%w: content exceeds original size", ErrSizeMismatch)
	}
	n, err := lw.w.Write(p)
	lw.remaining -= uint64(n)
	return n, err
}
