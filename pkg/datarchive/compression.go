// pkg/datarchive/compression.go
package datarchive

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/klauspost/compress/zlib"

	"github.com/creativeyann17/go-datarchive/internal/chunker"
)

// writeEntry streams the source at path into f at its current position and
// fills in the entry's CRC and original size. It returns the payload size.
// Container failures are returned as *containerError; anything else is a
// source failure.
func (w *Writer) writeEntry(f *os.File, path string, entry *TableEntry) (uint64, error) {
	src, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	var total uint64
	if info, err := src.Stat(); err == nil {
		total = uint64(info.Size())
	}

	cw := &crcWriter{w: f}
	var read uint64
	progress := func(n int) {
		read += uint64(n)
		w.notify(EntryEvent{Type: EventEntryProgress, Path: path, Entry: *entry, Current: read, Total: total})
	}

	switch entry.CompressionMethod {
	case CompressionNone:
		entry.OriginalSize, err = w.writeStored(src, cw, progress)
	case CompressionDeflate:
		entry.OriginalSize, err = w.writeDeflate(src, cw, progress)
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownMethod, entry.CompressionMethod)
	}

	// The container failure takes precedence over whatever the encoder made of it
	if cw.err != nil {
		return cw.n, cw.err
	}
	if err != nil {
		return cw.n, err
	}

	entry.CRC32 = cw.crc
	return cw.n, nil
}

func (w *Writer) writeStored(src io.Reader, cw *crcWriter, progress func(int)) (uint64, error) {
	return chunker.New(w.cfg.chunkSize).Stream(src, func(chunk []byte) error {
		progress(len(chunk))
		_, err := cw.Write(chunk)
		return err
	})
}

func (w *Writer) writeDeflate(src io.Reader, cw *crcWriter, progress func(int)) (uint64, error) {
	zw, err := zlib.NewWriterLevel(cw, w.cfg.level)
	if err != nil {
		return 0, &InternalError{Op: "deflate", Msg: "create encoder", Err: err}
	}

	total, err := chunker.New(w.cfg.chunkSize).Stream(src, func(chunk []byte) error {
		progress(len(chunk))
		_, err := zw.Write(chunk)
		return err
	})
	if err != nil {
		return total, err
	}

	// Close flushes the final block and the stream trailer
	if err := zw.Close(); err != nil {
		if cw.err != nil {
			return total, cw.err
		}
		return total, &InternalError{Op: "deflate", Msg: "finish stream", Err: err}
	}
	return total, nil
}

// crcWriter checksums what reaches the container and counts it. Short writes
// are failures.
type crcWriter struct {
	w   io.Writer
	crc uint32
	n   uint64
	err error
}

func (cw *crcWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}

	n, err := cw.w.Write(p)
	cw.crc = crc32.Update(cw.crc, crc32.IEEETable, p[:n])
	cw.n += uint64(n)

	if err == nil && n != len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		cw.err = &containerError{err: err}
		return n, cw.err
	}
	return n, nil
}
