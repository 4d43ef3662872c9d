// internal/chunker/chunker.go
package chunker

import (
	"errors"
	"io"
)

// DefaultChunkSize bounds the working buffer used to stream payloads
const DefaultChunkSize = 256 * 1024

// Chunker streams data in fixed-size chunks through a single reusable buffer,
// so arbitrarily large inputs are processed with constant memory.
type Chunker struct {
	chunkSize int
}

// New creates a new chunker with the specified chunk size.
// A non-positive size selects DefaultChunkSize.
func New(chunkSize int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Chunker{
		chunkSize: chunkSize,
	}
}

// Stream reads r in chunks of at most the configured size and calls fn for each one.
// Only the last chunk may be short. The slice passed to fn is reused by the
// next call and must not be retained. Returns the total number of bytes read.
func (c *Chunker) Stream(r io.Reader, fn func(chunk []byte) error) (uint64, error) {
	buffer := make([]byte, c.chunkSize)
	var total uint64

	for {
		n, err := io.ReadFull(r, buffer)
		if n > 0 {
			total += uint64(n)
			if ferr := fn(buffer[:n]); ferr != nil {
				return total, ferr
			}
		}

		// Handle end of stream
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return total, nil
		}
		// Any other error is a real failure
		if err != nil {
			return total, err
		}
	}
}

// Reader returns a reader that pulls from r one whole chunk at a time and calls
// onChunk with each chunk as it is pulled, before any of it is handed out.
// Errors other than end of stream are passed through unchanged.
func (c *Chunker) Reader(r io.Reader, onChunk func(chunk []byte)) *Reader {
	return &Reader{
		r:       r,
		buf:     make([]byte, c.chunkSize),
		onChunk: onChunk,
	}
}

// Reader is the chunk-pulling reader returned by Chunker.Reader. It also
// implements io.ByteReader so decompressors consume it without read-ahead
// buffering of their own.
type Reader struct {
	r       io.Reader
	buf     []byte
	pending []byte
	onChunk func([]byte)
	err     error
	total   uint64
}

func (cr *Reader) fill() error {
	if len(cr.pending) > 0 {
		return nil
	}
	if cr.err != nil {
		return cr.err
	}

	n, err := io.ReadFull(cr.r, cr.buf)
	if n > 0 {
		cr.pending = cr.buf[:n]
		cr.total += uint64(n)
		if cr.onChunk != nil {
			cr.onChunk(cr.pending)
		}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	cr.err = err

	if n == 0 {
		return err
	}
	return nil
}

// Read implements io.Reader
func (cr *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := cr.fill(); err != nil {
		return 0, err
	}
	n := copy(p, cr.pending)
	cr.pending = cr.pending[n:]
	return n, nil
}

// ReadByte implements io.ByteReader
func (cr *Reader) ReadByte() (byte, error) {
	if err := cr.fill(); err != nil {
		return 0, err
	}
	b := cr.pending[0]
	cr.pending = cr.pending[1:]
	return b, nil
}

// Drain pulls every remaining chunk from the underlying reader (so onChunk sees
// all of it) and discards it. Returns the number of unread bytes that were
// dropped, including any pulled but not yet handed out.
func (cr *Reader) Drain() (uint64, error) {
	dropped := uint64(len(cr.pending))
	cr.pending = nil
	for {
		if err := cr.fill(); err != nil {
			if err == io.EOF {
				return dropped, nil
			}
			return dropped, err
		}
		dropped += uint64(len(cr.pending))
		cr.pending = nil
	}
}

// Total returns how many bytes have been pulled from the underlying reader
func (cr *Reader) Total() uint64 {
	return cr.total
}
