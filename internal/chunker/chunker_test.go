// internal/chunker/chunker_test.go
package chunker

import (
	"bytes"
	"errors"
	"hash/crc32"
	"io"
	"testing"
)

func TestChunkerBasic(t *testing.T) {
	c := New(256)

	data := bytes.Repeat([]byte("Hello World! This is test data for chunking. "), 100)

	var reassembled []byte
	var sizes []int
	total, err := c.Stream(bytes.NewReader(data), func(chunk []byte) error {
		reassembled = append(reassembled, chunk...)
		sizes = append(sizes, len(chunk))
		return nil
	})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	if total != uint64(len(data)) {
		t.Errorf("Expected total %d, got %d", len(data), total)
	}
	if !bytes.Equal(reassembled, data) {
		t.Error("Reassembled data doesn't match original")
	}

	// Every chunk but the last is full
	for i, size := range sizes[:len(sizes)-1] {
		if size != 256 {
			t.Errorf("Chunk %d: expected 256 bytes, got %d", i, size)
		}
	}
}

func TestChunkerDefaultSize(t *testing.T) {
	data := make([]byte, DefaultChunkSize+10)

	for _, size := range []int{0, -5} {
		var sizes []int
		_, err := New(size).Stream(bytes.NewReader(data), func(chunk []byte) error {
			sizes = append(sizes, len(chunk))
			return nil
		})
		if err != nil {
			t.Fatalf("Stream failed: %v", err)
		}
		if len(sizes) != 2 || sizes[0] != DefaultChunkSize || sizes[1] != 10 {
			t.Errorf("New(%d): expected chunks [%d 10], got %v", size, DefaultChunkSize, sizes)
		}
	}
}

func TestChunkerEmptyData(t *testing.T) {
	c := New(1024)

	calls := 0
	total, err := c.Stream(bytes.NewReader(nil), func(chunk []byte) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if calls != 0 || total != 0 {
		t.Errorf("Expected no chunks for empty data, got %d calls / %d bytes", calls, total)
	}
}

// TestCallbackError verifies error handling in streaming mode
func TestCallbackError(t *testing.T) {
	data := bytes.Repeat([]byte("test data"), 10000)
	c := New(1024)

	processedCount := 0
	targetError := bytes.ErrTooLarge

	_, err := c.Stream(bytes.NewReader(data), func(chunk []byte) error {
		processedCount++
		if processedCount == 3 {
			return targetError
		}
		return nil
	})

	if err != targetError {
		t.Errorf("Expected error %v, got %v", targetError, err)
	}
	if processedCount != 3 {
		t.Errorf("Expected to process 3 chunks before error, processed %d", processedCount)
	}
}

type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestStreamReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	c := New(16)

	_, err := c.Stream(&failingReader{data: make([]byte, 40), err: boom}, func(chunk []byte) error {
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Expected %v, got %v", boom, err)
	}
}

func TestReaderSeesEveryChunk(t *testing.T) {
	data := bytes.Repeat([]byte("ABCDEFGH"), 1000)
	c := New(1000)

	var crc uint32
	chunks := 0
	r := c.Reader(bytes.NewReader(data), func(chunk []byte) {
		crc = crc32.Update(crc, crc32.IEEETable, chunk)
		chunks++
	})

	// Read only part of it, then drain the rest
	head := make([]byte, 1500)
	if _, err := io.ReadFull(r, head); err != nil {
		t.Fatalf("ReadFull failed: %v", err)
	}
	dropped, err := r.Drain()
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}

	if dropped != uint64(len(data)-1500) {
		t.Errorf("Expected %d dropped bytes, got %d", len(data)-1500, dropped)
	}
	if r.Total() != uint64(len(data)) {
		t.Errorf("Expected total %d, got %d", len(data), r.Total())
	}
	if chunks != 8 {
		t.Errorf("Expected 8 chunks, got %d", chunks)
	}
	if crc != crc32.ChecksumIEEE(data) {
		t.Error("Checksum over chunks doesn't match checksum over data")
	}
}

func TestReaderByteAndBulkReads(t *testing.T) {
	data := []byte("0123456789abcdef")
	r := New(5).Reader(bytes.NewReader(data), nil)

	b, err := r.ReadByte()
	if err != nil || b != '0' {
		t.Fatalf("ReadByte: got %q, %v", b, err)
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(rest) != "123456789abcdef" {
		t.Errorf("Unexpected remainder %q", rest)
	}

	if _, err := r.ReadByte(); err != io.EOF {
		t.Errorf("Expected io.EOF after end, got %v", err)
	}
}

func TestReaderPassesThroughErrors(t *testing.T) {
	boom := errors.New("bad sector")
	r := New(8).Reader(&failingReader{data: []byte("abc"), err: boom}, nil)

	_, err := io.ReadAll(r)
	if !errors.Is(err, boom) {
		t.Errorf("Expected %v, got %v", boom, err)
	}
}
