// pkg/datutil/io.go
package datutil

import (
	"io"
	"path"
	"strings"
)

// ProgressWriter wraps an io.Writer with progress tracking
type ProgressWriter struct {
	Writer  io.Writer
	OnWrite func(n int)
}

func (pw *ProgressWriter) Write(p []byte) (n int, err error) {
	n, err = pw.Writer.Write(p)
	if n > 0 && pw.OnWrite != nil {
		pw.OnWrite(n)
	}
	return n, err
}

// CountingWriter wraps an io.Writer and counts bytes written
type CountingWriter struct {
	Writer io.Writer
	Count  uint64
}

func (cw *CountingWriter) Write(p []byte) (n int, err error) {
	n, err = cw.Writer.Write(p)
	cw.Count += uint64(n)
	return n, err
}

// NameTracker detects entry names that collide once normalised
type NameTracker struct {
	seen map[string]string
}

func NewNameTracker() *NameTracker {
	return &NameTracker{
		seen: make(map[string]string),
	}
}

// Claim registers name for source. If the name is already taken it returns
// false and the source that holds it.
func (nt *NameTracker) Claim(name, source string) (string, bool) {
	if owner, taken := nt.seen[name]; taken {
		return owner, false
	}
	nt.seen[name] = source
	return "", true
}

// EntryName turns a relative filesystem path into an entry name: forward
// slashes, no leading "./" or "/".
func EntryName(relPath string) string {
	name := path.Clean(strings.ReplaceAll(relPath, "\\", "/"))
	name = strings.TrimLeft(name, "/")
	if name == "." {
		return ""
	}
	return name
}
