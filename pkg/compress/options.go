// pkg/compress/options.go
package compress

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/creativeyann17/go-datarchive/pkg/datarchive"
)

// Options configures how files are packed into a container
type Options struct {
	// Input path (file or directory)
	// Ignored if Files is provided
	InputPath string

	// Files allows library users to provide a custom list of files/folders to pack
	// When set, InputPath is ignored
	// Directories keep their base name as the first name component
	Files []string

	// Output archive path
	// Default: "archive.dat"
	OutputPath string

	// Method is the compression method for every entry: "deflate" or "none"
	// Default: "deflate"
	Method string

	// Compression level for deflate (1=fastest, 9=smallest)
	// Default: 5
	Level int

	// ChunkSize is the streaming buffer size in bytes
	// Default: datarchive.DefaultChunkSize
	ChunkSize int

	// Overwrite replaces an existing output archive
	Overwrite bool

	// Append adds the files to an existing archive instead of creating one.
	// Entries whose name is already present are skipped.
	// A missing archive is created.
	Append bool

	// UseGitignore respects .gitignore files to exclude matching paths
	UseGitignore bool

	// Exclude lists extra gitignore-style patterns to leave out
	Exclude []string

	// Verbose lowers the logger to debug level
	Verbose bool

	// ProgressWriter receives progress bars when no callback is passed (optional)
	// Ignored when Quiet is set
	ProgressWriter io.Writer

	// Quiet suppresses progress bars and all log output except errors
	Quiet bool

	// Logger receives diagnostics from the archive writer
	// Default: zerolog's global logger
	Logger *zerolog.Logger

	method datarchive.CompressionMethod
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() *Options {
	return &Options{
		OutputPath: "archive.dat",
		Method:     "deflate",
		Level:      5,
		ChunkSize:  datarchive.DefaultChunkSize,
	}
}

// Validate checks if options are valid and fills in defaults
func (o *Options) Validate() error {
	if o.InputPath == "" && len(o.Files) == 0 {
		return ErrInputRequired
	}
	if o.OutputPath == "" {
		o.OutputPath = "archive.dat"
	}

	if o.Method == "" {
		o.Method = "deflate"
	}
	method, err := datarchive.ParseCompressionMethod(o.Method)
	if err != nil {
		return ErrInvalidMethod
	}
	o.method = method

	if o.Level == 0 {
		o.Level = 5
	}
	if o.Level < 1 || o.Level > 9 {
		return ErrInvalidLevel
	}

	if o.ChunkSize <= 0 {
		o.ChunkSize = datarchive.DefaultChunkSize
	}

	if o.Append && o.Overwrite {
		return ErrAppendOverwrite
	}
	if o.Quiet {
		o.Verbose = false
	}
	return nil
}
