// pkg/decompress/options.go
package decompress

import (
	"io"

	"github.com/rs/zerolog"
)

// Options configures the extraction behavior
type Options struct {
	// Input archive path
	InputPath string

	// Output directory path
	// Default: "."
	OutputPath string

	// Names restricts extraction to these entries (all entries when empty)
	Names []string

	// SkipCRC extracts without comparing checksums
	SkipCRC bool

	// ChunkSize is the streaming buffer size in bytes (0 = default)
	ChunkSize int

	// Verbose lowers the logger to debug level
	Verbose bool

	// ProgressWriter receives progress bars when no callback is passed (optional)
	// Ignored when Quiet is set
	ProgressWriter io.Writer

	// Quiet suppresses progress bars and all log output except errors
	Quiet bool

	// Overwrite existing files without prompting
	Overwrite bool

	// Logger receives diagnostics from the archive reader
	// Default: zerolog's global logger
	Logger *zerolog.Logger
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() *Options {
	return &Options{
		OutputPath: ".",
	}
}

// Validate checks if options are valid
func (o *Options) Validate() error {
	if o.InputPath == "" {
		return ErrInputRequired
	}
	if o.OutputPath == "" {
		o.OutputPath = "."
	}
	if o.Quiet {
		o.Verbose = false
	}
	return nil
}
