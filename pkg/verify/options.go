// pkg/verify/options.go
package verify

import "github.com/rs/zerolog"

// Options configures the verify operation
type Options struct {
	// InputPath is the archive file to verify (required)
	InputPath string

	// VerifyData extracts every entry, checking its CRC-32 and size and
	// computing a BLAKE3 digest of the content
	// When false, only structural validation is performed (faster)
	// Default: false
	VerifyData bool

	// ChunkSize is the streaming buffer size used when VerifyData is set (0 = default)
	ChunkSize int

	// Verbose lowers the logger to debug level and logs every checked entry
	Verbose bool

	// Quiet suppresses all log output except errors
	Quiet bool

	// Logger receives diagnostics from the archive reader
	// Default: zerolog's global logger
	Logger *zerolog.Logger
}

// Validate checks if options are valid
func (o *Options) Validate() error {
	if o.InputPath == "" {
		return ErrInputRequired
	}
	if o.Quiet {
		o.Verbose = false
	}
	return nil
}
