// pkg/datarchive/options.go
package datarchive

import (
	"github.com/klauspost/compress/zlib"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/creativeyann17/go-datarchive/internal/chunker"
)

// DefaultChunkSize bounds the buffers used to stream payloads.
const DefaultChunkSize = chunker.DefaultChunkSize

type config struct {
	logger    zerolog.Logger
	chunkSize int
	level     int
	onEntry   EntryCallback
}

func newConfig(opts []Option) config {
	c := config{
		logger:    log.Logger,
		chunkSize: DefaultChunkSize,
		level:     zlib.DefaultCompression,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Option configures a Reader or Writer.
type Option func(*config)

// WithLogger sets the logger used for diagnostics. Defaults to zerolog's global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithChunkSize sets the streaming buffer size. Writer and Reader chunk
// independently, so the values need not match.
func WithChunkSize(n int) Option {
	return func(c *config) {
		if n <= 0 {
			n = DefaultChunkSize
		}
		c.chunkSize = n
	}
}

// WithCompressionLevel sets the zlib level for deflate entries (-2..9).
// Out of range values select the default level. Ignored by Reader.
func WithCompressionLevel(level int) Option {
	return func(c *config) {
		if level < zlib.HuffmanOnly || level > zlib.BestCompression {
			level = zlib.DefaultCompression
		}
		c.level = level
	}
}

// WithEntryCallback registers a callback for per-entry write events. Ignored by Reader.
func WithEntryCallback(cb EntryCallback) Option {
	return func(c *config) {
		c.onEntry = cb
	}
}

type extractConfig struct {
	validateCRC bool
}

// ExtractOption configures a single extraction.
type ExtractOption func(*extractConfig)

// WithoutCRCValidation skips the checksum comparison. Decoding errors are
// still reported.
func WithoutCRCValidation() ExtractOption {
	return func(c *extractConfig) {
		c.validateCRC = false
	}
}

// WithCRCValidation toggles the checksum comparison (on by default).
func WithCRCValidation(validate bool) ExtractOption {
	return func(c *extractConfig) {
		c.validateCRC = validate
	}
}

func newExtractConfig(opts []ExtractOption) extractConfig {
	c := extractConfig{validateCRC: true}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
