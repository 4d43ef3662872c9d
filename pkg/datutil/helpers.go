// pkg/datutil/helpers.go
package datutil

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// OperationType names the operation a summary or progress display is for
type OperationType string

const (
	OperationCreate  OperationType = "create"
	OperationAppend  OperationType = "append"
	OperationExtract OperationType = "extract"
)

func (o OperationType) pastTense() string {
	switch o {
	case OperationCreate:
		return "packed"
	case OperationAppend:
		return "appended"
	case OperationExtract:
		return "extracted"
	default:
		return string(o)
	}
}

// ProgressEvent is the progress event shared by packing and extraction
type ProgressEvent struct {
	Type     EventType
	FilePath string
	Current  int64
	Total    int64
}

// EventType indicates the type of progress event
type EventType int

const (
	EventStart EventType = iota
	EventFileStart
	EventFileProgress
	EventFileComplete
	EventComplete
	EventError
)

// Result is implemented by the compress and decompress results
type Result interface {
	GetFilesTotal() int
	GetFilesProcessed() int
	GetErrors() []error
	GetOriginalSize() uint64
	GetStoredSize() uint64
	Success() bool
}

// ProgressBarCallback creates a callback that draws one bar per entry in
// flight plus an overall bar on stdout. Call Wait() on the returned container
// once the operation is done, or Shutdown() if it failed.
func ProgressBarCallback() (func(ProgressEvent), *mpb.Progress) {
	return ProgressBarCallbackTo(nil)
}

// ProgressBarCallbackTo is ProgressBarCallback drawing to out. A non-nil out
// is refreshed even when it is not a terminal.
func ProgressBarCallbackTo(out io.Writer) (func(ProgressEvent), *mpb.Progress) {
	opts := []mpb.ContainerOption{
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100 * time.Millisecond),
	}
	if out != nil {
		opts = append(opts, mpb.WithOutput(out), mpb.WithAutoRefresh())
	}
	progress := mpb.New(opts...)

	var overallBar *mpb.Bar
	var fileBars sync.Map // map[string]*mpb.Bar

	callback := func(event ProgressEvent) {
		switch event.Type {
		case EventStart:
			overallBar = progress.AddBar(event.Total,
				mpb.PrependDecorators(
					decor.Name("Entries", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
					decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.Percentage(decor.WC{W: 5}),
				),
				mpb.BarPriority(1000),
			)

		case EventFileStart:
			// Empty entries complete instantly
			if event.Total == 0 {
				return
			}
			bar := progress.AddBar(event.Total,
				mpb.PrependDecorators(
					decor.Name(TruncateLeft(event.FilePath, 30), decor.WC{C: decor.DindentRight | decor.DextraSpace, W: 32}),
				),
				mpb.AppendDecorators(
					decor.CountersKibiByte("% .1f / % .1f", decor.WC{W: 18}),
					decor.Percentage(decor.WC{W: 5}),
				),
				mpb.BarRemoveOnComplete(),
			)
			fileBars.Store(event.FilePath, bar)

		case EventFileProgress:
			if bar, ok := fileBars.Load(event.FilePath); ok {
				bar.(*mpb.Bar).SetCurrent(event.Current)
			}

		case EventFileComplete, EventError:
			if bar, ok := fileBars.LoadAndDelete(event.FilePath); ok {
				b := bar.(*mpb.Bar)
				if event.Type == EventFileComplete && event.Total > 0 {
					b.SetCurrent(event.Total)
				}
				// No-op once complete; drops bars whose total was never reached
				b.Abort(true)
			}
			if overallBar != nil {
				overallBar.Increment()
			}

		case EventComplete:
			if overallBar != nil && !overallBar.Completed() {
				overallBar.Abort(false)
			}
		}
	}

	return callback, progress
}

// Logger returns base, or zerolog's global logger when base is nil, with its
// level adjusted for the verbose and quiet switches. Quiet keeps errors only;
// without verbose, debug output is dropped.
func Logger(base *zerolog.Logger, verbose, quiet bool) zerolog.Logger {
	logger := log.Logger
	if base != nil {
		logger = *base
	}

	switch {
	case quiet:
		if logger.GetLevel() < zerolog.ErrorLevel {
			logger = logger.Level(zerolog.ErrorLevel)
		}
	case verbose:
		logger = logger.Level(zerolog.DebugLevel)
	default:
		if logger.GetLevel() < zerolog.InfoLevel {
			logger = logger.Level(zerolog.InfoLevel)
		}
	}
	return logger
}

// FormatSummary formats a result into a human-readable summary
func FormatSummary(result Result, operation OperationType) string {
	var sb strings.Builder

	errs := result.GetErrors()
	if len(errs) > 0 {
		fmt.Fprintf(&sb, "Completed with %d errors:\n", len(errs))
		for _, e := range errs {
			fmt.Fprintf(&sb, "  - %v\n", e)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Summary:\n")
	fmt.Fprintf(&sb, "  Entries %-9s %d / %d\n", operation.pastTense()+":", result.GetFilesProcessed(), result.GetFilesTotal())

	switch operation {
	case OperationExtract:
		fmt.Fprintf(&sb, "  Stored size:     %s\n", FormatSize(result.GetStoredSize()))
		fmt.Fprintf(&sb, "  Extracted size:  %s\n", FormatSize(result.GetOriginalSize()))
	default:
		fmt.Fprintf(&sb, "  Original size:   %s\n", FormatSize(result.GetOriginalSize()))
		fmt.Fprintf(&sb, "  Stored size:     %s\n", FormatSize(result.GetStoredSize()))
		if result.GetOriginalSize() > 0 {
			ratio := float64(result.GetStoredSize()) / float64(result.GetOriginalSize()) * 100
			fmt.Fprintf(&sb, "  Ratio:           %.1f%%\n", ratio)
		}
	}

	return sb.String()
}

// FormatSize formats bytes into human-readable string
func FormatSize(bytes uint64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
		TB = 1024 * GB
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// TruncateLeft shortens a path from the left to fit maxLen, keeping the file name
func TruncateLeft(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}

	filename := filepath.Base(path)
	if len(filename) >= maxLen-3 {
		return "..." + filename[len(filename)-(maxLen-3):]
	}

	return "..." + path[len(path)-(maxLen-3):]
}
