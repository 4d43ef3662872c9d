// pkg/compress/progress.go
package compress

import (
	"fmt"
	"io"
	"strings"

	"github.com/vbauerster/mpb/v8"

	"github.com/creativeyann17/go-datarchive/pkg/datutil"
)

// ProgressBarCallback creates a progress callback that displays multi-progress bars
// Returns the callback function and the progress container (call Wait() after compression)
func ProgressBarCallback() (ProgressCallback, *mpb.Progress) {
	return progressBarsTo(nil)
}

func progressBarsTo(out io.Writer) (ProgressCallback, *mpb.Progress) {
	genericCb, progress := datutil.ProgressBarCallbackTo(out)

	callback := func(event ProgressEvent) {
		genericCb(datutil.ProgressEvent{
			Type:     datutil.EventType(event.Type),
			FilePath: event.FilePath,
			Current:  event.Current,
			Total:    event.Total,
		})
	}

	return callback, progress
}

// FormatSummary formats a pack result into a human-readable summary string
func FormatSummary(result *Result) string {
	var sb strings.Builder

	op := datutil.OperationCreate
	if result.Appended {
		op = datutil.OperationAppend
	}
	sb.WriteString(datutil.FormatSummary(result, op))
	fmt.Fprintf(&sb, "  Archive size:    %s\n", datutil.FormatSize(result.ArchiveSize))

	if len(result.Skipped) > 0 {
		fmt.Fprintf(&sb, "\nSkipped %d entries already in the archive:\n", len(result.Skipped))
		for _, name := range result.Skipped {
			fmt.Fprintf(&sb, "  - %s\n", name)
		}
	}

	return sb.String()
}
