// pkg/decompress/progress.go
package decompress

import (
	"io"

	"github.com/vbauerster/mpb/v8"

	"github.com/creativeyann17/go-datarchive/pkg/datutil"
)

// ProgressBarCallback creates a progress callback that displays multi-progress bars
// Returns the callback function and the progress container (call Wait() after extraction)
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

// FormatSummary formats an extraction result into a human-readable summary string
func FormatSummary(result *Result) string {
	return datutil.FormatSummary(result, datutil.OperationExtract)
}
