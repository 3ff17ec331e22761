// Package progress draws discovery and analysis feedback for interactive scans.
package progress

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Tracker is a single progress line. Tick may be called from any goroutine.
type Tracker struct {
	bar *progressbar.ProgressBar
}

// Spinner starts an indeterminate tracker, used while the file count is
// still unknown.
func Spinner(w io.Writer, label string) *Tracker {
	return &Tracker{bar: progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)}
}

// Bar starts a tracker counting up to total files.
func Bar(w io.Writer, label string, total int) *Tracker {
	return &Tracker{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)}
}

func (t *Tracker) Tick() {
	_ = t.bar.Add(1)
}

// Current is the number of ticks so far.
func (t *Tracker) Current() int64 {
	return t.bar.State().CurrentNum
}

// Done finishes the tracker and erases its line.
func (t *Tracker) Done() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}
