package cmd

import (
	"io"
	"os"
	"time"

	appclip "audio-clip-extractor/application/clip"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// progressSteps is the resolution of the rendered bar
const progressSteps = 1000

// ProgressRenderer displays extraction progress
type ProgressRenderer interface {
	Update(e appclip.Event)
	Finish()
}

// noProgress discards updates; used when output is not a terminal
type noProgress struct{}

func (noProgress) Update(appclip.Event) {}
func (noProgress) Finish()              {}

// barProgress renders a terminal progress bar
type barProgress struct {
	bar *progressbar.ProgressBar
}

func newBarProgress(w io.Writer, description string) *barProgress {
	return &barProgress{bar: progressbar.NewOptions(progressSteps,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)}
}

func (p *barProgress) Update(e appclip.Event) {
	_ = p.bar.Set(int(e.Fraction * progressSteps))
}

func (p *barProgress) Finish() {
	_ = p.bar.Finish()
}

// newProgressRenderer returns a bar on interactive terminals and a no-op otherwise
func newProgressRenderer(w io.Writer, description string) ProgressRenderer {
	if f, ok := w.(*os.File); ok && isTerminal(f.Fd()) {
		return newBarProgress(w, description)
	}
	return noProgress{}
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
