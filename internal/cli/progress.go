package cli

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Progress renders batch progress as a terminal bar.
type Progress struct {
	bar    *progressbar.ProgressBar
	writer io.Writer
	quiet  bool
}

// NewProgress creates a progress reporter writing to w, or stderr when w is
// nil. A quiet reporter draws nothing.
func NewProgress(w io.Writer, quiet bool) *Progress {
	if w == nil {
		w = os.Stderr
	}
	return &Progress{writer: w, quiet: quiet}
}

// Start begins a new bar.
func (p *Progress) Start(total int, description string) {
	if p.quiet || total == 0 {
		p.bar = nil
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// Increment advances the bar by one item.
func (p *Progress) Increment() {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// Finish completes the bar.
func (p *Progress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}
