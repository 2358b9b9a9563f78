package main

import (
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// progressBar adapts a terminal progress bar to the walker's Progress hooks.
type progressBar struct {
	out io.Writer

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func newProgressBar(out io.Writer) *progressBar {
	return &progressBar{out: out}
}

func (p *progressBar) Begin(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("Sorting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progressBar) Step() {
	p.mu.Lock()
	bar := p.bar
	p.mu.Unlock()
	if bar != nil {
		_ = bar.Add(1)
	}
}

func (p *progressBar) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}
