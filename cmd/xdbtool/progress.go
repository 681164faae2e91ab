package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/meigma/xdb"
)

// progressBar renders xdb progress events. The bar is created lazily once
// the first event shows whether a byte total is known.
type progressBar struct {
	desc string
	bar  *progressbar.ProgressBar
	unit string
}

func newProgressBar(desc string) *progressBar {
	return &progressBar{desc: desc}
}

func (p *progressBar) update(e xdb.ProgressEvent) {
	if p.bar == nil {
		switch {
		case e.BytesTotal > 0:
			p.bar = progressbar.DefaultBytes(int64(e.BytesTotal), p.desc) //nolint:gosec // bounded by archive size
			p.unit = "bytes"
		case e.EntriesTotal > 0:
			p.bar = progressbar.Default(int64(e.EntriesTotal), p.desc)
			p.unit = "entries"
		default:
			p.bar = progressbar.DefaultBytes(-1, p.desc)
			p.unit = "bytes"
		}
	}
	if p.unit == "entries" {
		_ = p.bar.Set(e.EntriesDone) //nolint:errcheck // rendering only
		return
	}
	_ = p.bar.Set64(int64(e.BytesDone)) //nolint:errcheck,gosec // rendering only
}

// finish completes the bar and moves to a fresh line.
func (p *progressBar) finish() {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Finish() //nolint:errcheck // rendering only
	fmt.Fprintln(os.Stderr)
}

// progressFunc returns the callback for p, or nil when p is nil.
func (p *progressBar) progressFunc() xdb.ProgressFunc {
	if p == nil {
		return nil
	}
	return p.update
}
