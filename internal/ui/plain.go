package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/inofd/internal/engine"
	"github.com/bamsammich/inofd/internal/event"
	"github.com/bamsammich/inofd/internal/stats"
)

// plainPresenter writes the full report to stdout and, on long searches,
// a periodic progress line to stderr.
type plainPresenter struct {
	w     io.Writer
	errW  io.Writer
	stats *stats.Collector
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.stats.Tick()
			p.printProgress()
		}
	}
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	if ev.Type == event.VerifyStarted {
		fmt.Fprintln(p.errW, "verifying reflink matches...")
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	fmt.Fprintf(p.errW, "progress: %s dirs  %s entries  %s  %d matches\n",
		FormatCount(snap.DirsRead),
		FormatCount(snap.EntriesSeen),
		FormatRate(p.stats.RollingEntriesPerSec(5)),
		snap.HardlinksFound+snap.ReflinksFound,
	)
}

func (p *plainPresenter) Report(r *engine.Report) error {
	return writeReport(p.w, r)
}
