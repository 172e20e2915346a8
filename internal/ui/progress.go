package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/inofd/internal/engine"
	"github.com/bamsammich/inofd/internal/event"
	"github.com/bamsammich/inofd/internal/stats"
)

// ANSI escape sequences.
const (
	ansiDim       = "\033[2m"
	ansiReset     = "\033[0m"
	ansiClearLine = "\r\033[K"
)

const progressMinInterval = 50 * time.Millisecond // don't redraw faster than this

// progressPresenter keeps a single status line on the terminal that is
// redrawn in place while the walk runs, and erased before the report.
type progressPresenter struct {
	w     io.Writer
	errW  io.Writer
	stats *stats.Collector
	width int

	drawn     bool
	hardlinks int
	reflinks  int
	lastDraw  time.Time
}

func (p *progressPresenter) Run(events <-chan event.Event) error {
	// Fire the first tick quickly so the rate has data, then once a second.
	secTicker := time.NewTicker(250 * time.Millisecond)
	defer secTicker.Stop()
	firstTickDone := false

	redrawTicker := time.NewTicker(100 * time.Millisecond)
	defer redrawTicker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clear()
				return nil
			}
			p.handleEvent(ev)

		case <-redrawTicker.C:
			p.draw()

		case <-secTicker.C:
			p.stats.Tick()
			if !firstTickDone {
				firstTickDone = true
				secTicker.Reset(time.Second)
			}
		}
	}
}

func (p *progressPresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.MatchFound:
		switch ev.Relation {
		case engine.Hardlink.String():
			p.hardlinks++
		case engine.Reflink.String():
			p.reflinks++
		}
		p.maybeDraw()
	case event.VerifyStarted:
		p.clear()
		fmt.Fprintf(p.errW, "%sverifying reflink matches...%s\n", ansiDim, ansiReset)
	}
}

func (p *progressPresenter) maybeDraw() {
	if time.Since(p.lastDraw) < progressMinInterval {
		return
	}
	p.draw()
}

func (p *progressPresenter) draw() {
	snap := p.stats.Snapshot()
	line := fmt.Sprintf("searching  %s dirs  %s entries  %s  hardlinks %d  reflinks %d  %s",
		FormatCount(snap.DirsRead),
		FormatCount(snap.EntriesSeen),
		FormatRate(p.stats.RollingEntriesPerSec(5)),
		p.hardlinks,
		p.reflinks,
		FormatDuration(snap.Elapsed),
	)
	fmt.Fprint(p.errW, ansiClearLine+fitWidth(line, p.width-1))
	p.drawn = true
	p.lastDraw = time.Now()
}

func (p *progressPresenter) clear() {
	if !p.drawn {
		return
	}
	fmt.Fprint(p.errW, ansiClearLine)
	p.drawn = false
}

func (p *progressPresenter) Report(r *engine.Report) error {
	return writeReport(p.w, r)
}
