package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/inofd/internal/engine"
	"github.com/bamsammich/inofd/internal/event"
)

// quietPresenter prints only the matching paths, one per line, so the
// output can be piped into other tools.
type quietPresenter struct {
	w io.Writer
}

func (p *quietPresenter) Run(events <-chan event.Event) error {
	for range events {
	}
	return nil
}

func (p *quietPresenter) Report(r *engine.Report) error {
	for _, m := range r.Matches {
		if _, err := fmt.Fprintln(p.w, m.Path); err != nil {
			return err
		}
	}
	return nil
}
