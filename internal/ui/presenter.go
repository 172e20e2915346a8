package ui

import (
	"io"

	"github.com/bamsammich/inofd/internal/engine"
	"github.com/bamsammich/inofd/internal/event"
	"github.com/bamsammich/inofd/internal/stats"
)

// Presenter shows a search while it runs and prints its report.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan event.Event) error
	// Report writes the final result.
	Report(r *engine.Report) error
}

// Config configures a Presenter.
type Config struct {
	Writer     io.Writer
	ErrWriter  io.Writer
	Stats      *stats.Collector
	Width      int
	IsTTY      bool
	Quiet      bool
	NoProgress bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{w: cfg.Writer}
	}
	if !cfg.IsTTY || cfg.NoProgress {
		return &plainPresenter{
			w:     cfg.Writer,
			errW:  cfg.ErrWriter,
			stats: cfg.Stats,
		}
	}
	return &progressPresenter{
		w:     cfg.Writer,
		errW:  cfg.ErrWriter, // progress line renders to stderr (the TTY)
		stats: cfg.Stats,
		width: cfg.Width,
	}
}
