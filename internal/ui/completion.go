package ui

import (
	"fmt"

	"github.com/bamsammich/inofd/internal/engine"
)

// completionSummary builds the final summary line.
// Format: found 3 (hardlinks: 2, reflinks: 1)  entries 48,917  time 3.2s
func completionSummary(r *engine.Report) string {
	base := fmt.Sprintf("found %d (hardlinks: %d, reflinks: %d",
		r.Total(), r.Hardlink.Found, r.Reflink.Found)
	if r.Unknown > 0 {
		base += fmt.Sprintf(", unknown: %d", r.Unknown)
	}
	base += ")"

	base += fmt.Sprintf("  entries %s  time %s",
		FormatCount(r.Stats.EntriesSeen), FormatDuration(r.Elapsed))

	if errs := r.Stats.WalkErrors + r.Stats.CandidatesFailed; errs > 0 {
		base += fmt.Sprintf("  errors %d", errs)
	}
	return base
}
