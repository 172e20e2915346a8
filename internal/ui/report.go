package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/bamsammich/inofd/internal/engine"
)

// writeReport renders the full search report:
//
//	target  /data/disk.img
//	        inode 1234  device 64768  size 1.2 GiB  links 3  btrfs  extents 12 (4 shared)
//	hardlink search  ran
//	reflink search   skipped: inline data
//
//	[HARDLINK] /data/a
//	[REFLINK]  /data/b
//
//	found 2 (hardlinks: 1, reflinks: 1)  entries 12,345  time 1.2s
func writeReport(w io.Writer, r *engine.Report) error {
	var b strings.Builder

	t := r.Target
	fmt.Fprintf(&b, "target  %s\n", t.Path)
	fmt.Fprintf(&b, "        inode %d  device %d  size %s  links %d  %s",
		t.Identity.Ino, t.Identity.Dev, FormatBytes(t.Identity.Size), t.Identity.Nlink, t.Filesystem.Name)
	if t.Extents > 0 {
		fmt.Fprintf(&b, "  extents %d (%d shared)", t.Extents, t.Shared)
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "hardlink search  %s\n", stageLine(r.Hardlink))
	fmt.Fprintf(&b, "reflink search   %s\n", stageLine(r.Reflink))

	if len(r.Matches) > 0 {
		b.WriteByte('\n')
		for _, m := range r.Matches {
			fmt.Fprintf(&b, "%-10s %s\n", "["+m.Relation.String()+"]", m.Path)
		}
	}

	b.WriteByte('\n')
	b.WriteString(completionSummary(r))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func stageLine(s engine.StageReport) string {
	if s.Reason == "" {
		return s.Status.String()
	}
	return s.Status.String() + ": " + s.Reason
}
