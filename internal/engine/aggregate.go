package engine

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/bamsammich/inofd/internal/platform"
	"github.com/bamsammich/inofd/internal/stats"
)

// Relation is how a matched path relates to the target.
type Relation int

const (
	Unknown Relation = iota
	Hardlink
	Reflink
)

func (r Relation) String() string {
	switch r {
	case Hardlink:
		return "HARDLINK"
	case Reflink:
		return "REFLINK"
	default:
		return "?"
	}
}

// MatchRecord is one reported path.
type MatchRecord struct {
	Path     string
	Relation Relation
}

// VerifyFunc re-checks a tentative record just before it is reported. It
// returns the record to report, or false to drop it.
type VerifyFunc func(MatchRecord) (MatchRecord, bool)

// Aggregate merges both stages' results into one list sorted by path. A
// path found by both stages is a hardlink. verify may be nil.
func Aggregate(hardlinks, reflinks []string, verify VerifyFunc) []MatchRecord {
	relations := make(map[string]Relation, len(hardlinks)+len(reflinks))
	for _, path := range reflinks {
		relations[path] = Reflink
	}
	for _, path := range hardlinks {
		relations[path] = Hardlink
	}

	records := make([]MatchRecord, 0, len(relations))
	for path, rel := range relations {
		rec := MatchRecord{Path: path, Relation: rel}
		if verify != nil {
			var ok bool
			if rec, ok = verify(rec); !ok {
				continue
			}
		}
		records = append(records, rec)
	}

	slices.SortFunc(records, func(a, b MatchRecord) int {
		return strings.Compare(a.Path, b.Path)
	})
	return records
}

// Restat returns a verifier that lstats each path again. Paths that
// vanished or moved to another device are dropped; a path still naming the
// target inode is a hardlink whatever stage found it; a hardlink whose inode
// changed becomes Unknown.
func Restat(fsys FS, target platform.FileIdentity, collector *stats.Collector) VerifyFunc {
	return func(rec MatchRecord) (MatchRecord, bool) {
		id, err := fsys.Lstat(rec.Path)
		switch {
		case err != nil && platform.KindOf(err) == platform.Vanished:
			collector.AddVanished(1)
			slog.Debug("match vanished", "path", rec.Path)
			return rec, false
		case err != nil:
			slog.Warn("cannot re-check match", "path", rec.Path, "error", err)
			rec.Relation = Unknown
		case id.Dev != target.Dev:
			slog.Debug("match moved off device", "path", rec.Path)
			return rec, false
		case id.SameInode(target):
			rec.Relation = Hardlink
		case rec.Relation != Reflink:
			rec.Relation = Unknown
		}
		return rec, true
	}
}

// Count tallies records by relation.
func Count(records []MatchRecord) (hardlinks, reflinks, unknown int) {
	for _, rec := range records {
		switch rec.Relation {
		case Hardlink:
			hardlinks++
		case Reflink:
			reflinks++
		default:
			unknown++
		}
	}
	return hardlinks, reflinks, unknown
}
