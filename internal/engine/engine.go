package engine

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bamsammich/inofd/internal/event"
	"github.com/bamsammich/inofd/internal/filter"
	"github.com/bamsammich/inofd/internal/platform"
	"github.com/bamsammich/inofd/internal/stats"
)

// Config describes one search.
type Config struct {
	Target         string
	Root           string
	DisableReflink bool
	ForceHardlink  bool
	SkipHidden     bool
	Workers        int
	Filter         *filter.Chain
	Verify         bool

	FS     FS                 // nil means OSFS
	Hash   HashFunc           // nil means HashFile
	Stats  *stats.Collector   // nil means a private collector
	Events chan<- event.Event // optional; sends never block
}

// StageStatus is the outcome of one matcher stage.
type StageStatus int

const (
	StageRan StageStatus = iota
	StageSkipped
	StageFailed
)

func (s StageStatus) String() string {
	switch s {
	case StageRan:
		return "ran"
	case StageSkipped:
		return "skipped"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("StageStatus(%d)", int(s))
	}
}

// StageReport describes one matcher stage. Reason is set when the stage
// was skipped or failed; Found counts reported records of its relation.
type StageReport struct {
	Status StageStatus
	Reason string
	Found  int
}

// TargetInfo summarizes the resolved target.
type TargetInfo struct {
	Path       string
	Identity   platform.FileIdentity
	Filesystem platform.Filesystem
	Extents    int
	Shared     int // extents the kernel flags as shared with another file
}

// Report is the outcome of a completed search.
type Report struct {
	Target   TargetInfo
	Hardlink StageReport
	Reflink  StageReport
	Matches  []MatchRecord
	Unknown  int
	Stats    stats.Snapshot
	Elapsed  time.Duration
}

// Total returns the number of reported matches.
func (r *Report) Total() int { return len(r.Matches) }

// Run resolves the target, walks the search root once and feeds every
// retained entry to the enabled matchers. Only failures to read the
// target, its filesystem type or the search root are returned as errors;
// everything else is logged, counted and absorbed.
func Run(cfg Config) (*Report, error) {
	start := time.Now()
	fsys := cfg.FS
	if fsys == nil {
		fsys = OSFS{}
	}
	hash := cfg.Hash
	if hash == nil {
		hash = HashFile
	}
	collector := cfg.Stats
	if collector == nil {
		collector = stats.NewCollector()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	targetPath, err := filepath.Abs(cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("resolve target: %w", err)
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve search root: %w", err)
	}

	target, err := fsys.Stat(targetPath)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	if target.IsDir() {
		return nil, fmt.Errorf("target %s is a directory", targetPath)
	}
	fsInfo, err := fsys.ProbeFilesystem(targetPath)
	if err != nil {
		return nil, fmt.Errorf("target filesystem: %w", err)
	}
	rootID, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("search root: %w", err)
	}
	if !rootID.IsDir() {
		return nil, fmt.Errorf("search root %s is not a directory", root)
	}

	// Walker paths start at the resolved root; the target is excluded from
	// its own hardlinks under its resolved name.
	realTarget, err := fsys.EvalSymlinks(targetPath)
	if err != nil {
		return nil, fmt.Errorf("resolve target: %w", err)
	}
	if root, err = fsys.EvalSymlinks(root); err != nil {
		return nil, fmt.Errorf("resolve search root: %w", err)
	}

	report := &Report{
		Target: TargetInfo{Path: targetPath, Identity: target, Filesystem: fsInfo},
	}

	var hardlinks *HardlinkMatcher
	if target.Nlink > 1 || cfg.ForceHardlink {
		hardlinks = NewHardlinkMatcher(realTarget, target)
	} else {
		report.Hardlink = StageReport{Status: StageSkipped, Reason: "link count is 1"}
	}

	var reflinks *ReflinkMatcher
	report.Reflink, reflinks = planReflink(cfg, fsys, targetPath, target, fsInfo, &report.Target)

	s := &searcher{fs: fsys, workers: workers, stats: collector, events: cfg.Events}
	if hardlinks != nil || reflinks != nil {
		emitEvent(cfg.Events, event.Event{Type: event.SearchStarted, Path: root})
		scope := Scope{Root: root, Device: target.Dev, SkipHidden: cfg.SkipHidden}
		s.search(scope, cfg.Filter, hardlinks, reflinks)
	}

	var hardlinkPaths, reflinkPaths []string
	if hardlinks != nil {
		hardlinkPaths = hardlinks.Paths()
	}
	if reflinks != nil {
		reflinkPaths = reflinks.Paths()
	}
	report.Matches = Aggregate(hardlinkPaths, reflinkPaths, Restat(fsys, target, collector))
	if cfg.Verify && reflinks != nil {
		emitEvent(cfg.Events, event.Event{Type: event.VerifyStarted, Path: targetPath})
		s.confirmContent(targetPath, report.Matches, hash)
	}

	report.Hardlink.Found, report.Reflink.Found, report.Unknown = Count(report.Matches)
	report.Stats = collector.Snapshot()
	report.Elapsed = time.Since(start)
	emitEvent(cfg.Events, event.Event{Type: event.SearchComplete, Path: root})
	return report, nil
}

// planReflink decides whether the reflink stage runs and, if so, builds its
// matcher from the target's extent map.
func planReflink(
	cfg Config, fsys FS, targetPath string, target platform.FileIdentity,
	fsInfo platform.Filesystem, info *TargetInfo,
) (StageReport, *ReflinkMatcher) {
	switch {
	case cfg.DisableReflink:
		return StageReport{Status: StageSkipped, Reason: "disabled"}, nil
	case !fsInfo.CopyOnWrite():
		return StageReport{Status: StageSkipped, Reason: fmt.Sprintf("%s is not copy-on-write", fsInfo.Name)}, nil
	case !target.IsRegular():
		return StageReport{Status: StageSkipped, Reason: "not a regular file"}, nil
	}

	extents, err := fsys.ReadExtents(targetPath)
	if err != nil {
		slog.Warn("cannot read target extents", "path", targetPath, "kind", platform.KindOf(err).String(), "error", err)
		return StageReport{Status: StageFailed, Reason: err.Error()}, nil
	}
	info.Extents = len(extents)
	for _, e := range extents {
		if e.Shared() {
			info.Shared++
		}
	}

	switch {
	case len(extents) == 0 && target.Size > 0:
		return StageReport{Status: StageSkipped, Reason: "inline data"}, nil
	case len(extents) == 0:
		return StageReport{Status: StageSkipped, Reason: "empty file"}, nil
	}
	return StageReport{Status: StageRan}, NewReflinkMatcher(fsys, target, extents)
}

// searcher carries the per-run state shared by the traversal, the reflink
// workers and verification.
type searcher struct {
	fs      FS
	workers int
	stats   *stats.Collector
	events  chan<- event.Event
}

// search runs one traversal and offers every entry to both matchers.
// Either matcher may be nil.
func (s *searcher) search(scope Scope, chain *filter.Chain, hardlinks *HardlinkMatcher, reflinks *ReflinkMatcher) {
	walker := NewWalker(WalkerConfig{
		Scope:   scope,
		Workers: s.workers,
		Retain:  All(SameDevice, NotHidden, Rules(chain)),
		FS:      s.fs,
		Stats:   s.stats,
	})
	entries, errs := walker.Walk()

	var errWg sync.WaitGroup
	errWg.Add(1)
	go func() {
		defer errWg.Done()
		for err := range errs {
			slog.Warn("skipping directory", "error", err)
			emitEvent(s.events, event.Event{Type: event.DirFailed, Error: err})
		}
	}()

	var g errgroup.Group
	g.SetLimit(s.workers)
	for e := range entries {
		if hardlinks != nil && hardlinks.Match(e) {
			s.stats.AddHardlinksFound(1)
			emitEvent(s.events, event.Event{Type: event.MatchFound, Path: e.Path, Relation: Hardlink.String()})
		}
		if reflinks != nil && reflinks.Candidate(e) {
			g.Go(func() error {
				s.evaluateReflink(reflinks, e)
				return nil
			})
		}
	}
	_ = g.Wait()
	errWg.Wait()
}

func (s *searcher) evaluateReflink(m *ReflinkMatcher, e Entry) {
	s.stats.AddExtentQueries(1)
	ok, err := m.Match(e)
	if err == nil {
		if ok {
			s.stats.AddReflinksFound(1)
			emitEvent(s.events, event.Event{Type: event.MatchFound, Path: e.Path, Relation: Reflink.String()})
		}
		return
	}

	kind := platform.KindOf(err)
	if kind.Benign() {
		s.stats.AddCandidatesDropped(1)
		slog.Debug("skipping candidate", "path", e.Path, "kind", kind.String())
		emitEvent(s.events, event.Event{Type: event.CandidateDropped, Path: e.Path, Kind: kind.String()})
		return
	}
	s.stats.AddCandidatesFailed(1)
	slog.Warn("cannot read candidate extents", "path", e.Path, "error", err)
	emitEvent(s.events, event.Event{Type: event.CandidateFailed, Path: e.Path, Error: err})
}

func emitEvent(ch chan<- event.Event, e event.Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}
