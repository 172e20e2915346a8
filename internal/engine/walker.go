package engine

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bamsammich/inofd/internal/filter"
	"github.com/bamsammich/inofd/internal/platform"
	"github.com/bamsammich/inofd/internal/stats"
)

// Scope bounds a traversal: the tree under Root, restricted to Device.
type Scope struct {
	Root       string
	Device     uint64
	SkipHidden bool
}

// Entry is one path produced by the walker together with the identity
// obtained from a single lstat.
type Entry struct {
	Path     string
	RelPath  string // slash-separated, relative to the scope root
	Identity platform.FileIdentity
}

// Name returns the final path component.
func (e Entry) Name() string { return filepath.Base(e.Path) }

// Predicate decides whether an entry is kept. Pruned directories are not
// descended into.
type Predicate func(Entry, Scope) bool

// All returns a predicate that keeps an entry only when every pred does.
func All(preds ...Predicate) Predicate {
	return func(e Entry, s Scope) bool {
		for _, p := range preds {
			if !p(e, s) {
				return false
			}
		}
		return true
	}
}

// SameDevice keeps entries on the scope's device, so mount points are never crossed.
func SameDevice(e Entry, s Scope) bool {
	return e.Identity.Dev == s.Device
}

// NotHidden drops dot-prefixed entries when the scope asks for it.
func NotHidden(e Entry, s Scope) bool {
	return !s.SkipHidden || !strings.HasPrefix(e.Name(), ".")
}

// Rules keeps entries the filter chain accepts.
func Rules(chain *filter.Chain) Predicate {
	return func(e Entry, _ Scope) bool {
		return chain.Match(e.RelPath, e.Identity.IsDir())
	}
}

// WalkerConfig controls walker behavior.
type WalkerConfig struct {
	Scope   Scope
	Workers int
	Retain  Predicate
	FS      FS
	Stats   *stats.Collector
}

// Walker traverses a directory tree in parallel and emits every retained
// entry below the root. Symlinks are reported but never followed.
type Walker struct {
	cfg     WalkerConfig
	entries chan Entry
	errs    chan error
}

// NewWalker creates a walker with the given config. A nil Retain keeps
// entries on the scope's device.
func NewWalker(cfg WalkerConfig) *Walker {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Retain == nil {
		cfg.Retain = SameDevice
	}
	if cfg.FS == nil {
		cfg.FS = OSFS{}
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	return &Walker{
		cfg:     cfg,
		entries: make(chan Entry, cfg.Workers*4),
		errs:    make(chan error, cfg.Workers*4),
	}
}

// Walk starts the traversal and returns channels for entries and directory
// errors. The caller must consume from both channels until they close.
func (w *Walker) Walk() (<-chan Entry, <-chan error) {
	go func() {
		defer close(w.entries)
		defer close(w.errs)
		w.walkTree()
	}()

	return w.entries, w.errs
}

func (w *Walker) walkTree() {
	workQueue := make(chan string, w.cfg.Workers*2)
	var outstanding sync.WaitGroup // directories queued but not yet read

	var workerWg sync.WaitGroup
	for range w.cfg.Workers {
		workerWg.Add(1)
		go func() {
			defer workerWg.Done()
			for dir := range workQueue {
				w.walkDir(dir, workQueue, &outstanding)
				outstanding.Done()
			}
		}()
	}

	outstanding.Add(1)
	workQueue <- w.cfg.Scope.Root

	outstanding.Wait()
	close(workQueue)
	workerWg.Wait()
}

func (w *Walker) walkDir(dir string, workQueue chan string, outstanding *sync.WaitGroup) {
	names, err := w.cfg.FS.ReadDir(dir)
	if err != nil {
		w.cfg.Stats.AddWalkErrors(1)
		w.errs <- fmt.Errorf("readdir %s: %w", dir, err)
		return
	}
	w.cfg.Stats.AddDirsRead(1)

	for _, name := range names {
		path := filepath.Join(dir, name)
		id, err := w.cfg.FS.Lstat(path)
		if err != nil {
			w.cfg.Stats.AddStatFailures(1)
			slog.Debug("dropping entry", "path", path, "kind", platform.KindOf(err).String(), "error", err)
			continue
		}
		w.cfg.Stats.AddEntriesSeen(1)

		entry := Entry{Path: path, RelPath: w.relPath(path), Identity: id}
		if !w.cfg.Retain(entry, w.cfg.Scope) {
			w.cfg.Stats.AddEntriesPruned(1)
			continue
		}

		w.entries <- entry
		if id.IsDir() {
			w.enqueue(path, workQueue, outstanding)
		}
	}
}

// enqueue hands dir to the pool, or reads it on the calling worker when the
// queue is full so that workers never wait on each other.
func (w *Walker) enqueue(dir string, workQueue chan string, outstanding *sync.WaitGroup) {
	outstanding.Add(1)
	select {
	case workQueue <- dir:
	default:
		w.walkDir(dir, workQueue, outstanding)
		outstanding.Done()
	}
}

func (w *Walker) relPath(path string) string {
	rel, err := filepath.Rel(w.cfg.Scope.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
