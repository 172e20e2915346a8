package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const ringSize = 60

// Collector tracks search statistics using lock-free atomic counters.
type Collector struct {
	dirsRead          atomic.Int64
	entriesSeen       atomic.Int64
	entriesPruned     atomic.Int64
	walkErrors        atomic.Int64
	statFailures      atomic.Int64
	extentQueries     atomic.Int64
	candidatesDropped atomic.Int64
	candidatesFailed  atomic.Int64
	hardlinksFound    atomic.Int64
	reflinksFound     atomic.Int64
	vanished          atomic.Int64
	verifyFailed      atomic.Int64
	startTime         time.Time

	// Ring buffer, written only by the progress ticker.
	mu          sync.Mutex
	entriesRate [ringSize]int64 // entries delta per second
	ringIdx     int
	ringCount   int
	lastEntries int64
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	DirsRead          int64
	EntriesSeen       int64
	EntriesPruned     int64
	WalkErrors        int64
	StatFailures      int64
	ExtentQueries     int64
	CandidatesDropped int64
	CandidatesFailed  int64
	HardlinksFound    int64
	ReflinksFound     int64
	Vanished          int64
	VerifyFailed      int64
	Elapsed           time.Duration
}

func (c *Collector) AddDirsRead(n int64)          { c.dirsRead.Add(n) }
func (c *Collector) AddEntriesSeen(n int64)       { c.entriesSeen.Add(n) }
func (c *Collector) AddEntriesPruned(n int64)     { c.entriesPruned.Add(n) }
func (c *Collector) AddWalkErrors(n int64)        { c.walkErrors.Add(n) }
func (c *Collector) AddStatFailures(n int64)      { c.statFailures.Add(n) }
func (c *Collector) AddExtentQueries(n int64)     { c.extentQueries.Add(n) }
func (c *Collector) AddCandidatesDropped(n int64) { c.candidatesDropped.Add(n) }
func (c *Collector) AddCandidatesFailed(n int64)  { c.candidatesFailed.Add(n) }
func (c *Collector) AddHardlinksFound(n int64)    { c.hardlinksFound.Add(n) }
func (c *Collector) AddReflinksFound(n int64)     { c.reflinksFound.Add(n) }
func (c *Collector) AddVanished(n int64)          { c.vanished.Add(n) }
func (c *Collector) AddVerifyFailed(n int64)      { c.verifyFailed.Add(n) }

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		DirsRead:          c.dirsRead.Load(),
		EntriesSeen:       c.entriesSeen.Load(),
		EntriesPruned:     c.entriesPruned.Load(),
		WalkErrors:        c.walkErrors.Load(),
		StatFailures:      c.statFailures.Load(),
		ExtentQueries:     c.extentQueries.Load(),
		CandidatesDropped: c.candidatesDropped.Load(),
		CandidatesFailed:  c.candidatesFailed.Load(),
		HardlinksFound:    c.hardlinksFound.Load(),
		ReflinksFound:     c.reflinksFound.Load(),
		Vanished:          c.vanished.Load(),
		VerifyFailed:      c.verifyFailed.Load(),
		Elapsed:           c.Elapsed(),
	}
}

// Tick samples the entry counter into the ring buffer. Call once per second.
func (c *Collector) Tick() {
	current := c.entriesSeen.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entriesRate[c.ringIdx] = current - c.lastEntries
	c.lastEntries = current
	c.ringIdx = (c.ringIdx + 1) % ringSize
	if c.ringCount < ringSize {
		c.ringCount++
	}
}

// RollingEntriesPerSec returns average entries/sec over the last n samples.
func (c *Collector) RollingEntriesPerSec(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := min(seconds, c.ringCount)
	if count <= 0 {
		return 0
	}
	var sum int64
	for i := range count {
		idx := (c.ringIdx - 1 - i + ringSize) % ringSize
		sum += c.entriesRate[idx]
	}
	return float64(sum) / float64(count)
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"dirs=%d entries=%d pruned=%d walk_errors=%d extents=%d dropped=%d failed=%d hardlinks=%d reflinks=%d",
		s.DirsRead, s.EntriesSeen, s.EntriesPruned, s.WalkErrors, s.ExtentQueries,
		s.CandidatesDropped, s.CandidatesFailed, s.HardlinksFound, s.ReflinksFound,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
