package engine

import (
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/bamsammich/inofd/internal/platform"
)

// ReflinkMatcher collects regular files whose extent map is identical to
// the target's.
type ReflinkMatcher struct {
	fs      FS
	target  platform.FileIdentity
	extents []platform.Extent
	matches *xsync.MapOf[string, struct{}]
}

// NewReflinkMatcher creates a matcher against the target's extent map.
// extents must be non-empty; an empty map would equal every other empty map.
func NewReflinkMatcher(fsys FS, target platform.FileIdentity, extents []platform.Extent) *ReflinkMatcher {
	return &ReflinkMatcher{
		fs:      fsys,
		target:  target,
		extents: extents,
		matches: xsync.NewMapOf[string, struct{}](),
	}
}

// Candidate reports whether e is worth an extent query: a regular file on
// the target's device, a different inode, and the same size.
func (m *ReflinkMatcher) Candidate(e Entry) bool {
	id := e.Identity
	return id.IsRegular() &&
		id.Dev == m.target.Dev &&
		id.Ino != m.target.Ino &&
		id.Size == m.target.Size
}

// Match queries the extent map of e and records it when every extent
// lines up with the target's. A query failure is returned unchanged so the
// caller can tell benign drops from real errors.
func (m *ReflinkMatcher) Match(e Entry) (bool, error) {
	if !m.Candidate(e) {
		return false, nil
	}
	extents, err := m.fs.ReadExtents(e.Path)
	if err != nil {
		return false, err
	}
	if !SameExtents(m.extents, extents) {
		return false, nil
	}
	m.matches.Store(e.Path, struct{}{})
	return true, nil
}

// Paths returns the recorded matches in sorted order.
func (m *ReflinkMatcher) Paths() []string {
	return sortedKeys(m.matches)
}

// SameExtents reports whether a and b map the same physical ranges in the
// same order. Flags are ignored: one side may be marked shared while the
// other is not.
func SameExtents(a, b []platform.Extent) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Physical != b[i].Physical || a[i].Length != b[i].Length {
			return false
		}
	}
	return true
}
