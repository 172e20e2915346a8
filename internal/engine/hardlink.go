package engine

import (
	"path/filepath"
	"slices"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/bamsammich/inofd/internal/platform"
)

// HardlinkMatcher collects paths that name the target's inode.
type HardlinkMatcher struct {
	targetPath string
	target     platform.FileIdentity
	matches    *xsync.MapOf[string, struct{}]
}

// NewHardlinkMatcher creates a matcher for the target at targetPath, which
// should be absolute so it compares equal to walker paths.
func NewHardlinkMatcher(targetPath string, target platform.FileIdentity) *HardlinkMatcher {
	return &HardlinkMatcher{
		targetPath: filepath.Clean(targetPath),
		target:     target,
		matches:    xsync.NewMapOf[string, struct{}](),
	}
}

// Match records e if it is another name for the target inode. It reports
// true only the first time a path is recorded.
func (m *HardlinkMatcher) Match(e Entry) bool {
	if e.Identity.IsDir() || !e.Identity.SameInode(m.target) {
		return false
	}
	path := filepath.Clean(e.Path)
	if path == m.targetPath {
		return false
	}
	_, loaded := m.matches.LoadOrStore(path, struct{}{})
	return !loaded
}

// Paths returns the recorded matches in sorted order.
func (m *HardlinkMatcher) Paths() []string {
	return sortedKeys(m.matches)
}

func sortedKeys(set *xsync.MapOf[string, struct{}]) []string {
	paths := make([]string, 0, set.Size())
	set.Range(func(path string, _ struct{}) bool {
		paths = append(paths, path)
		return true
	})
	slices.Sort(paths)
	return paths
}
