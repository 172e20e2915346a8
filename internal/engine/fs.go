package engine

import (
	"os"
	"path/filepath"

	"github.com/bamsammich/inofd/internal/platform"
)

// FS is the read-only filesystem surface the search queries. OSFS is the
// production implementation; tests substitute fakes with controlled
// devices, inodes and extent maps.
type FS interface {
	Stat(path string) (platform.FileIdentity, error)
	Lstat(path string) (platform.FileIdentity, error)
	ReadDir(path string) ([]string, error)
	ReadExtents(path string) ([]platform.Extent, error)
	ProbeFilesystem(path string) (platform.Filesystem, error)
	// EvalSymlinks returns path with every symlink in it resolved.
	EvalSymlinks(path string) (string, error)
}

// OSFS answers queries against the live filesystem.
type OSFS struct{}

func (OSFS) Stat(path string) (platform.FileIdentity, error)  { return platform.Stat(path) }
func (OSFS) Lstat(path string) (platform.FileIdentity, error) { return platform.Lstat(path) }

// ReadDir returns the names of the entries in path, in directory order.
func (OSFS) ReadDir(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}

func (OSFS) ReadExtents(path string) ([]platform.Extent, error) {
	return platform.ReadExtents(path)
}

func (OSFS) ProbeFilesystem(path string) (platform.Filesystem, error) {
	return platform.ProbeFilesystem(path)
}

func (OSFS) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}
