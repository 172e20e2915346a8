//go:build !linux

package platform

import (
	"os"
	"runtime"
)

// Filesystem describes the filesystem a path lives on.
type Filesystem struct {
	Name  string
	Magic uint32
}

// CopyOnWrite is always false off Linux: extent maps are not available.
func (Filesystem) CopyOnWrite() bool { return false }

// ProbeFilesystem only checks that path is reachable off Linux.
func ProbeFilesystem(path string) (Filesystem, error) {
	if _, err := os.Stat(path); err != nil {
		return Filesystem{}, wrapErr("statfs", path, err)
	}
	return Filesystem{Name: runtime.GOOS}, nil
}
