//go:build linux

package platform

import (
	"fmt"

	"golang.org/x/sys/unix"
)

var fsNames = map[uint32]string{
	unix.BTRFS_SUPER_MAGIC:     "btrfs",
	unix.EXT4_SUPER_MAGIC:      "ext4",
	unix.XFS_SUPER_MAGIC:       "xfs",
	unix.TMPFS_MAGIC:           "tmpfs",
	unix.OVERLAYFS_SUPER_MAGIC: "overlayfs",
	unix.NFS_SUPER_MAGIC:       "nfs",
	unix.F2FS_SUPER_MAGIC:      "f2fs",
	unix.SQUASHFS_MAGIC:        "squashfs",
}

// Filesystem describes the filesystem a path lives on.
type Filesystem struct {
	Name  string
	Magic uint32
}

// CopyOnWrite reports whether extents can be shared between inodes on this
// filesystem. Only btrfs is recognized.
func (f Filesystem) CopyOnWrite() bool {
	return f.Magic == unix.BTRFS_SUPER_MAGIC
}

// ProbeFilesystem queries statfs(2) for the filesystem holding path.
//
//nolint:gosec // G115: f_type is a 32-bit magic stored in a wider field on some arches
func ProbeFilesystem(path string) (Filesystem, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Filesystem{}, wrapErr("statfs", path, err)
	}
	magic := uint32(st.Type)
	name, ok := fsNames[magic]
	if !ok {
		name = fmt.Sprintf("0x%x", magic)
	}
	return Filesystem{Name: name, Magic: magic}, nil
}
