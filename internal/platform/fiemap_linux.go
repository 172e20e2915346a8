//go:build linux

package platform

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	_FS_IOC_FIEMAP      = 0xC020660B
	_FIEMAP_FLAG_SYNC   = 0x00000001
	_MAX_FIEMAP_EXTENTS = 512
)

// Raw kernel structs for the FIEMAP ioctl. Field order and sizes must match
// linux/fiemap.h exactly.

type fiemapExtent struct {
	logical    uint64
	physical   uint64
	length     uint64
	reserved64 [2]uint64
	flags      uint32
	reserved32 [3]uint32
}

type fiemapReq struct {
	start         uint64
	length        uint64
	flags         uint32
	mappedExtents uint32
	extentCount   uint32
	reserved      uint32
	extents       [_MAX_FIEMAP_EXTENTS]fiemapExtent
}

// ReadExtents returns the physical extent map of path in kernel order.
// Extents holding inline data are dropped: they live in metadata and have
// no block allocation to share.
func ReadExtents(path string) ([]Extent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapErr("open", path, err)
	}
	defer f.Close()

	extents, err := fiemap(f)
	if err != nil {
		return nil, wrapErr("fiemap", path, err)
	}
	return extents, nil
}

func fiemap(f *os.File) ([]Extent, error) {
	req := new(fiemapReq)
	var all []Extent
	var start uint64

	for {
		*req = fiemapReq{
			start:       start,
			length:      ^uint64(0),
			flags:       _FIEMAP_FLAG_SYNC,
			extentCount: _MAX_FIEMAP_EXTENTS,
		}

		_, _, errno := unix.Syscall(
			unix.SYS_IOCTL,
			f.Fd(),
			uintptr(_FS_IOC_FIEMAP),
			uintptr(unsafe.Pointer(req)),
		)
		if errno != 0 {
			return nil, errno
		}

		if req.mappedExtents == 0 {
			break
		}

		for _, e := range req.extents[:req.mappedExtents] {
			if e.flags&ExtentDataInline != 0 {
				continue
			}
			all = append(all, Extent{
				Logical:  e.logical,
				Physical: e.physical,
				Length:   e.length,
				Flags:    e.flags,
			})
		}

		last := req.extents[req.mappedExtents-1]
		if last.flags&ExtentLast != 0 {
			break
		}
		start = last.logical + last.length
	}

	return all, nil
}
