package platform

import (
	"errors"
	"fmt"
	"io/fs"
)

// FileIdentity is the storage identity of a path, taken from a single
// stat-family call.
type FileIdentity struct {
	Ino   uint64
	Dev   uint64
	Nlink uint64
	Size  uint64
	Mode  fs.FileMode
}

// IsDir reports whether the identity describes a directory.
func (id FileIdentity) IsDir() bool { return id.Mode.IsDir() }

// IsRegular reports whether the identity describes a regular file.
func (id FileIdentity) IsRegular() bool { return id.Mode.IsRegular() }

// SameInode reports whether both identities name the same inode on the same device.
func (id FileIdentity) SameInode(other FileIdentity) bool {
	return id.Dev == other.Dev && id.Ino == other.Ino
}

// FIEMAP extent flags (linux/fiemap.h).
const (
	ExtentLast       uint32 = 0x00000001
	ExtentDataInline uint32 = 0x00000004
	ExtentShared     uint32 = 0x00002000
)

// Extent is one physical allocation of a file, in kernel order.
type Extent struct {
	Logical  uint64
	Physical uint64
	Length   uint64
	Flags    uint32
}

// Shared reports whether the kernel flagged the extent as shared with another file.
func (e Extent) Shared() bool { return e.Flags&ExtentShared != 0 }

// FailureKind classifies why a metadata or extent query failed.
type FailureKind int

const (
	Other            FailureKind = iota
	Vanished                     // ENOENT
	PermissionDenied             // EACCES, EPERM
	Unsupported                  // EOPNOTSUPP
	NoDevice                     // ENXIO
	NotIoctl                     // ENOTTY
)

func (k FailureKind) String() string {
	switch k {
	case Vanished:
		return "vanished"
	case PermissionDenied:
		return "permission_denied"
	case Unsupported:
		return "unsupported"
	case NoDevice:
		return "no_device"
	case NotIoctl:
		return "not_ioctl"
	default:
		return "other"
	}
}

// Benign reports whether a failure of this kind means "this file cannot be
// compared" rather than something worth a diagnostic.
func (k FailureKind) Benign() bool { return k != Other }

// Error records a failed filesystem query on a path.
type Error struct {
	Op   string
	Path string
	Kind FailureKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the failure kind carried by err, classifying it on the fly
// when err did not come from this package.
func KindOf(err error) FailureKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return Classify(err)
}

func wrapErr(op, path string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	return &Error{Op: op, Path: path, Kind: Classify(err), Err: err}
}
