//go:build unix

package platform

import (
	"errors"
	"io/fs"

	"golang.org/x/sys/unix"
)

// Classify maps a raw error from stat, open or ioctl onto a FailureKind.
// This is the only place errno values are interpreted.
func Classify(err error) FailureKind {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return Vanished
		case errors.Is(err, fs.ErrPermission):
			return PermissionDenied
		}
		return Other
	}

	switch errno {
	case unix.ENOENT:
		return Vanished
	case unix.EACCES, unix.EPERM:
		return PermissionDenied
	case unix.EOPNOTSUPP:
		return Unsupported
	case unix.ENXIO:
		return NoDevice
	case unix.ENOTTY:
		return NotIoctl
	default:
		return Other
	}
}
