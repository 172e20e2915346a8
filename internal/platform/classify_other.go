//go:build !unix

package platform

import (
	"errors"
	"io/fs"
)

// Classify maps a raw error onto a FailureKind. Only the portable io/fs
// sentinels are recognized off unix.
func Classify(err error) FailureKind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Vanished
	case errors.Is(err, fs.ErrPermission):
		return PermissionDenied
	case errors.Is(err, errors.ErrUnsupported):
		return Unsupported
	default:
		return Other
	}
}
