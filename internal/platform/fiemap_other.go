//go:build !linux

package platform

import "errors"

// ReadExtents is unavailable off Linux; callers treat the error as benign.
func ReadExtents(path string) ([]Extent, error) {
	return nil, &Error{Op: "fiemap", Path: path, Kind: Unsupported, Err: errors.ErrUnsupported}
}
