//go:build unix

package platform

import (
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// Stat returns the identity of path, following symlinks.
func Stat(path string) (FileIdentity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileIdentity{}, wrapErr("stat", path, err)
	}
	return identityAt("stat", path, info)
}

// Lstat returns the identity of path itself; symlinks are not followed.
func Lstat(path string) (FileIdentity, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return FileIdentity{}, wrapErr("lstat", path, err)
	}
	return identityAt("lstat", path, info)
}

// IdentityOf extracts the identity from an already obtained fs.FileInfo.
//
//nolint:gosec,unconvert // G115: field widths differ per platform; dev/ino/nlink are never negative
func IdentityOf(info fs.FileInfo) (FileIdentity, error) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return FileIdentity{}, fmt.Errorf("unsupported stat type for %s", info.Name())
	}
	return FileIdentity{
		Ino:   uint64(stat.Ino),
		Dev:   uint64(stat.Dev),
		Nlink: uint64(stat.Nlink),
		Size:  uint64(info.Size()),
		Mode:  info.Mode(),
	}, nil
}

func identityAt(op, path string, info fs.FileInfo) (FileIdentity, error) {
	id, err := IdentityOf(info)
	if err != nil {
		return FileIdentity{}, &Error{Op: op, Path: path, Kind: Other, Err: err}
	}
	return id, nil
}
