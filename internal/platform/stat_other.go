//go:build !unix

package platform

import (
	"errors"
	"io/fs"
	"os"
)

var errNoInodes = errors.New("inode identity requires a unix platform")

// Stat fails on platforms without inode numbers.
func Stat(path string) (FileIdentity, error) {
	if _, err := os.Stat(path); err != nil {
		return FileIdentity{}, wrapErr("stat", path, err)
	}
	return FileIdentity{}, &Error{Op: "stat", Path: path, Kind: Unsupported, Err: errNoInodes}
}

// Lstat fails on platforms without inode numbers.
func Lstat(path string) (FileIdentity, error) {
	if _, err := os.Lstat(path); err != nil {
		return FileIdentity{}, wrapErr("lstat", path, err)
	}
	return FileIdentity{}, &Error{Op: "lstat", Path: path, Kind: Unsupported, Err: errNoInodes}
}

// IdentityOf fails on platforms without inode numbers.
func IdentityOf(_ fs.FileInfo) (FileIdentity, error) {
	return FileIdentity{}, errNoInodes
}
