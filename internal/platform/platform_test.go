//go:build unix

package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"enoent", syscall.ENOENT, Vanished},
		{"eacces", syscall.EACCES, PermissionDenied},
		{"eperm", syscall.EPERM, PermissionDenied},
		{"eopnotsupp", syscall.EOPNOTSUPP, Unsupported},
		{"enxio", syscall.ENXIO, NoDevice},
		{"enotty", syscall.ENOTTY, NotIoctl},
		{"eio", syscall.EIO, Other},
		{"wrapped errno", fmt.Errorf("fiemap: %w", syscall.ENOTTY), NotIoctl},
		{"path error", &fs.PathError{Op: "open", Path: "/x", Err: syscall.ENOENT}, Vanished},
		{"fs sentinel", fs.ErrPermission, PermissionDenied},
		{"plain", errors.New("boom"), Other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestFailureKindBenign(t *testing.T) {
	for _, k := range []FailureKind{Vanished, PermissionDenied, Unsupported, NoDevice, NotIoctl} {
		assert.True(t, k.Benign(), k.String())
	}
	assert.False(t, Other.Benign())
	assert.Equal(t, "other", Other.String())
}

func TestKindOf(t *testing.T) {
	err := &Error{Op: "fiemap", Path: "/a", Kind: NoDevice, Err: syscall.ENXIO}
	assert.Equal(t, NoDevice, KindOf(fmt.Errorf("candidate: %w", err)))
	assert.Equal(t, Vanished, KindOf(syscall.ENOENT))
	assert.Equal(t, "fiemap /a: "+syscall.ENXIO.Error(), err.Error())
	assert.ErrorIs(t, err, syscall.ENXIO)
}

func TestStat_RegularFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	id, err := Stat(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), id.Size)
	assert.Equal(t, uint64(1), id.Nlink)
	assert.True(t, id.IsRegular())
	assert.False(t, id.IsDir())
	assert.NotZero(t, id.Ino)
}

func TestStat_Hardlink(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(a, []byte("data"), 0o644))
	require.NoError(t, os.Link(a, b))

	idA, err := Stat(a)
	require.NoError(t, err)
	idB, err := Stat(b)
	require.NoError(t, err)

	assert.True(t, idA.SameInode(idB))
	assert.Equal(t, uint64(2), idA.Nlink)
}

func TestLstat_DoesNotFollowSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.WriteFile(target, []byte("data"), 0o644))
	require.NoError(t, os.Symlink("target", link))

	viaStat, err := Stat(link)
	require.NoError(t, err)
	viaLstat, err := Lstat(link)
	require.NoError(t, err)
	targetID, err := Stat(target)
	require.NoError(t, err)

	assert.True(t, viaStat.SameInode(targetID))
	assert.False(t, viaLstat.SameInode(targetID))
	assert.NotZero(t, viaLstat.Mode&fs.ModeSymlink)
}

func TestStat_Missing(t *testing.T) {
	_, err := Stat(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, Vanished, pe.Kind)
	assert.Equal(t, "stat", pe.Op)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestExtentShared(t *testing.T) {
	assert.True(t, Extent{Flags: ExtentShared | ExtentLast}.Shared())
	assert.False(t, Extent{Flags: ExtentLast}.Shared())
}
