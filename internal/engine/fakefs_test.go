package engine

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"

	"github.com/bamsammich/inofd/internal/platform"
)

type fakeNode struct {
	id       platform.FileIdentity
	extents  []platform.Extent
	err      error // returned by ReadDir or ReadExtents
	children []string
}

// fakeFS is an in-memory tree with hand-picked devices, inodes and extent
// maps. Paths are absolute and slash-separated.
type fakeFS struct {
	mu          sync.Mutex
	nodes       map[string]*fakeNode
	fsys        platform.Filesystem
	probeErr    error
	links       map[string]string // symlink path -> absolute destination
	extentCalls map[string]int
}

func newFakeFS(cow bool) *fakeFS {
	f := &fakeFS{
		nodes:       map[string]*fakeNode{},
		links:       map[string]string{},
		extentCalls: map[string]int{},
		fsys:        platform.Filesystem{Name: "ext4", Magic: 0xEF53},
	}
	if cow {
		f.fsys = platform.Filesystem{Name: "btrfs", Magic: 0x9123683E}
	}
	f.nodes["/"] = &fakeNode{id: platform.FileIdentity{Ino: 1, Dev: 1, Nlink: 2, Mode: fs.ModeDir | 0o755}}
	return f
}

func (f *fakeFS) attach(path string, n *fakeNode) *fakeNode {
	parent := filepath.Dir(path)
	p, ok := f.nodes[parent]
	if !ok {
		panic("fakeFS: missing parent " + parent)
	}
	p.children = append(p.children, filepath.Base(path))
	f.nodes[path] = n
	return n
}

func (f *fakeFS) dir(path string, dev, ino uint64) *fakeNode {
	return f.attach(path, &fakeNode{id: platform.FileIdentity{Ino: ino, Dev: dev, Nlink: 2, Mode: fs.ModeDir | 0o755}})
}

func (f *fakeFS) file(path string, dev, ino, nlink, size uint64, extents ...platform.Extent) *fakeNode {
	return f.attach(path, &fakeNode{
		id:      platform.FileIdentity{Ino: ino, Dev: dev, Nlink: nlink, Size: size, Mode: 0o644},
		extents: extents,
	})
}

func (f *fakeFS) symlink(path string, dev, ino uint64) *fakeNode {
	return f.attach(path, &fakeNode{id: platform.FileIdentity{Ino: ino, Dev: dev, Nlink: 1, Size: 8, Mode: fs.ModeSymlink | 0o777}})
}

// alias adds a symlink at path pointing to the absolute path to, which
// Stat and EvalSymlinks follow.
func (f *fakeFS) alias(path, to string, dev, ino uint64) *fakeNode {
	f.links[path] = to
	return f.symlink(path, dev, ino)
}

// resolve rewrites path until no alias prefix remains.
func (f *fakeFS) resolve(path string) string {
	path = filepath.Clean(path)
	for range 40 {
		changed := false
		for link, to := range f.links {
			if path == link || strings.HasPrefix(path, link+"/") {
				path = to + path[len(link):]
				changed = true
				break
			}
		}
		if !changed {
			break
		}
	}
	return path
}

func (f *fakeFS) remove(path string) {
	delete(f.nodes, path)
}

func (f *fakeFS) lookup(op, path string) (*fakeNode, error) {
	n, ok := f.nodes[filepath.Clean(path)]
	if !ok {
		return nil, &platform.Error{Op: op, Path: path, Kind: platform.Vanished, Err: syscall.ENOENT}
	}
	return n, nil
}

func (f *fakeFS) Stat(path string) (platform.FileIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.lookup("stat", f.resolve(path))
	if err != nil {
		return platform.FileIdentity{}, err
	}
	return n.id, nil
}

func (f *fakeFS) Lstat(path string) (platform.FileIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.lookup("lstat", path)
	if err != nil {
		return platform.FileIdentity{}, err
	}
	return n.id, nil
}

func (f *fakeFS) ReadDir(path string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.lookup("open", path)
	if err != nil {
		return nil, err
	}
	if !n.id.IsDir() {
		return nil, &platform.Error{Op: "open", Path: path, Kind: platform.Other, Err: syscall.ENOTDIR}
	}
	if n.err != nil {
		return nil, n.err
	}
	return slices.Clone(n.children), nil
}

func (f *fakeFS) ReadExtents(path string) ([]platform.Extent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extentCalls[path]++
	n, err := f.lookup("open", path)
	if err != nil {
		return nil, err
	}
	if n.err != nil {
		return nil, n.err
	}
	return slices.Clone(n.extents), nil
}

func (f *fakeFS) ProbeFilesystem(path string) (platform.Filesystem, error) {
	if f.probeErr != nil {
		return platform.Filesystem{}, f.probeErr
	}
	return f.fsys, nil
}

func (f *fakeFS) EvalSymlinks(path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resolved := f.resolve(path)
	if _, err := f.lookup("lstat", resolved); err != nil {
		return "", err
	}
	return resolved, nil
}

func (f *fakeFS) calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.extentCalls[path]
}

func ext(physical, length uint64) platform.Extent {
	return platform.Extent{Physical: physical, Length: length}
}

func matchPaths(records []MatchRecord) []string {
	paths := make([]string, len(records))
	for i, r := range records {
		paths[i] = r.Path
	}
	return paths
}
