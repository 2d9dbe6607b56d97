// Package billy wraps a go-billy filesystem with the small set of operations
// file resolution needs: existence checks, metadata reads, walking and
// symlink-resolving canonicalization.
package billy

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

// FS implements filesystem access on top of go-billy.
type FS struct {
	fs billy.Filesystem
}

// Exists reports whether path exists. A missing path is not an error.
func (b *FS) Exists(path string) (bool, error) {
	_, err := b.fs.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("billy: stat %q: %w", path, err)
	}
}

// Stat returns file info for name, following symlinks.
func (b *FS) Stat(name string) (os.FileInfo, error) {
	info, err := b.fs.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("billy: stat %q: %w", name, err)
	}
	return info, nil
}

// Open opens name for reading.
//
//nolint:ireturn // billy exposes files as an interface.
func (b *FS) Open(name string) (billy.File, error) {
	f, err := b.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("billy: open %q: %w", name, err)
	}
	return f, nil
}

// MkdirAll creates path and any missing parents.
func (b *FS) MkdirAll(path string, perm os.FileMode) error {
	if err := b.fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("billy: mkdirall %q: %w", path, err)
	}
	return nil
}

// ReadFile returns the content of path.
func (b *FS) ReadFile(path string) ([]byte, error) {
	bts, err := util.ReadFile(b.fs, path)
	if err != nil {
		return nil, fmt.Errorf("billy: readfile %q: %w", path, err)
	}
	return bts, nil
}

// WriteFile writes data to filename, creating or truncating it.
func (b *FS) WriteFile(filename string, data []byte, perm os.FileMode) error {
	if err := util.WriteFile(b.fs, filename, data, perm); err != nil {
		return fmt.Errorf("billy: writefile %q: %w", filename, err)
	}
	return nil
}

// Walk walks the tree rooted at root in lexical order. Symlinks are not followed.
func (b *FS) Walk(root string, walkFn filepath.WalkFunc) error {
	if err := util.Walk(b.fs, root, walkFn); err != nil {
		return fmt.Errorf("billy: walk %q: %w", root, err)
	}
	return nil
}

// Chroot returns a filesystem rooted at dir.
func (b *FS) Chroot(dir string) (*FS, error) {
	sub, err := b.fs.Chroot(dir)
	if err != nil {
		return nil, fmt.Errorf("billy: chroot %q: %w", dir, err)
	}
	return &FS{fs: sub}, nil
}

// Canonical returns the absolute form of name with every symlink resolved.
// Relative names are taken relative to the filesystem root. Components that
// do not exist are kept as written.
func (b *FS) Canonical(name string) (string, error) {
	name = filepath.ToSlash(name)
	if !path.IsAbs(name) {
		name = "/" + name
	}
	resolved, err := securejoin.SecureJoinVFS("/", name, b.fs)
	if err != nil {
		return "", fmt.Errorf("billy: canonical %q: %w", name, err)
	}
	return resolved, nil
}

// Raw returns the underlying go-billy filesystem.
//
//nolint:ireturn // returning interface here is intentional to expose the adapter target.
func (b *FS) Raw() billy.Filesystem {
	return b.fs
}

// NewFS creates a new FS using the given go-billy filesystem.
func NewFS(fsys billy.Filesystem) *FS {
	return &FS{
		fs: fsys,
	}
}

// NewInMemoryFS creates a new in-memory filesystem.
func NewInMemoryFS() *FS {
	return &FS{
		fs: memfs.New(),
	}
}
