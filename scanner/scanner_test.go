package scanner

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTree creates an in-memory filesystem holding files below /root.
func newTree(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fsys := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fsys, filepath.Join("/root", name), []byte(content), 0o644))
	}
	return fsys
}

func scan(t *testing.T, s *DirectoryScanner) []string {
	t.Helper()
	require.NoError(t, s.Scan(context.Background()))
	return s.IncludedFiles()
}

func TestDirectoryScanner_Scan(t *testing.T) {
	fsys := newTree(t, map[string]string{
		"a.xsd":       "a",
		"b.xsd":       "b",
		"sub/c.txt":   "c",
		"sub/d.xsd":   "d",
		".git/config": "[core]",
	})

	t.Run("include pattern", func(t *testing.T) {
		s := NewDirectoryScanner("/root", WithFilesystem(fsys))
		s.SetIncludes([]string{"**/*.xsd"})
		assert.Equal(t, []string{"a.xsd", "b.xsd", filepath.FromSlash("sub/d.xsd")}, scan(t, s))
	})

	t.Run("exclude pattern", func(t *testing.T) {
		s := NewDirectoryScanner("/root", WithFilesystem(fsys))
		s.SetIncludes([]string{"**/*.xsd"})
		s.SetExcludes([]string{"sub/**"})
		assert.Equal(t, []string{"a.xsd", "b.xsd"}, scan(t, s))
	})

	t.Run("no includes without default excludes", func(t *testing.T) {
		s := NewDirectoryScanner("/root", WithFilesystem(fsys))
		assert.Equal(t, []string{
			filepath.FromSlash(".git/config"),
			"a.xsd",
			"b.xsd",
			filepath.FromSlash("sub/c.txt"),
			filepath.FromSlash("sub/d.xsd"),
		}, scan(t, s))
	})

	t.Run("default excludes", func(t *testing.T) {
		s := NewDirectoryScanner("/root", WithFilesystem(fsys))
		s.AddDefaultExcludes()
		assert.Equal(t, []string{
			"a.xsd",
			"b.xsd",
			filepath.FromSlash("sub/c.txt"),
			filepath.FromSlash("sub/d.xsd"),
		}, scan(t, s))
	})

	t.Run("rescan replaces results", func(t *testing.T) {
		s := NewDirectoryScanner("/root", WithFilesystem(fsys))
		s.SetIncludes([]string{"*.xsd"})
		assert.Len(t, scan(t, s), 2)

		s.SetIncludes([]string{"**/*.txt"})
		assert.Equal(t, []string{filepath.FromSlash("sub/c.txt")}, scan(t, s))
	})
}

func TestDirectoryScanner_SpecTree(t *testing.T) {
	fsys := newTree(t, map[string]string{
		"a.xsd":     "a",
		"b.xsd":     "b",
		"sub/c.txt": "c",
	})

	s := NewDirectoryScanner("/root", WithFilesystem(fsys))
	s.SetIncludes([]string{"**/*.xsd"})
	s.SetExcludes(nil)
	assert.Equal(t, []string{"a.xsd", "b.xsd"}, scan(t, s))
}

func TestDirectoryScanner_Gitignore(t *testing.T) {
	fsys := newTree(t, map[string]string{
		".gitignore":     "*.txt\nbuild/\n",
		"a.xsd":          "a",
		"notes.txt":      "n",
		"sub/c.txt":      "c",
		"build/gen.xsd":  "g",
		"sub/.gitignore": "local.xsd\n",
		"sub/local.xsd":  "l",
		"sub/shared.xsd": "s",
	})

	s := NewDirectoryScanner("/root", WithFilesystem(fsys), WithGitignore())
	s.AddDefaultExcludes()
	assert.Equal(t, []string{"a.xsd", filepath.FromSlash("sub/shared.xsd")}, scan(t, s))
}

func TestDirectoryScanner_Symlinks(t *testing.T) {
	fsys := newTree(t, map[string]string{
		"a.xsd":         "a",
		"dir/inner.xsd": "i",
	})
	require.NoError(t, fsys.Symlink("/root/a.xsd", "/root/link.xsd"))
	require.NoError(t, fsys.Symlink("/root/dir", "/root/linkdir"))
	require.NoError(t, fsys.Symlink("/root/missing.xsd", "/root/dangling.xsd"))
	require.NoError(t, fsys.Symlink("/root", "/root/dir/back"))

	s := NewDirectoryScanner("/root", WithFilesystem(fsys))
	s.SetIncludes([]string{"**/*.xsd"})
	assert.Equal(t, []string{
		"a.xsd",
		filepath.FromSlash("dir/inner.xsd"),
		"link.xsd",
		filepath.FromSlash("linkdir/inner.xsd"),
	}, scan(t, s))
}

func TestDirectoryScanner_LinkedDirectoryOutsideBase(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "/scan/b.xsd", []byte("b"), 0o644))
	require.NoError(t, util.WriteFile(fsys, "/real/a.xsd", []byte("a"), 0o644))
	require.NoError(t, util.WriteFile(fsys, "/real/nested/c.xsd", []byte("c"), 0o644))
	require.NoError(t, fsys.Symlink("/real", "/scan/linked"))
	require.NoError(t, fsys.Symlink("/scan", "/real/nested/up"))

	t.Run("followed", func(t *testing.T) {
		s := NewDirectoryScanner("/scan", WithFilesystem(fsys))
		s.SetIncludes([]string{"**/*.xsd"})
		assert.Equal(t, []string{
			"b.xsd",
			filepath.FromSlash("linked/a.xsd"),
			filepath.FromSlash("linked/nested/c.xsd"),
		}, scan(t, s))
	})

	t.Run("excluded link is not entered", func(t *testing.T) {
		s := NewDirectoryScanner("/scan", WithFilesystem(fsys))
		s.SetIncludes([]string{"**/*.xsd"})
		s.SetExcludes([]string{"linked/**"})
		assert.Equal(t, []string{"b.xsd"}, scan(t, s))
	})
}

// unreadableFS fails to list one directory.
type unreadableFS struct {
	billy.Filesystem
	dir string
}

func (f *unreadableFS) ReadDir(path string) ([]os.FileInfo, error) {
	if path == f.dir {
		return nil, os.ErrPermission
	}
	return f.Filesystem.ReadDir(path)
}

func TestDirectoryScanner_UnreadableDirectory(t *testing.T) {
	fsys := &unreadableFS{
		Filesystem: newTree(t, map[string]string{
			"a.xsd":        "a",
			"locked/b.xsd": "b",
			"z/c.xsd":      "c",
		}),
		dir: filepath.Join("/root", "locked"),
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := NewDirectoryScanner("/root", WithFilesystem(fsys), WithLogger(logger))
	s.SetIncludes([]string{"**/*.xsd"})
	assert.Equal(t, []string{"a.xsd", filepath.FromSlash("z/c.xsd")}, scan(t, s))
	assert.Contains(t, buf.String(), "skipping unreadable directory")
}

func TestDirectoryScanner_OS(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	for _, name := range []string{"a.xsd", "b.xsd", "sub/c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(name), 0o644))
	}

	s := NewDirectoryScanner(root)
	s.SetIncludes([]string{"**/*.xsd"})
	assert.Equal(t, []string{"a.xsd", "b.xsd"}, scan(t, s))
	assert.Equal(t, root, s.Basedir())
}

func TestDirectoryScanner_Errors(t *testing.T) {
	fsys := newTree(t, map[string]string{"a.xsd": "a"})

	t.Run("invalid pattern", func(t *testing.T) {
		s := NewDirectoryScanner("/root", WithFilesystem(fsys))
		s.SetIncludes([]string{"bad\x00name"})
		assert.ErrorIs(t, s.Scan(context.Background()), ErrInvalidPattern)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := NewDirectoryScanner("/root", WithFilesystem(fsys))
		assert.ErrorIs(t, s.Scan(ctx), context.Canceled)
	})

	t.Run("missing base directory", func(t *testing.T) {
		s := NewDirectoryScanner("/nowhere", WithFilesystem(fsys))
		assert.Error(t, s.Scan(context.Background()))
	})
}
