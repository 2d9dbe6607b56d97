package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	fsb "github.com/input-output-hk/catalyst-forge-libs/fileutil/fs/billy"
)

// ErrInvalidPattern is returned by Scan when an include or exclude pattern is malformed.
var ErrInvalidPattern = errors.New("invalid pattern")

// Scanner is implemented by every scanning backend.
type Scanner interface {
	// SetIncludes replaces the include patterns.
	SetIncludes(includes []string)

	// SetExcludes replaces the exclude patterns.
	SetExcludes(excludes []string)

	// AddDefaultExcludes appends DefaultExcludes to the exclude patterns.
	AddDefaultExcludes()

	// Scan enumerates the base directory.
	Scan(ctx context.Context) error

	// IncludedFiles returns the paths, relative to the base directory, matched
	// by the last Scan in enumeration order.
	IncludedFiles() []string
}

// DirectoryScanner is the standalone Scanner that walks a directory tree.
// A DirectoryScanner must not be used from multiple goroutines at once.
type DirectoryScanner struct {
	basedir   string
	fs        *fsb.FS
	includes  []string
	excludes  []string
	gitignore bool
	logger    *slog.Logger
	included  []string
}

var _ Scanner = (*DirectoryScanner)(nil)

// Option configures a DirectoryScanner.
type Option func(*DirectoryScanner)

// WithFilesystem scans the given filesystem instead of the native one.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(s *DirectoryScanner) {
		if fsys != nil {
			s.fs = fsb.NewFS(fsys)
		}
	}
}

// WithGitignore additionally excludes paths ignored by .gitignore files
// found below the base directory.
func WithGitignore() Option {
	return func(s *DirectoryScanner) {
		s.gitignore = true
	}
}

// WithLogger configures structured logging. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *DirectoryScanner) {
		s.logger = logger
	}
}

// NewDirectoryScanner creates a scanner rooted at basedir.
func NewDirectoryScanner(basedir string, opts ...Option) *DirectoryScanner {
	s := &DirectoryScanner{
		basedir: basedir,
		fs:      fsb.NewBaseOSFS(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Basedir returns the directory the scanner enumerates.
func (s *DirectoryScanner) Basedir() string {
	return s.basedir
}

// SetIncludes implements Scanner.SetIncludes.
func (s *DirectoryScanner) SetIncludes(includes []string) {
	s.includes = append([]string(nil), includes...)
}

// SetExcludes implements Scanner.SetExcludes.
func (s *DirectoryScanner) SetExcludes(excludes []string) {
	s.excludes = append([]string(nil), excludes...)
}

// AddDefaultExcludes implements Scanner.AddDefaultExcludes.
func (s *DirectoryScanner) AddDefaultExcludes() {
	s.excludes = append(s.excludes, DefaultExcludes...)
}

// IncludedFiles implements Scanner.IncludedFiles.
func (s *DirectoryScanner) IncludedFiles() []string {
	return s.included
}

// Scan implements Scanner.Scan. Directories are entered in lexical order.
// Symlinked directories are followed unless their target was already entered
// through a link or is the base directory. Directories that cannot be listed
// are treated as empty.
func (s *DirectoryScanner) Scan(ctx context.Context) error {
	matcher, err := NewPatternMatcher(s.includes, s.excludes)
	if err != nil {
		return err
	}

	base, err := s.fs.Canonical(s.basedir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory %s: %w", s.basedir, err)
	}

	w := &walker{
		s:       s,
		matcher: matcher,
		visited: map[string]bool{base: true},
	}
	if s.gitignore {
		w.ignore, err = s.loadGitignore(base)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.DebugContext(ctx, "scanning directory",
			"basedir", base,
			"includes", s.includes,
			"excludes", len(s.excludes))
	}

	if err := w.walk(ctx, base, ""); err != nil {
		return fmt.Errorf("failed to walk directory %s: %w", base, err)
	}

	s.included = w.files

	if s.logger != nil {
		s.logger.DebugContext(ctx, "directory scanned",
			"basedir", base,
			"files", len(w.files))
	}

	return nil
}

// walker holds the state of a single Scan.
type walker struct {
	s       *DirectoryScanner
	matcher *PatternMatcher
	ignore  gitignore.Matcher
	// visited holds the canonical targets of followed directory links.
	visited map[string]bool
	files   []string
}

// walk enumerates dir, reporting paths relative to the base directory by
// prefixing them with prefix.
func (w *walker) walk(ctx context.Context, dir, prefix string) error {
	return w.s.fs.Walk(dir, func(p string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if info != nil && info.IsDir() {
				w.debug(ctx, "skipping unreadable directory", "dir", p, "error", walkErr)
				return filepath.SkipDir
			}
			return walkErr
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", p, err)
		}
		if rel == "." {
			return nil
		}
		relPath := path.Join(prefix, filepath.ToSlash(rel))

		if info.Mode()&os.ModeSymlink != 0 {
			return w.visitLink(ctx, p, relPath)
		}

		if w.ignored(relPath, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if w.matcher.CanSkipDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		w.report(relPath)
		return nil
	})
}

func (w *walker) visitLink(ctx context.Context, p, relPath string) error {
	target, err := w.s.fs.Stat(p)
	if err != nil {
		// dangling link
		return nil
	}

	if w.ignored(relPath, target.IsDir()) {
		return nil
	}
	if !target.IsDir() {
		w.report(relPath)
		return nil
	}
	if w.matcher.CanSkipDir(relPath) {
		return nil
	}

	canonical, err := w.s.fs.Canonical(p)
	if err != nil {
		return err
	}
	if w.visited[canonical] {
		w.debug(ctx, "not following directory link to visited target",
			"link", p,
			"target", canonical)
		return nil
	}
	w.visited[canonical] = true

	return w.walk(ctx, canonical, relPath)
}

func (w *walker) ignored(relPath string, isDir bool) bool {
	return w.ignore != nil && w.ignore.Match(strings.Split(relPath, "/"), isDir)
}

func (w *walker) report(relPath string) {
	if w.matcher.ShouldIncludeFile(relPath) {
		w.files = append(w.files, filepath.FromSlash(relPath))
	}
}

func (w *walker) debug(ctx context.Context, msg string, args ...any) {
	if w.s.logger != nil {
		w.s.logger.DebugContext(ctx, msg, args...)
	}
}

//nolint:ireturn // go-git exposes Matcher as an interface.
func (s *DirectoryScanner) loadGitignore(base string) (gitignore.Matcher, error) {
	root, err := s.fs.Chroot(base)
	if err != nil {
		return nil, err
	}
	patterns, err := gitignore.ReadPatterns(root.Raw(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore files below %s: %w", base, err)
	}
	return gitignore.NewMatcher(patterns), nil
}
