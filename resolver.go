package fileutil

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"path/filepath"

	ferrors "github.com/input-output-hk/catalyst-forge-libs/fileutil/errors"
	fsb "github.com/input-output-hk/catalyst-forge-libs/fileutil/fs/billy"
	"github.com/input-output-hk/catalyst-forge-libs/fileutil/scanner"
)

// BuildContext is implemented by hosts that scan incrementally, reporting
// only what changed since the previous build unless ignoreDelta is set.
type BuildContext interface {
	NewScanner(basedir string, ignoreDelta bool) scanner.Scanner
}

// Resolver resolves and scans files on a filesystem. It is immutable after
// New returns and safe for concurrent use.
type Resolver struct {
	fs           *fsb.FS
	buildContext BuildContext
	scannerOpts  []scanner.Option
	logger       *slog.Logger
	// native is false once WithFilesystem replaced the OS filesystem.
	native bool
}

var defaultResolver = New()

// New creates a Resolver over the native filesystem.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		fs:     fsb.NewBaseOSFS(),
		native: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ScanDirectory returns the canonical paths of the files below dir matching
// includes and not matching excludes, in the order the scanner enumerates
// them. A missing dir yields no files and no error; a dir that is not a
// directory fails with ErrNotDirectory. A relative dir is resolved against the
// working directory on the native filesystem and against the root of any
// other filesystem. When a build context is configured the scan is delegated
// to it.
func (r *Resolver) ScanDirectory(
	ctx context.Context,
	dir string,
	includes []string,
	excludes []string,
	defaultExcludes bool,
) ([]string, error) {
	absDir, err := r.absPath(dir)
	if err != nil {
		return nil, ferrors.New(ferrors.CodeIO, "scan", dir, err)
	}

	info, err := r.fs.Stat(absDir)
	if err != nil {
		if r.logger != nil {
			r.logger.DebugContext(ctx, "skipping scan of missing directory",
				"dir", absDir,
				"error", err)
		}
		return nil, nil
	}
	if !info.IsDir() {
		return nil, ferrors.New(ferrors.CodeInvalidInput, "scan", absDir, ErrNotDirectory)
	}

	var s scanner.Scanner
	if r.buildContext != nil {
		s = r.buildContext.NewScanner(absDir, true)
	} else {
		opts := append([]scanner.Option{
			scanner.WithFilesystem(r.fs.Raw()),
			scanner.WithLogger(r.logger),
		}, r.scannerOpts...)
		s = scanner.NewDirectoryScanner(absDir, opts...)
	}

	s.SetIncludes(includes)
	s.SetExcludes(excludes)
	if defaultExcludes {
		s.AddDefaultExcludes()
	}

	if err := s.Scan(ctx); err != nil {
		return nil, ferrors.New(scanErrorCode(err), "scan", absDir, err)
	}

	names := s.IncludedFiles()
	files := make([]string, 0, len(names))
	for _, name := range names {
		canonical, err := r.fs.Canonical(filepath.Join(absDir, name))
		if err != nil {
			return nil, ferrors.New(ferrors.CodeIO, "scan", filepath.Join(absDir, name), err)
		}
		files = append(files, canonical)
	}

	if r.logger != nil {
		r.logger.DebugContext(ctx, "scanned directory",
			"dir", absDir,
			"incremental", r.buildContext != nil,
			"files", len(files))
	}

	return files, nil
}

// LastModifiedForFileURI returns the modification time, in milliseconds since
// the epoch, of the local file addressed by u. The boolean is false when the
// time is unknown: u is not a local file URI, the file does not exist or
// cannot be read, or the filesystem reports a zero time.
func (r *Resolver) LastModifiedForFileURI(u *url.URL) (int64, bool) {
	path, err := FilePathFromURI(u)
	if err != nil {
		return 0, false
	}

	info, err := r.fs.Stat(path)
	if err != nil {
		return 0, false
	}

	ms := info.ModTime().UnixMilli()
	if ms == 0 {
		return 0, false
	}
	return ms, true
}

// LastModified returns the modification time of path in milliseconds since
// the epoch, or 0 if the file does not exist.
func (r *Resolver) LastModified(path string) int64 {
	info, err := r.fs.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixMilli()
}

// LatestModified returns the greatest LastModified of paths, or 0 for none.
func (r *Resolver) LatestModified(paths []string) int64 {
	var latest int64
	for _, path := range paths {
		if ms := r.LastModified(path); ms > latest {
			latest = ms
		}
	}
	return latest
}

// ScanDirectory scans dir on the native filesystem. See Resolver.ScanDirectory.
func ScanDirectory(
	ctx context.Context,
	dir string,
	includes []string,
	excludes []string,
	defaultExcludes bool,
	opts ...Option,
) ([]string, error) {
	return New(opts...).ScanDirectory(ctx, dir, includes, excludes, defaultExcludes)
}

// LastModifiedForFileURI reads the modification time of the native file
// addressed by u. See Resolver.LastModifiedForFileURI.
func LastModifiedForFileURI(u *url.URL) (int64, bool) {
	return defaultResolver.LastModifiedForFileURI(u)
}

// LastModified returns the modification time of the native file at path in
// milliseconds, or 0 if it does not exist.
func LastModified(path string) int64 {
	return defaultResolver.LastModified(path)
}

// LatestModified returns the greatest LastModified of paths.
func LatestModified(paths []string) int64 {
	return defaultResolver.LatestModified(paths)
}

// absPath makes dir absolute. Filesystems other than the native one have no
// working directory, so relative names are taken from their root.
func (r *Resolver) absPath(dir string) (string, error) {
	if r.native {
		return filepath.Abs(dir)
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir), nil
	}
	return filepath.Join(string(filepath.Separator), dir), nil
}

func scanErrorCode(err error) ferrors.ErrorCode {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ferrors.CodeCanceled
	case errors.Is(err, scanner.ErrInvalidPattern):
		return ferrors.CodeInvalidInput
	default:
		return ferrors.CodeIO
	}
}
