package incremental

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"

	fsb "github.com/input-output-hk/catalyst-forge-libs/fileutil/fs/billy"
	"github.com/input-output-hk/catalyst-forge-libs/fileutil/scanner"
)

// stateVersion is bumped whenever the state document layout changes.
const stateVersion = 2

// DefaultStateFile is the state location relative to the XDG cache home.
var DefaultStateFile = filepath.Join("catalyst-forge", "fileutil", "incremental.json")

// fileState identifies a file version by size and content checksum. ModTime
// only lets an unchanged modification time skip rehashing.
type fileState struct {
	Size     int64  `json:"size"`
	ModTime  int64  `json:"mtime"`
	Checksum string `json:"checksum"`
}

func (s fileState) sameContent(other fileState) bool {
	return s.Size == other.Size && s.Checksum == other.Checksum
}

type stateDocument struct {
	Version int                  `json:"version"`
	Files   map[string]fileState `json:"files"`
}

// Context tracks file state across builds. It is safe for concurrent use.
type Context struct {
	mu        sync.Mutex
	fs        *fsb.FS
	logger    *slog.Logger
	stateFile string
	hashFunc  func() hash.Hash

	// committed holds the state recorded by the last Commit, keyed by canonical path.
	committed map[string]fileState
	// pending holds the state of files reported since the last Commit.
	pending map[string]fileState
}

// New creates a Context and loads previously saved state, if any.
func New(opts ...Option) (*Context, error) {
	c := &Context{
		fs:        fsb.NewBaseOSFS(),
		hashFunc:  md5.New,
		committed: make(map[string]fileState),
		pending:   make(map[string]fileState),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.Load(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewScanner returns a scanner over basedir. When ignoreDelta is false the
// scanner only reports files that are new or changed since the last Commit.
//
//nolint:ireturn // the build context contract returns the Scanner capability set.
func (c *Context) NewScanner(basedir string, ignoreDelta bool) scanner.Scanner {
	return &deltaScanner{
		bc:          c,
		basedir:     basedir,
		ignoreDelta: ignoreDelta,
		inner: scanner.NewDirectoryScanner(basedir,
			scanner.WithFilesystem(c.fs.Raw()),
			scanner.WithLogger(c.logger)),
	}
}

// HasDelta reports whether path is new or changed since the last Commit.
// Paths that cannot be read are reported as changed.
func (c *Context) HasDelta(path string) bool {
	_, _, changed, err := c.compare(path)
	return err != nil || changed
}

// Commit records the state of every file reported since the previous Commit.
func (c *Context) Commit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.pending {
		c.committed[k] = v
	}
	c.pending = make(map[string]fileState)
}

// Reset forgets all recorded state so the next scan reports every file.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.committed = make(map[string]fileState)
	c.pending = make(map[string]fileState)
}

// Load replaces the committed state with the saved state. A missing state
// file leaves the state empty; a state file of another version is ignored.
func (c *Context) Load() error {
	path, err := c.statePath(false)
	if err != nil || path == "" {
		return err
	}

	exists, err := c.fs.Exists(path)
	if err != nil {
		return fmt.Errorf("failed to check state file %s: %w", path, err)
	}
	if !exists {
		return nil
	}

	data, err := c.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read state file %s: %w", path, err)
	}

	var doc stateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse state file %s: %w", path, err)
	}

	if doc.Version != stateVersion {
		if c.logger != nil {
			c.logger.Warn("ignoring incremental state of unsupported version",
				"state_file", path,
				"version", doc.Version)
		}
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.committed = make(map[string]fileState, len(doc.Files))
	for k, v := range doc.Files {
		c.committed[k] = v
	}
	return nil
}

// Save writes the committed state to the state file.
func (c *Context) Save() error {
	path, err := c.statePath(true)
	if err != nil {
		return err
	}

	c.mu.Lock()
	doc := stateDocument{
		Version: stateVersion,
		Files:   make(map[string]fileState, len(c.committed)),
	}
	for k, v := range c.committed {
		doc.Files[k] = v
	}
	c.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if err := c.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := c.fs.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}

	if c.logger != nil {
		c.logger.Debug("incremental state saved",
			"state_file", path,
			"files", len(doc.Files))
	}
	return nil
}

// statePath resolves the state file location. Without an explicit state file
// the XDG cache is used; create controls whether the cache directory may be
// created or only searched.
func (c *Context) statePath(create bool) (string, error) {
	if c.stateFile != "" {
		return c.stateFile, nil
	}
	if create {
		path, err := xdg.CacheFile(DefaultStateFile)
		if err != nil {
			return "", fmt.Errorf("failed to resolve state file location: %w", err)
		}
		return path, nil
	}
	path, err := xdg.SearchCacheFile(DefaultStateFile)
	if err != nil {
		// nothing saved yet
		return "", nil
	}
	return path, nil
}

// compare snapshots path and reports whether it differs from the committed
// state. The returned key is the canonical path the state is recorded under.
func (c *Context) compare(path string) (string, fileState, bool, error) {
	key, err := c.fs.Canonical(path)
	if err != nil {
		return "", fileState{}, false, err
	}
	info, err := c.fs.Stat(key)
	if err != nil {
		return "", fileState{}, false, err
	}

	c.mu.Lock()
	prev, seen := c.committed[key]
	c.mu.Unlock()

	current := fileState{Size: info.Size(), ModTime: info.ModTime().UnixNano()}
	if seen && prev.Size == current.Size && prev.ModTime == current.ModTime {
		return key, prev, false, nil
	}

	current.Checksum, err = c.checksum(key)
	if err != nil {
		return "", fileState{}, false, err
	}
	return key, current, !seen || !prev.sameContent(current), nil
}

func (c *Context) checksum(path string) (string, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for checksum computation: %w", err)
	}
	defer f.Close()

	h := c.hashFunc()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to compute checksum: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// deltaScanner filters the files found by a DirectoryScanner through the
// build context state.
type deltaScanner struct {
	bc          *Context
	basedir     string
	ignoreDelta bool
	inner       *scanner.DirectoryScanner
	included    []string
}

var _ scanner.Scanner = (*deltaScanner)(nil)

func (s *deltaScanner) SetIncludes(includes []string) { s.inner.SetIncludes(includes) }

func (s *deltaScanner) SetExcludes(excludes []string) { s.inner.SetExcludes(excludes) }

func (s *deltaScanner) AddDefaultExcludes() { s.inner.AddDefaultExcludes() }

func (s *deltaScanner) IncludedFiles() []string { return s.included }

func (s *deltaScanner) Scan(ctx context.Context) error {
	if err := s.inner.Scan(ctx); err != nil {
		return err
	}

	var included []string
	for _, rel := range s.inner.IncludedFiles() {
		key, current, changed, err := s.bc.compare(filepath.Join(s.basedir, rel))
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", rel, err)
		}
		if !changed && !s.ignoreDelta {
			continue
		}

		s.bc.mu.Lock()
		s.bc.pending[key] = current
		s.bc.mu.Unlock()
		included = append(included, rel)
	}

	if s.bc.logger != nil {
		s.bc.logger.DebugContext(ctx, "incremental scan",
			"basedir", s.basedir,
			"ignore_delta", s.ignoreDelta,
			"matched", len(s.inner.IncludedFiles()),
			"reported", len(included))
	}

	s.included = included
	return nil
}
