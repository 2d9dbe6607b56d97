package incremental

import (
	"hash"
	"log/slog"

	"github.com/go-git/go-billy/v5"

	fsb "github.com/input-output-hk/catalyst-forge-libs/fileutil/fs/billy"
)

// Option configures a Context.
type Option func(*Context)

// WithStateFile stores the build state at path instead of the XDG cache location.
func WithStateFile(path string) Option {
	return func(c *Context) {
		c.stateFile = path
	}
}

// WithFilesystem uses fsys for scanning, stat calls and the state file.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(c *Context) {
		if fsys != nil {
			c.fs = fsb.NewFS(fsys)
		}
	}
}

// WithLogger configures structured logging. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithHashFunc sets the hash used to fingerprint file contents. The default
// is MD5. Changing it invalidates previously saved state.
func WithHashFunc(hashFunc func() hash.Hash) Option {
	return func(c *Context) {
		if hashFunc != nil {
			c.hashFunc = hashFunc
		}
	}
}
