package fileutil

import (
	"log/slog"

	"github.com/go-git/go-billy/v5"

	fsb "github.com/input-output-hk/catalyst-forge-libs/fileutil/fs/billy"
	"github.com/input-output-hk/catalyst-forge-libs/fileutil/scanner"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger configures structured logging. If logger is nil, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithFilesystem resolves files against fsys instead of the native filesystem.
// Relative directories are then taken relative to the root of fsys.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(r *Resolver) {
		if fsys != nil {
			r.fs = fsb.NewFS(fsys)
			r.native = false
		}
	}
}

// WithBuildContext delegates directory scanning to a host build context.
func WithBuildContext(bc BuildContext) Option {
	return func(r *Resolver) {
		r.buildContext = bc
	}
}

// WithScannerOptions passes extra options to the standalone directory scanner.
// They are ignored when a build context is configured.
func WithScannerOptions(opts ...scanner.Option) Option {
	return func(r *Resolver) {
		r.scannerOpts = append(r.scannerOpts, opts...)
	}
}
