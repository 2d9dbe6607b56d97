// Package fileutil resolves the files a build plugin works on.
//
// It turns paths, URLs and URIs into input sources for document loaders,
// scans directories for files matching include/exclude patterns, extracts the
// container location from archive URIs such as
// "jar:file:/a/b.jar!/schema.xsd" and reads modification times of files
// addressed by "file:" URIs.
//
// The package level functions operate on the native filesystem. A Resolver
// created with New can be pointed at any go-billy filesystem, a build context
// for incremental builds, and a logger:
//
//	r := fileutil.New(
//	    fileutil.WithLogger(logger),
//	    fileutil.WithBuildContext(bc),
//	)
//	files, err := r.ScanDirectory(ctx, "src/main/resources", []string{"**/*.xsd"}, nil, true)
//
// Scanning a directory that does not exist yields no files and no error, and a
// timestamp that cannot be determined is reported as unknown rather than as
// an error, since callers treat both as ordinary outcomes.
package fileutil
