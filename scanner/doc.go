// Package scanner enumerates files below a base directory that match
// include and exclude glob patterns.
//
// Scanner is the capability set shared by every scanning backend: the
// standalone DirectoryScanner in this package and host-provided scanners such
// as the incremental build context. Patterns are slash-separated and relative
// to the base directory; "**" matches any number of directories and a pattern
// ending in "/" matches everything below that directory.
package scanner
