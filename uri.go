package fileutil

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	ferrors "github.com/input-output-hk/catalyst-forge-libs/fileutil/errors"
)

const (
	// ArchiveScheme is the scheme of URIs addressing entries inside archives.
	ArchiveScheme = "jar"

	// ArchiveSeparator separates the archive location from the entry path.
	ArchiveSeparator = "!/"

	fileScheme = "file"
)

// FileURL returns the absolute "file" URL of path. When path names an
// existing directory the URL ends with "/".
func FileURL(path string) (*url.URL, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ferrors.New(ferrors.CodeMalformedLocator, "file-url", path,
			fmt.Errorf("%w: %w", ErrMalformedLocator, err))
	}

	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		// volume names, e.g. C:/dir
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		if info, err := defaultResolver.fs.Stat(abs); err == nil && info.IsDir() {
			p += "/"
		}
	}
	return &url.URL{Scheme: fileScheme, Path: p}, nil
}

// FileURLs maps FileURL over paths, stopping at the first failure.
func FileURLs(paths []string) ([]*url.URL, error) {
	urls := make([]*url.URL, 0, len(paths))
	for _, path := range paths {
		u, err := FileURL(path)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// FilePathFromURI returns the local path addressed by a "file" URI. The URI
// must be hierarchical and absolute, with no authority, query or fragment.
func FilePathFromURI(u *url.URL) (string, error) {
	if u == nil {
		return "", ferrors.New(ferrors.CodeInvalidInput, "file-uri", "", ErrNotFileURI)
	}

	var reason string
	switch {
	case u.Opaque != "":
		reason = "URI is not hierarchical"
	case !strings.EqualFold(u.Scheme, fileScheme):
		reason = "URI scheme is not \"file\""
	case u.Host != "" || u.User != nil:
		reason = "URI has an authority component"
	case u.RawQuery != "" || u.ForceQuery:
		reason = "URI has a query component"
	case u.Fragment != "":
		reason = "URI has a fragment component"
	case u.Path == "":
		reason = "URI path component is empty"
	case !strings.HasPrefix(u.Path, "/"):
		reason = "URI is not absolute"
	}
	if reason != "" {
		return "", ferrors.New(ferrors.CodeInvalidInput, "file-uri", u.String(),
			fmt.Errorf("%w: %s", ErrNotFileURI, reason))
	}

	return filepath.FromSlash(u.Path), nil
}

// MainURIFromArchiveURI returns the location of the archive that u points
// into, e.g. "file:/a/b.jar" for "jar:file:/a/b.jar!/x/y.txt". It only
// inspects the URI; nothing is read from disk.
func MainURIFromArchiveURI(u *url.URL) (*url.URL, error) {
	if u == nil {
		return nil, ferrors.New(ferrors.CodeMalformedLocator, "archive-uri", "", ErrMalformedLocator)
	}

	locator := u.Opaque
	if locator == "" {
		locator = u.Path
	}

	idx := strings.Index(locator, ArchiveSeparator)
	if idx < 0 {
		return nil, ferrors.New(ferrors.CodeMalformedLocator, "archive-uri", u.String(),
			fmt.Errorf("%w: no %s found in %q", ErrMalformedLocator, ArchiveSeparator, locator))
	}

	container, err := url.Parse(locator[:idx])
	if err != nil {
		return nil, ferrors.New(ferrors.CodeInvalidSyntax, "archive-uri", locator[:idx],
			fmt.Errorf("%w: %w", ErrInvalidSyntax, err))
	}
	return container, nil
}
