package fileutil

import (
	"net/url"
	"strings"
)

// InputSource is the locator handed to document loaders.
type InputSource struct {
	// SystemID is a path, URL or URI with spaces escaped.
	SystemID string
}

// String returns the system identifier.
func (s InputSource) String() string {
	return s.SystemID
}

// EscapeSpace replaces every space in s with "%20".
func EscapeSpace(s string) string {
	return strings.ReplaceAll(s, " ", "%20")
}

// InputSourceFromPath returns an input source for the file at path. The path
// is converted to an absolute file URL; if that fails the raw path is used.
func InputSourceFromPath(path string) InputSource {
	u, err := FileURL(path)
	if err != nil {
		return InputSource{SystemID: path}
	}
	return InputSourceFromURL(u)
}

// InputSourceFromURL returns an input source for u.
func InputSourceFromURL(u *url.URL) InputSource {
	return InputSource{SystemID: EscapeSpace(u.String())}
}

// InputSourceFromURI returns an input source for the URI string uri.
func InputSourceFromURI(uri string) InputSource {
	return InputSource{SystemID: EscapeSpace(uri)}
}
