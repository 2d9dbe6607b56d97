package fileutil

import "errors"

// ErrMalformedLocator is returned when a path, URL or URI lacks the structure
// an operation needs, e.g. an archive URI without the "!/" separator.
var ErrMalformedLocator = errors.New("malformed locator")

// ErrInvalidSyntax is returned when a string extracted as a URI does not parse.
var ErrInvalidSyntax = errors.New("invalid URI syntax")

// ErrNotFileURI is returned when a URI does not address a local file.
var ErrNotFileURI = errors.New("not a local file URI")

// ErrNotDirectory is returned when a directory scan is asked to scan a file.
var ErrNotDirectory = errors.New("not a directory")
