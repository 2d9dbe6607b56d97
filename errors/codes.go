// Package errors provides the error vocabulary for fileutil operations.
// It pairs string error codes with an Error type that records the failing
// operation and the locator (path, URL or URI) it was applied to.
package errors

// ErrorCode classifies a failure. Codes are strings so they read well in logs.
type ErrorCode string

const (
	// Locator errors.

	// CodeMalformedLocator indicates a path, URL or URI lacks required structure,
	// such as the archive separator in an archive URI.
	CodeMalformedLocator ErrorCode = "MALFORMED_LOCATOR"

	// CodeInvalidSyntax indicates a candidate URI could not be parsed.
	CodeInvalidSyntax ErrorCode = "INVALID_SYNTAX"

	// CodeInvalidInput indicates the provided input is invalid, e.g. a URI that
	// does not address a local file.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Filesystem errors.

	// CodeIO indicates a filesystem operation failed.
	CodeIO ErrorCode = "IO_ERROR"

	// Execution errors.

	// CodeCanceled indicates the operation stopped because its context ended.
	CodeCanceled ErrorCode = "CANCELED"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
