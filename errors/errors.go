package errors

import (
	"errors"
	"fmt"
)

// Error describes a failed operation on a locator.
type Error struct {
	// Code classifies the failure.
	Code ErrorCode

	// Op is the operation that failed (e.g. "scan", "archive-uri", "file-uri").
	Op string

	// Locator is the path, URL or URI the operation was applied to.
	Locator string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Locator != "" {
		return fmt.Sprintf("fileutil.%s %q: %v", e.Op, e.Locator, e.Err)
	}
	return fmt.Sprintf("fileutil.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error so sentinels stay visible to errors.Is.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error.
func New(code ErrorCode, op, locator string, err error) *Error {
	return &Error{
		Code:    code,
		Op:      op,
		Locator: locator,
		Err:     err,
	}
}

// CodeOf returns the code of the first Error in err's chain, or CodeUnknown.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
