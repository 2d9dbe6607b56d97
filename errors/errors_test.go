package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = errors.New("sentinel")

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "with locator",
			err:      New(CodeMalformedLocator, "archive-uri", "file:/a.jar", errSentinel),
			expected: `fileutil.archive-uri "file:/a.jar": sentinel`,
		},
		{
			name:     "without locator",
			err:      New(CodeIO, "scan", "", errSentinel),
			expected: "fileutil.scan: sentinel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeIO, "scan", "/tmp", errSentinel))
	assert.ErrorIs(t, err, errSentinel)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInvalidSyntax, CodeOf(fmt.Errorf("wrap: %w", New(CodeInvalidSyntax, "op", "", errSentinel))))
	assert.Equal(t, CodeUnknown, CodeOf(errSentinel))
	assert.Equal(t, CodeUnknown, CodeOf(nil))
}
