package errors

import (
	"strings"
	"unicode"
)

// MaxLabelLength bounds node labels and edge link info.
const MaxLabelLength = 4096

// ValidateLabel checks a label or link-info draft before it is committed.
//
// Newlines, carriage returns and tabs are allowed (link info is multi-line
// and browsers submit CRLF text); other control characters, null bytes and
// oversized text are rejected.
func ValidateLabel(label string) error {
	if len(label) > MaxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", MaxLabelLength)
	}
	for _, r := range label {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}
	return nil
}

// ValidateElementID checks a node or edge ID received from a client.
// IDs are opaque, but must be non-empty single-line text without slashes so
// they can travel in URL paths.
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "id too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id contains invalid control characters")
		}
	}
	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidInput, "id cannot contain slashes")
	}
	return nil
}

// ValidatePath validates a flow document path given to the CLI.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
