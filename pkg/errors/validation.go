package errors

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// maxSketchNameLength bounds saved sketch names.
const maxSketchNameLength = 64

// sketchNameRegex matches names usable as store keys and file names.
var sketchNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateSketchName validates a name under which a sketch is saved.
// Names end up in gdata property keys and Redis keys, so the rules are
// conservative:
//   - No empty names
//   - Maximum length of 64 characters
//   - No control characters or path separators
//   - No path traversal sequences (..)
//   - Must start with a letter or digit
func ValidateSketchName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "sketch name cannot be empty")
	}

	if len(name) > maxSketchNameLength {
		return New(ErrCodeInvalidName, "sketch name too long (max %d characters)", maxSketchNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "sketch name contains invalid control characters")
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "sketch name cannot contain path traversal sequences (..)")
	}

	if !sketchNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid sketch name: %q", name)
	}

	return nil
}

// ValidateFormat checks that format is one of allowed (case-sensitive).
func ValidateFormat(format string, allowed ...string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}
