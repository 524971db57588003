package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds annotation identifiers; UUIDs are 36 characters.
const maxIDLength = 128

// ValidateAnnotationID validates an annotation identifier for safety.
// IDs end up in file names and Redis keys, so they are restricted to a
// conservative character set:
//   - No empty IDs
//   - At most 128 characters
//   - Letters, digits, '-', '_' and '.' only
//   - No path traversal sequences (..)
func ValidateAnnotationID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "annotation id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "annotation id too long (max %d characters)", maxIDLength)
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "annotation id contains invalid characters: %q", "..")
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return New(ErrCodeInvalidInput, "annotation id contains invalid character %q", r)
		}
	}
	return nil
}

// ValidateSource validates the target source of an annotation (an image URL
// or a local file name). Empty sources are rejected, as are control
// characters and null bytes.
func ValidateSource(source string) error {
	if source == "" {
		return New(ErrCodeInvalidInput, "annotation source cannot be empty")
	}
	if len(source) > 2048 {
		return New(ErrCodeInvalidInput, "annotation source too long (max 2048 characters)")
	}
	for _, r := range source {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "annotation source contains invalid control characters")
		}
	}
	return nil
}
