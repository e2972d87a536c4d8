package errors

import (
	"regexp"
	"unicode"
)

// MaxSourceBytes bounds the size of circuit source accepted over the API.
const MaxSourceBytes = 1 << 20

// ValidateSource checks circuit source text before it reaches the parser.
// It only rejects oversized input. Empty source is an empty circuit; the
// parser is lenient about everything else.
func ValidateSource(src string) error {
	if len(src) > MaxSourceBytes {
		return New(ErrCodeInvalidInput, "circuit source too large (max %d bytes)", MaxSourceBytes)
	}
	return nil
}

// backendNameRegex matches names accepted for built-in and file backends.
var backendNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateBackendName validates a backend name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Letters, digits, dot, underscore and dash only
//   - Maximum length of 128 characters
func ValidateBackendName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidBackend, "backend name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidBackend, "backend name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidBackend, "backend name contains invalid control characters")
		}
	}
	if !backendNameRegex.MatchString(name) {
		return New(ErrCodeInvalidBackend, "invalid backend name: %q", name)
	}
	return nil
}
