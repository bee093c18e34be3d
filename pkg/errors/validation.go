package errors

import (
	"strings"
	"unicode"
)

// maxVertexIDLength bounds vertex identifiers accepted from files and requests.
const maxVertexIDLength = 256

// ValidateVertexID validates a vertex identifier read from an instance file
// or an API request.
//
// The text instance format is whitespace separated, so the rules are:
//   - No empty IDs
//   - No whitespace or control characters
//   - Maximum length of 256 characters
func ValidateVertexID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidVertex, "vertex ID cannot be empty")
	}

	if len(id) > maxVertexIDLength {
		return New(ErrCodeInvalidVertex, "vertex ID too long (max %d characters)", maxVertexIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidVertex, "vertex ID %q contains whitespace or control characters", id)
		}
	}

	return nil
}

// ValidatePath validates a file path supplied on the command line or in a
// config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateInstanceName validates an instance name. Names key archived runs
// and end up in output file names, so they must be usable as a basename.
func ValidateInstanceName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInstance, "instance name cannot be empty")
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInstance, "instance name cannot contain path separators")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidInstance, "instance name cannot start with a dot")
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInstance, "instance name contains invalid characters")
		}
	}

	return nil
}
