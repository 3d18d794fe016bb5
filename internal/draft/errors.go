package draft

import (
	"fmt"
	"strings"
)

// FieldError is a validation failure attached to one field path.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationErrors lists every field-level failure found by Validate.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Path + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether path has a validation error.
func (v ValidationErrors) Has(path string) bool {
	for _, fe := range v {
		if fe.Path == path {
			return true
		}
	}
	return false
}

// ReferenceError reports a selected exercise that no longer resolves in the catalog.
type ReferenceError struct {
	Path       string
	ExerciseID string
	Err        error
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: exercise %q does not resolve: %v", e.Path, e.ExerciseID, e.Err)
}

func (e *ReferenceError) Unwrap() error { return e.Err }
