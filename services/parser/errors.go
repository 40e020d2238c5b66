package parser

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedJSON  = errors.New("malformed JSON")
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// MalformedJSONError means the model output, after fence stripping, is not JSON.
type MalformedJSONError struct {
	Err error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("%s: %v", ErrMalformedJSON, e.Err)
}

func (e *MalformedJSONError) Unwrap() error { return e.Err }

func (e *MalformedJSONError) Is(target error) bool { return target == ErrMalformedJSON }

// SchemaMismatchError names the location and reason of a shape violation.
type SchemaMismatchError struct {
	Path   string
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrSchemaMismatch, e.Reason)
	}
	return fmt.Sprintf("%s at %s: %s", ErrSchemaMismatch, e.Path, e.Reason)
}

func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchemaMismatch }

func mismatch(path, format string, args ...any) error {
	return &SchemaMismatchError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
