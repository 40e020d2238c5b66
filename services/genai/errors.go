package genai

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredentials = errors.New("missing API key for generative AI provider")
	ErrEmptyResponse      = errors.New("model returned no text")
)

// GenerationError wraps any failure of a single model call with the provider that produced it.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func fail(provider string, err error) error {
	return &GenerationError{Provider: provider, Err: err}
}
