package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the server rejected the stored token. The token has been cleared.
	ErrUnauthorized = errors.New("session expired, please log in again")
	// ErrNotAuthenticated means no token is held, so no request was sent.
	ErrNotAuthenticated = errors.New("not logged in")
)

type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// TransportError covers network failures and non-2xx responses other than 401.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }
