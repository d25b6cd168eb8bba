package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the backend rejected the bearer token (401) or
// no token is stored. The client clears the stored token before returning
// this, so the caller's only recovery is a fresh login.
var ErrUnauthorized = errors.New("not authenticated")

// ErrNoSession indicates the backend has no session for the current user.
var ErrNoSession = errors.New("no active session")

// APIError is a non-2xx response from the backend. Detail carries the
// server's structured detail message when present, else the raw body.
type APIError struct {
	Status    int
	Detail    string
	RequestID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Detail)
}

// ErrUnavailable indicates the backend could not be reached at all.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("backend unavailable: %v", e.Err)
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// InvalidPayloadError indicates the backend returned JSON that does not
// conform to the expected schema.
type InvalidPayloadError struct {
	Content json.RawMessage
	Err     error
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("invalid backend payload: %v", e.Err)
}

func (e *InvalidPayloadError) Unwrap() error { return e.Err }
