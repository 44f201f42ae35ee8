// Package chat orchestrates the retrieval-augmented chat pipeline.
package chat

import (
	"errors"
	"fmt"
)

// ValidationError rejects malformed client input. It maps to a 4xx at the
// HTTP boundary and may safely carry field-level detail to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrEmptyMessage is returned when the chat message is missing or blank.
var ErrEmptyMessage = &ValidationError{Message: "Message is required"}

// UpstreamError marks a failure of one of the external collaborators
// (embedding, search, completion). It maps to a generic 5xx at the HTTP
// boundary; the wrapped detail is for server-side logs only.
type UpstreamError struct {
	Stage string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream failed: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is client-input rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUpstream reports whether err came from an external collaborator.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
