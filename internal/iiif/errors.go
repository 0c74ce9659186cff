package iiif

import (
	"errors"
	"fmt"
)

// Retrieval and decoding errors.
// Typed errors below unwrap to these sentinels.
var (
	// ErrFetch is returned when the HTTP request could not be performed.
	ErrFetch = errors.New("failed to fetch document")

	// ErrUnexpectedStatus is returned when the server answers with anything but 200.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrBodyTooLarge is returned when the response exceeds the configured body limit.
	ErrBodyTooLarge = errors.New("response body exceeds size limit")

	// ErrInvalidJSON is returned when the document is not valid JSON.
	ErrInvalidJSON = errors.New("document is not valid JSON")

	// ErrContextMismatch is returned when @context is not the Presentation 2 context.
	ErrContextMismatch = errors.New("unexpected @context")

	// ErrTypeMismatch is returned when @type differs from the expected type.
	ErrTypeMismatch = errors.New("unexpected @type")

	// ErrInvalidManifest is returned when the manifest does not have the expected shape.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrNoSequence is returned when a manifest has no sequence to project.
	ErrNoSequence = errors.New("manifest has no sequences")

	// ErrMissingField is returned when a canvas lacks a required field.
	ErrMissingField = errors.New("missing required field")
)

// StatusError reports a non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d", ErrUnexpectedStatus, e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// ContextMismatchError reports a document whose @context is not PresentationContext.
// Got holds the raw JSON value found in the document.
type ContextMismatchError struct {
	Got string
}

func (e *ContextMismatchError) Error() string {
	return fmt.Sprintf("%s: got %s, want %q", ErrContextMismatch, e.Got, PresentationContext)
}

func (e *ContextMismatchError) Unwrap() error { return ErrContextMismatch }

// TypeMismatchError reports a document whose @type is not the expected one.
type TypeMismatchError struct {
	Got  string
	Want string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: got %q, want %q", ErrTypeMismatch, e.Got, e.Want)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// MissingFieldError reports a canvas without one of @id, label, width or height.
// Index is the canvas position in its sequence, or -1 for a standalone canvas.
type MissingFieldError struct {
	Field string
	Index int
}

func (e *MissingFieldError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("canvas: %s %q", ErrMissingField, e.Field)
	}
	return fmt.Sprintf("canvas %d: %s %q", e.Index, ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }
