// ABOUTME: Sentinel errors shared across the core, storage, and transport layers
// ABOUTME: Checked with errors.Is; wrapped with fmt.Errorf %w for detail
package models

import "errors"

var (
	// ErrNotFound indicates an unknown document, session, or user id.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates an ownership or role check failed.
	ErrForbidden = errors.New("permission denied")

	// ErrValidation indicates the request was rejected before any external call.
	ErrValidation = errors.New("invalid request")

	// ErrUnsupportedFormat indicates a file type text extraction cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExternalService indicates an embedding or completion call failed or timed out.
	ErrExternalService = errors.New("external service failure")
)
