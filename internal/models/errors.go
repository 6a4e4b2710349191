package models

import "errors"

// Error taxonomy shared by the core and its collaborators. Callers wrap these
// with fmt.Errorf("...: %w", err) and transports map them with errors.Is.
var (
	// ErrValidation marks malformed or missing mandatory input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a referenced submission or repository that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrCorruptInput marks an uploaded document that cannot be read.
	ErrCorruptInput = errors.New("corrupt input")
	// ErrRateLimited marks an upstream refusing requests for quota reasons.
	ErrRateLimited = errors.New("rate limited")
	// ErrUpstream marks any other third-party failure.
	ErrUpstream = errors.New("upstream error")
)
