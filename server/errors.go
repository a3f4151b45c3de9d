package server

import "errors"

var (
	// ErrNotFound is returned when a ULID doesn't match any registered server.
	ErrNotFound = errors.New("server: not found")
	// ErrAlreadyStopped is returned by operations issued after Stop has been
	// requested.
	ErrAlreadyStopped = errors.New("server: already stopped")
)
