package domain

import "errors"

var (
	// ErrValidation is returned when caller input is rejected (empty player name, unknown choice).
	ErrValidation = errors.New("validation failed")
	// ErrState is returned when an operation is invoked in the wrong stage.
	ErrState = errors.New("invalid session state")
	// ErrStorage marks persisted data that could not be read or written.
	ErrStorage = errors.New("storage failure")
	// ErrNotFound is returned by storage backends when a key holds no value.
	ErrNotFound = errors.New("key not found")
	// ErrSessionNotFound is returned when a session id is unknown.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidQuestion indicates a malformed question bank record.
	ErrInvalidQuestion = errors.New("invalid question")
)
