package intake

import "errors"

var (
	// ErrUnknownField is returned for a field name that is not in the schema
	ErrUnknownField = errors.New("intake: unknown field")

	// ErrInvalidValue is returned when a value cannot be coerced to the field's shape
	ErrInvalidValue = errors.New("intake: invalid value")

	// ErrClearNotConfirmed is returned when clearing the form without confirmation
	ErrClearNotConfirmed = errors.New("intake: clear requires confirmation")

	// ErrSubmissionInFlight is returned while a submission is running
	ErrSubmissionInFlight = errors.New("intake: submission in progress")

	// ErrSessionNotFound is returned when a session has neither a live form nor a draft
	ErrSessionNotFound = errors.New("intake: session not found")
)
