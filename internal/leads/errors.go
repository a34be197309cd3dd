package leads

import "errors"

var (
	// ErrMissingSession is returned when a lead has no intake session
	ErrMissingSession = errors.New("session id is required")

	// ErrInvalidName is returned when the name is invalid
	ErrInvalidName = errors.New("name is required")

	// ErrMissingEmail is returned when the email is missing
	ErrMissingEmail = errors.New("email is required")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)
