package submission

import "errors"

// ErrNotConfigured is wrapped by the error returned when no endpoint URL is set.
var ErrNotConfigured = errors.New("submission: endpoint URL not configured")

// Kind classifies a submission failure.
type Kind string

const (
	KindConfig    Kind = "config"
	KindEncode    Kind = "encode"
	KindTransport Kind = "transport"
)

// Error is the typed failure returned by Client.Submit. Message is safe to
// show to the visitor.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
