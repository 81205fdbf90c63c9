package proxy

import (
	"errors"
	"fmt"
)

// Kind classifies an APIError.
type Kind string

const (
	// KindTransport covers failures before a usable response arrived:
	// connection errors, timeouts, unreadable or malformed bodies.
	KindTransport Kind = "transport"
	// KindService covers responses where the service reported a failure,
	// or answered without any completion.
	KindService Kind = "service"
)

// errNoChoices is the message used when a 2xx response carries no choices.
const errNoChoices = "no answer choices found"

// APIError is the only error type returned by Client.Ask.
type APIError struct {
	Kind    Kind
	Code    int // HTTP status; 0 for transport failures
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// AsAPIError reports whether err is (or wraps) an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func transportError(err error) *APIError {
	return &APIError{Kind: KindTransport, Message: err.Error(), Cause: err}
}
