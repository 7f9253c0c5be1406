package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrDecode marks a response body that is not the expected JSON.
var ErrDecode = errors.New("decode response")

// RejectedError is a domain rejection: the server answered a submission
// with a non-ok status and an error message meant for the user.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected (%d): %s", e.Status, e.Message)
}

// UserMessage is the text shown next to the input. Servers that reject
// without a message fall back to the HTTP status text.
func (e *RejectedError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if text := http.StatusText(e.Status); text != "" {
		return text
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// StatusError is a non-ok response to a read-only request.
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

// IsRejected reports whether err carries a RejectedError.
func IsRejected(err error) (*RejectedError, bool) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected, true
	}
	return nil, false
}
