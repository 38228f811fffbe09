package api

import (
	"fmt"

	"github.com/ppiankov/aletheia/internal/model"
)

// TransportError is a network-level failure: connection refused, DNS, timeout
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError is a response with a status outside 200-299
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// ApplicationError is a logical failure reported inside a response envelope
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// MalformedResponseError is a body that is not JSON or not the expected shape
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed response: " + e.Reason
}

// ValidationError is invalid caller input, such as an empty query
type ValidationError = model.ValidationError
