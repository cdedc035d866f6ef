package cardpointe

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse is wrapped when a 2xx body is not valid JSON.
var ErrInvalidResponse = errors.New("invalid response body")

// UnsupportedOperationError is returned before any request is sent when the
// service is unknown or does not declare the action.
type UnsupportedOperationError struct {
	Service string
	Action  Action
}

func (e *UnsupportedOperationError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("unsupported service %q", e.Service)
	}
	return fmt.Sprintf("unsupported operation: service %q does not support %q", e.Service, e.Action)
}

// ValidationError reports a payload that cannot be mapped onto the endpoint,
// such as a missing path variable.
type ValidationError struct {
	Service string
	Action  Action
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s.%s: %s: %s", e.Service, e.Action, e.Field, e.Message)
}

// TransportError wraps a failure below HTTP: dial, TLS, timeout, cancellation
// or reading the body.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is returned for any non-2xx status. Body holds the decoded error
// object when the server sent JSON, Raw always holds the bytes.
type APIError struct {
	StatusCode int
	Message    string
	Body       map[string]any
	Raw        string
}

func (e *APIError) Error() string {
	if detail := e.detail(); detail != "" {
		return fmt.Sprintf("api error: %s: %s", e.Message, detail)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}

func (e *APIError) detail() string {
	for _, key := range []string{"message", "resptext", "errormsg"} {
		if s, ok := e.Body[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500
}

// ResponseError is returned with response checks enabled when a 2xx reply
// carries a declined or failed status.
type ResponseError struct {
	Service  string
	Action   Action
	Message  string
	Response *Response
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s.%s declined: %s", e.Service, e.Action, e.Message)
}

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

func IsTransportError(err error) (*TransportError, bool) {
	var transportErr *TransportError
	ok := errors.As(err, &transportErr)
	return transportErr, ok
}

func IsUnsupportedOperation(err error) (*UnsupportedOperationError, bool) {
	var opErr *UnsupportedOperationError
	ok := errors.As(err, &opErr)
	return opErr, ok
}

func IsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	ok := errors.As(err, &validationErr)
	return validationErr, ok
}

func IsResponseError(err error) (*ResponseError, bool) {
	var respErr *ResponseError
	ok := errors.As(err, &respErr)
	return respErr, ok
}
