package providers

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport indicates the request never produced an HTTP response.
	ErrTransport = errors.New("transport error")

	// ErrService indicates the service answered with a non-success status.
	ErrService = errors.New("service error")

	// ErrMalformedResponse indicates a success status with an unexpected body.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrEmptyResponse indicates a well-formed response without completions.
	ErrEmptyResponse = errors.New("no completions in API response")
)

// TransportError wraps connection, TLS, timeout and cancellation failures.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to send request to API: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ServiceError carries the status code and body of a rejected request.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *ServiceError) Is(target error) bool { return target == ErrService }

// MalformedResponseError reports a response body that could not be decoded.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("failed to parse API response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// IsAuthError reports whether err is a service rejection of the credential.
func IsAuthError(err error) bool {
	var se *ServiceError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == 401 || se.StatusCode == 403
}
