package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError is any failure between asking and getting a usable answer:
// network errors, timeouts, non-2xx statuses and malformed payloads.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrUnsupported is returned for operations a resource does not offer.
var ErrUnsupported = errors.New("operation not supported by this resource")

// IsTransportError reports whether err came from the transport.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsNotFound reports whether the server answered 404.
func IsNotFound(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode == http.StatusNotFound
}
