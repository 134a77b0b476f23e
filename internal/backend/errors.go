package backend

import (
	"errors"
	"fmt"
)

// GenericMessage is what a page shows for any failure that is not a backend domain error.
const GenericMessage = "Error contacting backend. Please check if the server is running and try again."

// Kind classifies a backend failure.
type Kind int

const (
	// Transport means the request never produced an HTTP response.
	Transport Kind = iota + 1
	// Status means the backend answered with a non-2xx status.
	Status
	// Malformed means the body was not JSON or lacked the expected result fields.
	Malformed
	// Domain means the backend rejected the input with an {"error": "..."} body.
	Domain
)

func (k Kind) String() string {
	switch k {
	case Transport:
		return "transport"
	case Status:
		return "status"
	case Malformed:
		return "malformed"
	case Domain:
		return "domain"
	default:
		return "unknown"
	}
}

// Error is returned by every Client call that fails.
type Error struct {
	Kind       Kind
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("backend %s %s", e.Endpoint, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the text shown to the user for err. Domain errors are surfaced verbatim.
func UserMessage(err error) string {
	var be *Error
	if errors.As(err, &be) && be.Kind == Domain && be.Message != "" {
		return be.Message
	}
	return GenericMessage
}

// IsKind reports whether err is a backend error of kind k.
func IsKind(err error, k Kind) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == k
}
