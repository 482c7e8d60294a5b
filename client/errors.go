package client

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed execution.
type ErrorKind int

const (
	// Network covers transport failures, timeouts and cancellation.
	Network ErrorKind = iota
	// HTTPStatus is a response with a non-2xx status code.
	HTTPStatus
	// Decode is a response body that is not a SPARQL JSON results document.
	Decode
)

func (k ErrorKind) String() string {
	switch k {
	case Network:
		return "network"
	case HTTPStatus:
		return "http status"
	case Decode:
		return "decode"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ExecutionError is returned by Execute for every failure.
type ExecutionError struct {
	Kind       ErrorKind
	StatusCode int
	// Message is the first line of the response body for HTTPStatus errors.
	Message string
	Err     error
}

func (e *ExecutionError) Error() string {
	switch e.Kind {
	case HTTPStatus:
		msg := fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
		if e.Message != "" {
			msg += ": " + e.Message
		}
		return msg
	case Decode:
		return fmt.Sprintf("decode error: %v", e.Err)
	default:
		return fmt.Sprintf("network error: %v", e.Err)
	}
}

func (e *ExecutionError) Unwrap() error { return e.Err }
