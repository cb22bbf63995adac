package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrServer       = errors.New("server error")
	ErrDecode       = errors.New("malformed response")
)

// ServerError is a non-2xx response other than 401/403.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	msg := fmt.Sprintf("server error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *ServerError) Unwrap() error { return ErrServer }

// DecodeError means a 2xx response body did not match the expected schema.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }
