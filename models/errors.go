package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrDuplicate          = errors.New("duplicate record")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// RequestError pairs a user-facing message with one of the sentinel
// errors above so callers can classify with errors.Is while handlers
// return the message verbatim.
type RequestError struct {
	Kind error
	Msg  string
}

func (e *RequestError) Error() string { return e.Msg }

func (e *RequestError) Unwrap() error { return e.Kind }

func NotFoundf(format string, args ...any) error {
	return &RequestError{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func InvalidRequestf(format string, args ...any) error {
	return &RequestError{Kind: ErrInvalidRequest, Msg: fmt.Sprintf(format, args...)}
}
