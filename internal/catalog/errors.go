package catalog

import (
	"errors"
	"fmt"
)

// ErrRequestFailed is the uniform failure signal for every catalog call.
// Match it with errors.Is; use errors.As with *RequestError for details.
var ErrRequestFailed = errors.New("request failed")

// RequestError describes a failed catalog call
type RequestError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: %v (%d): %s", e.Op, ErrRequestFailed, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %v (%d)", e.Op, ErrRequestFailed, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, ErrRequestFailed, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %v: %s", e.Op, ErrRequestFailed, e.Message)
	default:
		return fmt.Sprintf("%s: %v", e.Op, ErrRequestFailed)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}
