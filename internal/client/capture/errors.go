package capture

import (
	"errors"
	"fmt"
)

var (
	ErrCapture = errors.New("capture failed")

	// ErrPermissionDenied ends the current capture attempt.
	ErrPermissionDenied = errors.New("camera permission denied")
)

// CaptureError reports a failed capture or transform step.
type CaptureError struct {
	Op  string
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture %s: %v", e.Op, e.Err)
}

func (e *CaptureError) Unwrap() []error { return []error{ErrCapture, e.Err} }
