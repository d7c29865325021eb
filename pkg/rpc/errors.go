package rpc

import (
	"fmt"
	"time"
)

// NoHandlerError reports a handler table exhausted without a match. This is
// a configuration defect (a custom table lacking a catch-all), never a
// protocol failure.
type NoHandlerError struct {
	Method string
	URL    string
	Params Params
}

func (e *NoHandlerError) Error() string {
	return fmt.Sprintf("rpc: no handler can handle method=%s url=%s params=%v", e.Method, e.URL, e.Params)
}

// RemoteFailedError reports a failed round-trip: a transport error, a
// non-success HTTP status, a populated error member, or exhausted failure
// tolerance while polling. Raw keeps the response body for diagnostics.
type RemoteFailedError struct {
	Status int
	Raw    []byte
	Reason string
	Cause  error
}

func (e *RemoteFailedError) Error() string {
	msg := "rpc: remote call failed"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RemoteFailedError) Unwrap() error { return e.Cause }

// RemoteTimeoutError reports a poll sequence abandoned at its deadline.
type RemoteTimeoutError struct {
	Method  string
	Timeout time.Duration
}

func (e *RemoteTimeoutError) Error() string {
	return fmt.Sprintf("rpc: %s: timeout of %s expired while polling", e.Method, e.Timeout)
}
