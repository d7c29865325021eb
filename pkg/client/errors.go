package client

// LoginError reports a failed authentication bootstrap. Raw keeps the
// remote's response for diagnostics.
type LoginError struct {
	Raw    []byte
	Reason string
	Cause  error
}

func (e *LoginError) Error() string {
	msg := "client: login failed"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoginError) Unwrap() error { return e.Cause }
