package rpc

import "time"

// CallOption adjusts a single invocation. Options are the reserved per-call
// parameters; they are never forwarded to the remote.
type CallOption func(*callOptions)

type callOptions struct {
	deserializer Deserializer
	timeout      time.Duration
	sleep        time.Duration
	maxFailures  *int
	async        *bool
	pool         Pool
}

// WithDeserializer overrides any configured deserializer for this call.
func WithDeserializer(d Deserializer) CallOption {
	return func(o *callOptions) { o.deserializer = d }
}

// WithTimeout bounds this call's poll sequence.
func WithTimeout(d time.Duration) CallOption {
	return func(o *callOptions) { o.timeout = d }
}

// WithSleepInterval sets the pause between status checks for this call.
func WithSleepInterval(d time.Duration) CallOption {
	return func(o *callOptions) { o.sleep = d }
}

// WithMaxFailures sets how many consecutive status-check failures this
// call tolerates before giving up.
func WithMaxFailures(n int) CallOption {
	return func(o *callOptions) { o.maxFailures = &n }
}

// WithAsync forces or suppresses asynchronous execution for this call,
// overriding the client-level default.
func WithAsync(on bool) CallOption {
	return func(o *callOptions) { o.async = &on }
}

// WithPool supplies the worker pool used when this call runs asynchronously.
func WithPool(p Pool) CallOption {
	return func(o *callOptions) { o.pool = p }
}

func applyOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// wantAsync resolves the execution mode: per-call flag first, then the
// client default.
func (o callOptions) wantAsync(c *Core) bool {
	if o.async != nil {
		return *o.async
	}
	return c.RunAsync
}

// pickDuration returns the first non-zero duration.
func pickDuration(vals ...time.Duration) time.Duration {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
