package rpc

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Fixed remote methods of the deferred-task protocol.
const (
	statusMethod    = "report.status.get"
	fetchMethod     = "report.data.get"
	reportTokenKey  = "report_token"
	statusReadyWord = "ready"
)

// Poller drives the submit → poll-until-ready → fetch protocol for methods
// whose results materialize asynchronously on the remote side. One Poller
// serves exactly one in-flight call; its failure counter is never shared.
type Poller struct {
	core        *Core
	delegate    *Executor
	failures    int
	maxFailures int
}

// NewPoller returns the deferred-task strategy bound to core.
func NewPoller(core *Core) *Poller {
	return &Poller{core: core, delegate: NewExecutor(core)}
}

// Handle runs the poll sequence on the caller's goroutine, or hands it to a
// worker pool and returns a *Future when the call or client asks for async
// execution. Deserialization happens inside the sequence, so the future
// resolves to the typed result.
func (p *Poller) Handle(ctx context.Context, call *Call) (any, error) {
	if !call.opts.wantAsync(p.core) {
		return p.run(ctx, call)
	}
	pool := call.opts.pool
	if pool == nil {
		pool = p.core.Pool
	}
	if pool == nil {
		pool = goPool{}
	}
	f := newFuture()
	pool.Submit(func() {
		result, err := p.run(ctx, call)
		f.complete(result, err)
	})
	return f, nil
}

func (p *Poller) run(ctx context.Context, call *Call) (any, error) {
	timeout := pickDuration(call.opts.timeout, p.core.Timeout, DefaultTimeout)
	sleep := pickDuration(call.opts.sleep, p.core.SleepInterval, DefaultSleepInterval)
	p.maxFailures = DefaultMaxFailures
	if p.core.MaxFailures > 0 {
		p.maxFailures = p.core.MaxFailures
	}
	if call.opts.maxFailures != nil {
		p.maxFailures = *call.opts.maxFailures
	}

	// Submit. Any failure here is fatal and not retried.
	raw, err := p.delegate.invoke(ctx, call.Method, call.Params)
	if err != nil {
		return nil, err
	}
	token, err := taskToken(raw)
	if err != nil {
		return nil, err
	}

	log := p.core.logger()
	log.Debug("poll-wait for deferred task",
		zap.String("method", call.Method), zap.String("token", token))
	deadline := time.Now().Add(timeout)
	for {
		if time.Now().After(deadline) {
			log.Error("deferred task timed out",
				zap.String("method", call.Method), zap.Duration("timeout", timeout))
			return nil, &RemoteTimeoutError{Method: call.Method, Timeout: timeout}
		}
		ready, err := p.statusReady(ctx, token)
		if err != nil {
			return nil, err
		}
		if ready {
			break
		}
		if err := sleepCtx(ctx, sleep); err != nil {
			return nil, err
		}
	}

	final, err := p.delegate.invoke(ctx, fetchMethod, Params{reportTokenKey: token})
	if err != nil {
		return nil, err
	}
	return call.finish(final)
}

// statusReady performs one status probe. A successful read resets the
// consecutive-failure counter; a failed or malformed one counts against the
// tolerance and only surfaces once failures exceed it.
func (p *Poller) statusReady(ctx context.Context, token string) (bool, error) {
	raw, err := p.delegate.invoke(ctx, statusMethod, Params{reportTokenKey: token})
	if err == nil {
		if m, ok := raw.(map[string]any); ok {
			if status, present := m["status"]; present {
				p.failures = 0
				return status == statusReadyWord, nil
			}
		}
		err = &RemoteFailedError{Reason: "no status in response"}
	}
	p.failures++
	if p.failures > p.maxFailures {
		return false, &RemoteFailedError{Reason: "task status checks exhausted failure tolerance", Cause: err}
	}
	p.core.logger().Warn("task status check failed, tolerating",
		zap.Int("failures", p.failures), zap.Int("max_failures", p.maxFailures), zap.Error(err))
	return false, nil
}

func taskToken(raw any) (string, error) {
	if m, ok := raw.(map[string]any); ok {
		if token, ok := m[reportTokenKey].(string); ok && token != "" {
			return token, nil
		}
	}
	return "", &RemoteFailedError{Reason: "submit response carries no " + reportTokenKey}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
