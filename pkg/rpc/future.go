package rpc

import (
	"context"
	"sync"
)

// Pool runs a poll sequence off the caller's goroutine. Any worker pool can
// adapt to it via PoolFunc.
type Pool interface {
	Submit(task func())
}

// PoolFunc adapts a submit function to the Pool interface.
type PoolFunc func(task func())

func (f PoolFunc) Submit(task func()) { f(task) }

// goPool is the fallback when neither the call nor the client supplies a
// pool: a worker dedicated to this one sequence.
type goPool struct{}

func (goPool) Submit(task func()) { go task() }

// Future is the handle for an asynchronous poll sequence. Abandoning the
// handle does not stop the underlying work.
type Future struct {
	done   chan struct{}
	once   sync.Once
	result any
	err    error
}

func newFuture() *Future { return &Future{done: make(chan struct{})} }

func completedFuture(result any, err error) *Future {
	f := newFuture()
	f.complete(result, err)
	return f
}

func (f *Future) complete(result any, err error) {
	f.once.Do(func() {
		f.result = result
		f.err = err
		close(f.done)
	})
}

// Done is closed once the sequence reaches a terminal outcome.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until completion or ctx cancellation and returns the outcome.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-f.done:
		return f.result, f.err
	}
}
