package rpc

import (
	"context"
	"strings"
)

// Params is the open set of keyword parameters forwarded as the request's
// params member.
type Params map[string]any

// Call is one invocation handed to a strategy: the resolved dotted method
// name, its params, the per-call options and the resolved deserializer.
type Call struct {
	Method string
	Params Params

	opts  callOptions
	deser Deserializer
}

// finish applies the call's deserializer to the raw terminal result.
func (c *Call) finish(raw any) (any, error) {
	if c.deser == nil {
		return raw, nil
	}
	return c.deser.CreateFrom(raw)
}

// Handler is an execution strategy for one call.
type Handler interface {
	Handle(ctx context.Context, call *Call) (any, error)
}

// Predicate decides whether a registration takes a call. It sees the remote
// URL, the dotted method name and the call's params.
type Predicate func(url, method string, params Params) bool

// Factory builds a fresh handler instance for one call. Strategies carrying
// per-sequence state (the poller's failure counter) rely on this.
type Factory func(core *Core) Handler

// Registration is one (predicate, strategy) pair in the ordered table.
type Registration struct {
	Match Predicate
	Build Factory
}

// DefaultHandlers is the built-in table: method names ending in ".task"
// poll for a deferred result, everything else runs one round-trip.
func DefaultHandlers() []Registration {
	return []Registration{
		{
			Match: func(_, method string, _ Params) bool { return strings.HasSuffix(method, ".task") },
			Build: func(c *Core) Handler { return NewPoller(c) },
		},
		{
			Match: func(_, _ string, _ Params) bool { return true },
			Build: func(c *Core) Handler { return NewExecutor(c) },
		},
	}
}

// selectHandler walks the table in order; the first matching predicate wins.
func (c *Core) selectHandler(method string, params Params) (Handler, error) {
	table := c.Handlers
	if table == nil {
		table = DefaultHandlers()
	}
	for _, reg := range table {
		if reg.Match(c.URL, method, params) {
			return reg.Build(c), nil
		}
	}
	return nil, &NoHandlerError{Method: method, URL: c.URL, Params: params}
}
