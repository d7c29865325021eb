package rpc

import "context"

// Method is an immutable router value carrying one accumulated dotted
// method name. Child never mutates its receiver: two branches chained off
// the same parent cannot interfere, so a base Method is safe to reuse.
type Method struct {
	core *Core
	name string
}

// Name returns the full dotted method name.
func (m Method) Name() string { return m.name }

// Child extends the dotted name by one segment and returns the new router.
func (m Method) Child(segment string) Method {
	return Method{core: m.core, name: m.name + "." + segment}
}

// Call executes the method: the handler table picks a strategy, the
// strategy produces a raw result, and the resolved deserializer (if any)
// turns it into a typed one. For asynchronous deferred tasks the result is
// a *Future.
func (m Method) Call(ctx context.Context, params Params, opts ...CallOption) (any, error) {
	o := applyOptions(opts)
	handler, err := m.core.selectHandler(m.name, params)
	if err != nil {
		return nil, err
	}
	call := &Call{Method: m.name, Params: params, opts: o, deser: m.deserializer(o)}
	return handler.Handle(ctx, call)
}

// CallAsync is Call with the async flag forced on; strategies without an
// asynchronous mode resolve the future immediately.
func (m Method) CallAsync(ctx context.Context, params Params, opts ...CallOption) (*Future, error) {
	result, err := m.Call(ctx, params, append(opts, WithAsync(true))...)
	if err != nil {
		return nil, err
	}
	if f, ok := result.(*Future); ok {
		return f, nil
	}
	return completedFuture(result, nil), nil
}

// deserializer resolves in fixed order: the explicit per-call override,
// then the configured source (single engine, per-method table, or resolver
// function), then none.
func (m Method) deserializer(o callOptions) Deserializer {
	if o.deserializer != nil {
		return o.deserializer
	}
	if src := m.core.Deserializers; src != nil {
		return src.Resolve(m.name)
	}
	return nil
}
