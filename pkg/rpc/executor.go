package rpc

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/Luftzig/ajillion-rpc-client/pkg/protocol"
)

// tokenParam is the reserved params key carrying the authentication token.
const tokenParam = "token"

// Executor performs exactly one request/response round-trip.
type Executor struct {
	core *Core
}

// NewExecutor returns the synchronous strategy bound to core.
func NewExecutor(core *Core) *Executor { return &Executor{core: core} }

func (e *Executor) Handle(ctx context.Context, call *Call) (any, error) {
	raw, err := e.invoke(ctx, call.Method, call.Params)
	if err != nil {
		return nil, err
	}
	return call.finish(raw)
}

// invoke builds a fresh envelope and posts it. The caller's params are
// copied, the token is merged in, and a "method" key in params overrides
// the bound method name (and is stripped before sending).
func (e *Executor) invoke(ctx context.Context, method string, params Params) (any, error) {
	merged := make(map[string]any, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	merged[tokenParam] = e.core.Token
	if override, ok := merged["method"].(string); ok {
		method = override
	}
	delete(merged, "method")

	req := protocol.NewRequest(method, merged)
	body, err := e.core.Codec.Marshal(req)
	if err != nil {
		return nil, err
	}
	e.core.logger().Debug("rpc call",
		zap.String("method", method), zap.String("id", req.ID.String()))

	reply, err := e.core.Poster.Post(ctx, e.core.URL, body, e.core.Headers)
	if err != nil {
		return nil, &RemoteFailedError{Reason: "transport failure", Cause: err}
	}
	if reply.Status != http.StatusOK {
		return nil, &RemoteFailedError{Status: reply.Status, Raw: reply.Body}
	}
	var resp protocol.Response
	if err := e.core.Codec.Unmarshal(reply.Body, &resp); err != nil {
		return nil, &RemoteFailedError{Status: reply.Status, Raw: reply.Body, Reason: "malformed response", Cause: err}
	}
	if resp.Failed() {
		return nil, &RemoteFailedError{Status: reply.Status, Raw: reply.Body, Reason: "remote returned error"}
	}
	return resp.Result, nil
}
