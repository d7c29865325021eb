package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/Luftzig/ajillion-rpc-client/pkg/protocol"
	"github.com/Luftzig/ajillion-rpc-client/pkg/protocol/codec"
	"github.com/Luftzig/ajillion-rpc-client/pkg/transport"
)

// fakePoster decodes the posted envelope and lets the test script the reply.
type fakePoster struct {
	mu sync.Mutex
	fn func(req *protocol.Request) (*transport.Reply, error)
}

func (f *fakePoster) Post(_ context.Context, _ string, body []byte, _ map[string]string) (*transport.Reply, error) {
	var req protocol.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fn(&req)
}

func okReply(result any) (*transport.Reply, error) {
	body, err := json.Marshal(map[string]any{"id": 1, "result": result, "error": nil})
	if err != nil {
		return nil, err
	}
	return &transport.Reply{Status: http.StatusOK, Body: body}, nil
}

func errReply(code int) (*transport.Reply, error) {
	body, _ := json.Marshal(map[string]any{"id": 1, "result": nil, "error": map[string]any{"code": code}})
	return &transport.Reply{Status: http.StatusOK, Body: body}, nil
}

func badStatusReply(status int) (*transport.Reply, error) {
	return &transport.Reply{Status: status, Body: []byte("upstream sad")}, nil
}

func newTestCore(fn func(req *protocol.Request) (*transport.Reply, error)) *Core {
	return &Core{
		URL:     "http://unit.test/api/",
		Headers: map[string]string{"content-type": "application/json"},
		Token:   "sekrit",
		Poster:  &fakePoster{fn: fn},
		Codec:   codec.JSON(),
		Log:     zap.NewNop(),
	}
}
