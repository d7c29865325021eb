// Package protocol defines the JSON-RPC 2.0 request and response envelopes
// exchanged with the remote endpoint.
package protocol

import (
	"math/big"

	"github.com/google/uuid"
)

// Version is the fixed protocol version stamped on every request.
const Version = "2.0"

// Request is the wire shape of a single call.
// A fresh envelope is built per round-trip; envelopes are never reused.
type Request struct {
	Method  string         `json:"method" cbor:"method"`
	Params  map[string]any `json:"params" cbor:"params"`
	JSONRPC string         `json:"jsonrpc" cbor:"jsonrpc"`
	ID      *big.Int       `json:"id" cbor:"id"`
}

// Response is the wire shape of a single reply. Result and Error are
// mutually exclusive; a populated Error marks the call as failed.
type Response struct {
	ID     *big.Int `json:"id" cbor:"id"`
	Result any      `json:"result" cbor:"result"`
	Error  any      `json:"error" cbor:"error"`
}

// NewRequest builds an envelope for method with a fresh unique id.
func NewRequest(method string, params map[string]any) *Request {
	return &Request{Method: method, Params: params, JSONRPC: Version, ID: NewRequestID()}
}

// NewRequestID returns a random 128-bit integer id. The width makes
// collisions between concurrent in-flight requests vanishingly unlikely.
func NewRequestID() *big.Int {
	u := uuid.New()
	return new(big.Int).SetBytes(u[:])
}

// Failed reports whether the response carries a populated error member.
// A JSON null decodes to a nil any, which counts as absent.
func (r *Response) Failed() bool { return r.Error != nil }
