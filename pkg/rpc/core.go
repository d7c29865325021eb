// Package rpc routes dynamically built method names to execution strategies:
// a synchronous request executor for ordinary calls and a polling state
// machine for deferred server-side tasks.
package rpc

import (
	"time"

	"go.uber.org/zap"

	"github.com/Luftzig/ajillion-rpc-client/pkg/protocol/codec"
	"github.com/Luftzig/ajillion-rpc-client/pkg/transport"
)

// Poll defaults; each is overridable per call or at the client level.
const (
	DefaultTimeout       = 300 * time.Second
	DefaultSleepInterval = 5 * time.Second
	DefaultMaxFailures   = 1
)

// Core is the immutable call context shared by every Method spawned from
// one client: endpoint, credentials, wiring and policy defaults. All fields
// are read-only after construction, so arbitrarily many concurrent calls
// may share one Core.
type Core struct {
	// URL is the full endpoint URL requests are posted to.
	URL string
	// Headers are attached to every request.
	Headers map[string]string
	// Token authenticates every call; merged into params under "token".
	Token string

	// Poster performs the HTTP round-trips.
	Poster transport.Poster
	// Codec encodes request and decodes response envelopes.
	Codec codec.Codec

	// Handlers is the ordered strategy table; nil selects DefaultHandlers.
	Handlers []Registration
	// Deserializers resolves per-method deserializers; nil disables.
	Deserializers DeserializerSource

	// Timeout, SleepInterval and MaxFailures are client-level polling
	// defaults; zero values fall through to the package defaults.
	Timeout       time.Duration
	SleepInterval time.Duration
	MaxFailures   int

	// RunAsync makes deferred tasks return a *Future unless a call says
	// otherwise; Pool is the shared worker pool for those sequences.
	RunAsync bool
	Pool     Pool

	// Log defaults to zap.L().
	Log *zap.Logger
}

func (c *Core) logger() *zap.Logger {
	if c.Log != nil {
		return c.Log
	}
	return zap.L()
}

// Method returns a root router for name; name may already be dotted.
func (c *Core) Method(name string) Method { return Method{core: c, name: name} }
