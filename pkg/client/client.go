// Package client bootstraps an authenticated JSON-RPC session and hands out
// method routers. Executing client.Method("advertisers").Child("get").Call
// invokes the remote method "advertisers.get" with the session token merged
// into the request parameters.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Luftzig/ajillion-rpc-client/pkg/config"
	"github.com/Luftzig/ajillion-rpc-client/pkg/protocol"
	"github.com/Luftzig/ajillion-rpc-client/pkg/protocol/codec"
	"github.com/Luftzig/ajillion-rpc-client/pkg/rpc"
	"github.com/Luftzig/ajillion-rpc-client/pkg/transport"
)

// LoginFunc exchanges credentials for an authentication token.
type LoginFunc func(ctx context.Context, username, password string) (string, error)

// Options carries the code-level configuration that cannot live in YAML.
// Every field is optional.
type Options struct {
	// Handlers overrides the default strategy table.
	Handlers []rpc.Registration
	// Deserializers resolves per-method deserializers.
	Deserializers rpc.DeserializerSource
	// Pool is the shared worker pool for asynchronous poll sequences.
	Pool rpc.Pool
	// Poster overrides the transport selected by the config.
	Poster transport.Poster
	// Codec overrides the codec selected by the config.
	Codec codec.Codec
	// Login replaces the default JSON-RPC login bootstrap.
	Login LoginFunc
	// Token is a pre-acquired session token; it skips login entirely.
	Token string
	// Logger defaults to the zap global.
	Logger *zap.Logger
}

// Client is an authenticated session. Its call context is immutable, so one
// client serves arbitrarily many concurrent calls.
type Client struct {
	core *rpc.Core
	host string
}

// New builds the session: derives the endpoint URL, selects transport and
// codec, and acquires the authentication token.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Client, error) {
	log := opts.Logger
	if log == nil {
		log = zap.L()
	}

	cdc := opts.Codec
	if cdc == nil {
		reg, err := codec.NewRegistry()
		if err != nil {
			return nil, err
		}
		name := cfg.Codec
		if name == "" {
			name = "json"
		}
		if cdc, err = reg.Get(name); err != nil {
			return nil, err
		}
	}

	poster := opts.Poster
	if poster == nil {
		kind, err := transport.ParseKind(cfg.Transport)
		if err != nil {
			return nil, err
		}
		if poster, err = transport.NewByKind(kind); err != nil {
			return nil, err
		}
	}

	url := cfg.URL
	if url == "" {
		url = buildURL(cfg.Host, cfg.Port)
	}
	headers := make(map[string]string, len(cfg.Headers)+1)
	for k, v := range cfg.Headers {
		headers[strings.ToLower(k)] = v
	}
	if _, ok := headers["content-type"]; !ok {
		headers["content-type"] = cdc.ContentType()
	}

	c := &Client{host: cfg.Host}
	token, err := c.acquireToken(ctx, cfg, opts, url, headers, poster, cdc, log)
	if err != nil {
		return nil, err
	}

	c.core = &rpc.Core{
		URL:           url,
		Headers:       headers,
		Token:         token,
		Poster:        poster,
		Codec:         cdc,
		Handlers:      opts.Handlers,
		Deserializers: opts.Deserializers,
		Timeout:       cfg.Timeout,
		SleepInterval: cfg.SleepInterval,
		MaxFailures:   cfg.MaxFailures,
		RunAsync:      cfg.RunAsync,
		Pool:          opts.Pool,
		Log:           log,
	}
	return c, nil
}

// Method returns a root router; name may already be dotted.
func (c *Client) Method(name string) rpc.Method { return c.core.Method(name) }

// Host returns the configured host name.
func (c *Client) Host() string { return c.host }

func (c *Client) acquireToken(ctx context.Context, cfg *config.Config, opts Options,
	url string, headers map[string]string, poster transport.Poster, cdc codec.Codec,
	log *zap.Logger) (string, error) {
	if opts.Token != "" {
		return opts.Token, nil
	}
	if opts.Login != nil {
		return opts.Login(ctx, cfg.Username, cfg.Password)
	}
	if cfg.Username == "" {
		return "", fmt.Errorf("client: username is required for login")
	}
	token, err := rpcLogin(ctx, url, headers, poster, cdc, cfg.Username, cfg.Password)
	if err != nil {
		return "", err
	}
	log.Info("rpc client connected", zap.String("host", cfg.Host), zap.String("username", cfg.Username))
	return token, nil
}

// rpcLogin performs the JSON-RPC "login" bootstrap. Unlike ordinary calls,
// the response id must echo the request id here.
func rpcLogin(ctx context.Context, url string, headers map[string]string,
	poster transport.Poster, cdc codec.Codec, username, password string) (string, error) {
	req := protocol.NewRequest("login", map[string]any{
		"username": username,
		"password": password,
	})
	body, err := cdc.Marshal(req)
	if err != nil {
		return "", err
	}
	reply, err := poster.Post(ctx, url, body, headers)
	if err != nil {
		return "", &LoginError{Reason: "transport failure", Cause: err}
	}
	if reply.Status != http.StatusOK {
		return "", &LoginError{Raw: reply.Body, Reason: fmt.Sprintf("status %d", reply.Status)}
	}
	var resp protocol.Response
	if err := cdc.Unmarshal(reply.Body, &resp); err != nil {
		return "", &LoginError{Raw: reply.Body, Reason: "malformed response", Cause: err}
	}
	if resp.Failed() || resp.ID == nil || resp.ID.Cmp(req.ID) != 0 {
		return "", &LoginError{Raw: reply.Body, Reason: "login rejected"}
	}
	result, ok := resp.Result.(map[string]any)
	if !ok {
		return "", &LoginError{Raw: reply.Body, Reason: "login result carries no token"}
	}
	token, ok := result["token"].(string)
	if !ok || token == "" {
		return "", &LoginError{Raw: reply.Body, Reason: "login result carries no token"}
	}
	return token, nil
}

// buildURL derives the API URL from host and port the way the remote
// expects it: scheme://host[:port]/api/
func buildURL(host string, port int) string {
	scheme := "http"
	rest := host
	if i := strings.Index(host, "://"); i >= 0 {
		scheme = host[:i]
		rest = host[i+3:]
	}
	rest = strings.Trim(rest, "/")
	if port != 0 {
		rest = fmt.Sprintf("%s:%d", rest, port)
	}
	return scheme + "://" + rest + "/api/"
}
