package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Luftzig/ajillion-rpc-client/pkg/config"
	"github.com/Luftzig/ajillion-rpc-client/pkg/protocol"
)

func TestBuildURL(t *testing.T) {
	cases := []struct {
		host string
		port int
		want string
	}{
		{"http://my.server/", 0, "http://my.server/api/"},
		{"my.server", 0, "http://my.server/api/"},
		{"my.server", 8080, "http://my.server:8080/api/"},
		{"https://secure.server", 443, "https://secure.server:443/api/"},
	}
	for _, c := range cases {
		if got := buildURL(c.host, c.port); got != c.want {
			t.Fatalf("buildURL(%q, %d) = %q, want %q", c.host, c.port, got, c.want)
		}
	}
}

// fakeServer speaks just enough of the protocol for bootstrap + one method.
func fakeServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req protocol.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		var result any
		switch req.Method {
		case "login":
			if req.Params["username"] != "alice" || req.Params["password"] != "hunter2" {
				json.NewEncoder(w).Encode(map[string]any{
					"id": json.RawMessage(req.ID.String()), "result": nil,
					"error": map[string]any{"code": 401, "message": "bad credentials"},
				})
				return
			}
			result = map[string]any{"token": token}
		case "advertisers.get":
			if req.Params["token"] != token {
				t.Errorf("call without session token: %v", req.Params)
			}
			result = []any{map[string]any{"id": 1.0}}
		default:
			t.Errorf("unexpected method %q", req.Method)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": json.RawMessage(req.ID.String()), "result": result, "error": nil})
	}))
}

func testConfig(url string) *config.Config {
	cfg := config.Default()
	cfg.URL = url
	cfg.Host = url
	cfg.Username = "alice"
	cfg.Password = "hunter2"
	return cfg
}

func TestLoginAndCall(t *testing.T) {
	srv := fakeServer(t, "tok-123")
	defer srv.Close()

	c, err := New(context.Background(), testConfig(srv.URL), Options{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	got, err := c.Method("advertisers").Child("get").Call(context.Background(), nil)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if _, ok := got.([]any); !ok {
		t.Fatalf("result = %#v", got)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := fakeServer(t, "tok-123")
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Password = "wrong"
	_, err := New(context.Background(), cfg, Options{})
	var le *LoginError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want LoginError", err)
	}
}

func TestLoginRejectsMismatchedID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Echo a wrong id; the bootstrap must refuse the token.
		json.NewEncoder(w).Encode(map[string]any{
			"id": 12345, "result": map[string]any{"token": "tok"}, "error": nil,
		})
	}))
	defer srv.Close()

	_, err := New(context.Background(), testConfig(srv.URL), Options{})
	var le *LoginError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want LoginError", err)
	}
}

func TestExplicitTokenSkipsLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected during construction")
	}))
	defer srv.Close()

	c, err := New(context.Background(), testConfig(srv.URL), Options{Token: "pre-acquired"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if c.core.Token != "pre-acquired" {
		t.Fatalf("token = %q", c.core.Token)
	}
}

func TestLoginFuncOverride(t *testing.T) {
	called := false
	login := func(ctx context.Context, username, password string) (string, error) {
		called = true
		if username != "alice" {
			t.Errorf("username = %q", username)
		}
		return "custom-token", nil
	}
	cfg := testConfig("http://unreachable.test")
	c, err := New(context.Background(), cfg, Options{Login: login})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if !called || c.core.Token != "custom-token" {
		t.Fatalf("login override not used")
	}
}

func TestContentTypeDefaultsToCodec(t *testing.T) {
	srv := fakeServer(t, "tok")
	defer srv.Close()

	c, err := New(context.Background(), testConfig(srv.URL), Options{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if ct := c.core.Headers["content-type"]; ct != "application/json" {
		t.Fatalf("content-type = %q", ct)
	}
}
