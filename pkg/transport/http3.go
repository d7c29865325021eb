package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"

	"github.com/quic-go/quic-go/http3"
)

// HTTP3 posts envelopes over HTTP/3 (QUIC). Useful against endpoints behind
// QUIC-terminating frontends; requires an https URL.
type HTTP3 struct {
	client *http.Client
	rt     *http3.Transport
}

// NewHTTP3 returns an HTTP/3 poster with a default TLS configuration.
func NewHTTP3() *HTTP3 {
	rt := &http3.Transport{
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS13},
	}
	return &HTTP3{client: &http.Client{Transport: rt}, rt: rt}
}

func (h *HTTP3) Post(ctx context.Context, url string, body []byte, headers map[string]string) (*Reply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Reply{Status: resp.StatusCode, Body: b}, nil
}

// Close releases QUIC resources held by the underlying roundtripper.
func (h *HTTP3) Close() error { return h.rt.Close() }
