package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// HTTP posts envelopes over plain HTTP/1.1 or HTTP/2 using net/http.
type HTTP struct {
	client *http.Client
}

// NewHTTP returns a poster backed by a dedicated http.Client.
func NewHTTP() *HTTP {
	return &HTTP{client: &http.Client{Timeout: 60 * time.Second}}
}

// NewHTTPWithClient wraps an existing client, e.g. one with custom TLS config.
func NewHTTPWithClient(c *http.Client) *HTTP { return &HTTP{client: c} }

func (h *HTTP) Post(ctx context.Context, url string, body []byte, headers map[string]string) (*Reply, error) {
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
