package transport

import (
	"context"
	"fmt"
)

// Kind identifies the poster implementation to use.
type Kind int

const (
	KindUnknown Kind = iota
	KindHTTP
	KindHTTP3
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindHTTP3:
		return "http3"
	default:
		return "unknown"
	}
}

// ParseKind maps a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "http", "https":
		return KindHTTP, nil
	case "http3", "h3":
		return KindHTTP3, nil
	default:
		return KindUnknown, fmt.Errorf("transport: unknown kind %q", s)
	}
}

// Reply is one raw HTTP-level response: status code plus body bytes.
// Envelope decoding is the caller's concern.
type Reply struct {
	Status int
	Body   []byte
}

// Poster performs a single POST round-trip. Implementations must be safe
// for concurrent use; one poster is shared by every in-flight call.
type Poster interface {
	Post(ctx context.Context, url string, body []byte, headers map[string]string) (*Reply, error)
}

// NewByKind constructs a poster for the requested kind.
func NewByKind(k Kind) (Poster, error) {
	switch k {
	case KindHTTP:
		return NewHTTP(), nil
	case KindHTTP3:
		return NewHTTP3(), nil
	default:
		return nil, fmt.Errorf("transport: unsupported kind %v", k)
	}
}
