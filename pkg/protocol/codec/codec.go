// Package codec provides body codecs for JSON-RPC request/response envelopes.
package codec

import "fmt"

// Codec marshals request and response bodies for one content type.
// Implementations must be safe for concurrent use.
type Codec interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Registry maps short names and content types to codecs.
type Registry struct{ byName map[string]Codec }

// NewRegistry constructs a registry preloaded with the built-in codecs.
func NewRegistry() (*Registry, error) {
	r := &Registry{byName: make(map[string]Codec)}
	r.Register("json", JSON())
	c, err := CBOR()
	if err != nil {
		return nil, err
	}
	r.Register("cbor", c)
	return r, nil
}

// Register adds a codec under a short name and under its content type.
func (r *Registry) Register(name string, c Codec) {
	r.byName[name] = c
	r.byName[c.ContentType()] = c
}

// Get returns the codec registered under name or content type.
func (r *Registry) Get(name string) (Codec, error) {
	c, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
	return c, nil
}
