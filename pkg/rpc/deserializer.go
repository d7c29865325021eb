package rpc

// Deserializer turns a raw response value into a typed object.
// deserialize.Dict and deserialize.Iterable satisfy it.
type Deserializer interface {
	CreateFrom(raw any) (any, error)
}

// DeserializerSource resolves the deserializer for a method, or nil for
// none. It is consulted only when a call carries no explicit override.
type DeserializerSource interface {
	Resolve(method string) Deserializer
}

// StaticDeserializer yields the same deserializer for every method.
func StaticDeserializer(d Deserializer) DeserializerSource { return staticSource{d} }

type staticSource struct{ d Deserializer }

func (s staticSource) Resolve(string) Deserializer { return s.d }

// DeserializerTable maps full dotted method names to deserializers.
// Methods absent from the table get no deserialization.
type DeserializerTable map[string]Deserializer

func (t DeserializerTable) Resolve(method string) Deserializer { return t[method] }

// DeserializerFunc resolves a deserializer by arbitrary logic.
type DeserializerFunc func(method string) Deserializer

func (f DeserializerFunc) Resolve(method string) Deserializer { return f(method) }
