package deserialize

import "iter"

// Iterable applies the same rule table across an ordered sequence of raw
// mappings. CreateFrom returns an iter.Seq2[any, error]: items materialize
// only as the sequence is consumed, and a sequence built from a one-shot
// source cannot be replayed.
type Iterable struct {
	Dict
}

// NewIterable builds a sequence deserializer; options as for NewDict.
func NewIterable(creator Creator, rules Rules, opts ...Option) *Iterable {
	return &Iterable{Dict: *NewDict(creator, rules, opts...)}
}

// CreateFrom accepts a []any or an iter.Seq[any] and returns the lazy
// sequence (typed any to satisfy the deserializer contract).
func (it *Iterable) CreateFrom(raw any) (any, error) {
	switch src := raw.(type) {
	case []any:
		return it.Seq(sliceSeq(src)), nil
	case iter.Seq[any]:
		return it.Seq(src), nil
	default:
		return nil, errorf("deserialized value must be a sequence of mappings, got %T", raw)
	}
}

// Seq lifts the per-item deserializer over src, one forward pass.
func (it *Iterable) Seq(src iter.Seq[any]) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for item := range src {
			out, err := it.Dict.CreateFrom(item)
			if !yield(out, err) {
				return
			}
		}
	}
}

func sliceSeq(items []any) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, it := range items {
			if !yield(it) {
				return
			}
		}
	}
}
