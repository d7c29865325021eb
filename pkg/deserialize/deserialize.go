// Package deserialize converts raw key/value responses into typed objects
// under a declarative rule table.
//
// Each rule table key is matched against a key in the raw mapping and the
// rule decides how the value reaches the target creator:
//
//   - Index(i) passes the value as the positional argument at index i.
//   - Keyword(name) passes the value as the keyword argument name.
//   - Transform(fn) invokes fn(key, value) and passes its result as a
//     keyword argument.
//
// Raw keys without a rule are "unmapped"; the Policy decides their fate.
package deserialize

import (
	"fmt"
	"sort"
)

// Policy defines how a deserializer treats unmapped raw keys.
type Policy int

const (
	// Ignore drops unmapped keys. Default.
	Ignore Policy = iota
	// ToKwargs passes unmapped keys through as keyword arguments, unchanged.
	ToKwargs
	// Fail rejects input containing unmapped keys before construction.
	Fail
)

func (p Policy) String() string {
	switch p {
	case Ignore:
		return "ignore"
	case ToKwargs:
		return "to-kwargs"
	case Fail:
		return "fail"
	default:
		return "unknown"
	}
}

// Error is the single error kind surfaced by this package. Construction
// failures keep their cause reachable via Unwrap; they never escape as the
// creator's own error type.
type Error struct {
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return "deserialize: " + e.Msg + ": " + e.Cause.Error()
	}
	return "deserialize: " + e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

func errorf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// Creator builds the target object from positional and keyword arguments.
// ForStruct derives one from a struct type; any function works.
type Creator func(args []any, kwargs map[string]any) (any, error)

// TransformFunc rewrites one raw key/value pair into a keyword argument.
type TransformFunc func(key string, value any) (string, any, error)

type ruleKind int

const (
	ruleIndex ruleKind = iota
	ruleKeyword
	ruleTransform
)

// Rule is one mapping rule; construct with Index, Keyword or Transform.
type Rule struct {
	kind      ruleKind
	index     int
	keyword   string
	transform TransformFunc
}

// Index maps a raw value to the positional argument at i.
func Index(i int) Rule { return Rule{kind: ruleIndex, index: i} }

// Keyword maps a raw value to the keyword argument name.
func Keyword(name string) Rule { return Rule{kind: ruleKeyword, keyword: name} }

// Transform maps a raw key/value pair through fn to a keyword argument.
func Transform(fn TransformFunc) Rule { return Rule{kind: ruleTransform, transform: fn} }

// Rules is a rule table keyed by raw field name. Immutable after handoff.
type Rules map[string]Rule

// Option tweaks deserializer construction.
type Option func(*Dict)

// WithPolicy overrides the default Ignore policy for unmapped keys.
func WithPolicy(p Policy) Option {
	return func(d *Dict) { d.policy = p }
}

// Dict constructs one object per raw mapping. Stateless after construction
// and safe to share across goroutines and calls.
type Dict struct {
	creator Creator
	rules   Rules
	policy  Policy
}

// NewDict builds a deserializer around creator and a rule table.
func NewDict(creator Creator, rules Rules, opts ...Option) *Dict {
	if rules == nil {
		rules = Rules{}
	}
	d := &Dict{creator: creator, rules: rules, policy: Ignore}
	for _, o := range opts {
		o(d)
	}
	return d
}

// CreateFrom builds one object from raw, which must be a string-keyed map.
func (d *Dict) CreateFrom(raw any) (any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errorf("deserialized value must be a mapping, got %T", raw)
	}
	args, kwargs, err := d.mapArguments(m)
	if err != nil {
		return nil, err
	}
	out, err := d.creator(args, kwargs)
	if err != nil {
		return nil, &Error{Msg: "failed to create object", Cause: err}
	}
	return out, nil
}

func (d *Dict) mapArguments(raw map[string]any) ([]any, map[string]any, error) {
	unmapped, err := d.unmappedKwargs(raw)
	if err != nil {
		return nil, nil, err
	}

	type positional struct {
		index int
		value any
	}
	var byIndex []positional
	kwargs := make(map[string]any)
	for key, rule := range d.rules {
		value, present := raw[key]
		if !present {
			continue
		}
		switch rule.kind {
		case ruleIndex:
			byIndex = append(byIndex, positional{rule.index, value})
		case ruleKeyword:
			kwargs[rule.keyword] = value
		case ruleTransform:
			kw, v, err := rule.transform(key, value)
			if err != nil {
				return nil, nil, &Error{Msg: "transform rule for key " + key + " failed", Cause: err}
			}
			kwargs[kw] = v
		}
	}
	sort.Slice(byIndex, func(i, j int) bool { return byIndex[i].index < byIndex[j].index })
	args := make([]any, 0, len(byIndex))
	for _, p := range byIndex {
		args = append(args, p.value)
	}
	// Unmapped passthrough applies last: on a key collision the raw value
	// wins over an explicitly mapped one (documented last-write-wins).
	for k, v := range unmapped {
		kwargs[k] = v
	}
	return args, kwargs, nil
}

func (d *Dict) unmappedKwargs(raw map[string]any) (map[string]any, error) {
	if d.policy == Ignore {
		return nil, nil
	}
	unmapped := make(map[string]any)
	for k, v := range raw {
		if _, mapped := d.rules[k]; !mapped {
			unmapped[k] = v
		}
	}
	if d.policy == Fail && len(unmapped) > 0 {
		keys := make([]string, 0, len(unmapped))
		for k := range unmapped {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, errorf("no mapping rules for keys %v", keys)
	}
	return unmapped, nil
}
