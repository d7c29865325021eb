package deserialize

import (
	"errors"
	"fmt"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thing struct {
	A1 string
	A2 string
}

type widget struct {
	Arg1 string `json:"arg1"`
	Arg2 string `json:"arg2"`
	N    int    `json:"n"`
}

func TestPositionalRulesIgnoreUnmapped(t *testing.T) {
	d := NewDict(ForStruct[thing](), Rules{"a1": Index(0), "a2": Index(1)})

	out, err := d.CreateFrom(map[string]any{"a2": "x", "a1": "y", "extra": 1})
	require.NoError(t, err)
	assert.Equal(t, thing{A1: "y", A2: "x"}, out)
}

func TestKeywordRule(t *testing.T) {
	d := NewDict(ForStruct[widget](), Rules{"first": Keyword("arg1")})

	out, err := d.CreateFrom(map[string]any{"first": "hello"})
	require.NoError(t, err)
	assert.Equal(t, widget{Arg1: "hello"}, out)
}

func TestTransformRule(t *testing.T) {
	double := func(key string, value any) (string, any, error) {
		return "arg2", fmt.Sprintf("%v%v", value, value), nil
	}
	d := NewDict(ForStruct[widget](), Rules{"a2": Transform(double)})

	out, err := d.CreateFrom(map[string]any{"a2": "z"})
	require.NoError(t, err)
	assert.Equal(t, widget{Arg2: "zz"}, out)
}

func TestTransformErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	d := NewDict(ForStruct[widget](), Rules{"a2": Transform(func(string, any) (string, any, error) {
		return "", nil, boom
	})})

	_, err := d.CreateFrom(map[string]any{"a2": "z"})
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.ErrorIs(t, err, boom)
}

func TestFailPolicyRejectsBeforeConstruction(t *testing.T) {
	built := 0
	creator := func(args []any, kwargs map[string]any) (any, error) {
		built++
		return nil, nil
	}
	d := NewDict(creator, Rules{"a1": Index(0)}, WithPolicy(Fail))

	_, err := d.CreateFrom(map[string]any{"a1": "v", "mystery": 1})
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Zero(t, built, "creator must not run when unmapped keys are rejected")

	_, err = d.CreateFrom(map[string]any{"a1": "v"})
	require.NoError(t, err)
	assert.Equal(t, 1, built)
}

func TestToKwargsPassthrough(t *testing.T) {
	d := NewDict(ForStruct[widget](), Rules{"first": Keyword("arg1")}, WithPolicy(ToKwargs))

	out, err := d.CreateFrom(map[string]any{"first": "a", "arg2": "b", "n": 7})
	require.NoError(t, err)
	assert.Equal(t, widget{Arg1: "a", Arg2: "b", N: 7}, out)
}

func TestToKwargsCollisionLastWriteWins(t *testing.T) {
	// The raw "arg1" key is unmapped and lands on the same keyword as the
	// mapped "first" key; passthrough applies last.
	d := NewDict(ForStruct[widget](), Rules{"first": Keyword("arg1")}, WithPolicy(ToKwargs))

	out, err := d.CreateFrom(map[string]any{"first": "mapped", "arg1": "raw"})
	require.NoError(t, err)
	assert.Equal(t, widget{Arg1: "raw"}, out)
}

func TestNonMappingInput(t *testing.T) {
	d := NewDict(ForStruct[thing](), Rules{"a1": Index(0)})

	_, err := d.CreateFrom([]any{"not", "a", "map"})
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Nil(t, derr.Unwrap())
}

func TestConstructionFailureIsWrapped(t *testing.T) {
	d := NewDict(ForStruct[thing](), Rules{"a1": Index(0), "a2": Index(1), "a3": Index(2)})

	_, err := d.CreateFrom(map[string]any{"a1": "x", "a2": "y", "a3": "z"})
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.NotNil(t, derr.Unwrap(), "cause must stay reachable")
}

func TestJSONNumbersConvert(t *testing.T) {
	d := NewDict(ForStruct[widget](), Rules{"n": Keyword("n")})

	out, err := d.CreateFrom(map[string]any{"n": float64(12)})
	require.NoError(t, err)
	assert.Equal(t, widget{N: 12}, out)
}

func TestIterableYieldsInOrder(t *testing.T) {
	d := NewIterable(ForStruct[thing](), Rules{"a1": Index(0), "a2": Index(1)})

	raw := []any{
		map[string]any{"a1": "1a", "a2": "1b"},
		map[string]any{"a1": "2a", "a2": "2b"},
		map[string]any{"a1": "3a", "a2": "3b"},
	}
	out, err := d.CreateFrom(raw)
	require.NoError(t, err)
	seq, ok := out.(iter.Seq2[any, error])
	require.True(t, ok, "expected a lazy sequence, got %T", out)

	var got []thing
	for item, err := range seq {
		require.NoError(t, err)
		got = append(got, item.(thing))
	}
	assert.Equal(t, []thing{{"1a", "1b"}, {"2a", "2b"}, {"3a", "3b"}}, got)
}

func TestIterableIsLazyAndSinglePass(t *testing.T) {
	d := NewIterable(ForStruct[thing](), Rules{"a1": Index(0)})

	produced := 0
	src := iter.Seq[any](func(yield func(any) bool) {
		for i := 0; i < 3; i++ {
			produced++
			if !yield(map[string]any{"a1": "v"}) {
				return
			}
		}
	})
	out, err := d.CreateFrom(src)
	require.NoError(t, err)
	seq := out.(iter.Seq2[any, error])
	assert.Zero(t, produced, "nothing should materialize before consumption")

	for _, err := range seq {
		require.NoError(t, err)
		break // abandon after the first item
	}
	assert.Equal(t, 1, produced)
}

func TestIterableRejectsNonSequence(t *testing.T) {
	d := NewIterable(ForStruct[thing](), nil)

	_, err := d.CreateFrom(map[string]any{"a1": "v"})
	var derr *Error
	require.ErrorAs(t, err, &derr)
}

func TestForStructArgumentChecks(t *testing.T) {
	create := ForStruct[thing]()

	_, err := create([]any{"a", "b", "c"}, nil)
	assert.Error(t, err, "too many positional arguments")

	_, err = create(nil, map[string]any{"nope": 1})
	assert.Error(t, err, "unknown keyword")

	_, err = create([]any{42}, nil)
	assert.Error(t, err, "int into string field")
}
