package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tyunify/internal/types"
)

func TestParse(t *testing.T) {
	cases := []struct {
		src  string
		want types.Type
	}{
		{"nat", types.NewNat()},
		{"Bool", types.NewBool()},
		{"a", types.NewVar(0)},
		{"a -> b -> a", types.NewArr(types.NewVar(0), types.NewArr(types.NewVar(1), types.NewVar(0)))},
		{"(a -> b) -> c", types.NewArr(types.NewArr(types.NewVar(0), types.NewVar(1)), types.NewVar(2))},
		{"  ( ( nat ) )  ", types.NewNat()},
		{"?7", types.NewVar(7)},
		{"x' -> x_1", types.NewArr(types.NewVar(0), types.NewVar(1))},
	}

	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			got, err := Parse(tc.src, NewNames(nil))
			require.NoError(t, err)
			assert.True(t, types.Equal(tc.want, got), "got %s", got)
		})
	}
}

func TestParseSharesNamesAcrossCalls(t *testing.T) {
	names := NewNames(nil)
	first, err := Parse("a -> b", names)
	require.NoError(t, err)
	second, err := Parse("b -> c", names)
	require.NoError(t, err)

	assert.True(t, types.Equal(types.NewArr(types.NewVar(0), types.NewVar(1)), first))
	assert.True(t, types.Equal(types.NewArr(types.NewVar(1), types.NewVar(2)), second))
	assert.Equal(t, []string{"a", "b", "c"}, names.All())
	assert.Equal(t, 3, names.Len())
}

func TestParseExplicitReservesID(t *testing.T) {
	names := NewNames(nil)
	got, err := Parse("?3 -> x", names)
	require.NoError(t, err)
	assert.True(t, types.Equal(types.NewArr(types.NewVar(3), types.NewVar(4)), got))

	id, ok := names.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, uint32(4), id)
}

func TestParseNamesAfterHighExplicitID(t *testing.T) {
	names := NewNames(nil)
	got, err := Parse("?0 -> ?4294967294 -> a", names)
	require.NoError(t, err)

	arr := got.(*types.Arr)
	a := arr.To.(*types.Arr).To
	assert.True(t, types.Equal(types.NewVar(4294967295), a))
	assert.False(t, types.Equal(arr.From, a), "a must not reuse ?0")

	// No ids left: a further name is an error, never ?0 again.
	_, err = Parse("b", names)
	require.Error(t, err)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 0, pe.Offset)
	assert.Contains(t, pe.Message, "variable b")
}

func TestParseLastExplicitIDExhaustsNames(t *testing.T) {
	names := NewNames(nil)
	got, err := Parse("?4294967295", names)
	require.NoError(t, err)
	assert.True(t, types.Equal(types.NewVar(4294967295), got))

	_, err = Parse("?0 -> c", names)
	require.Error(t, err)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 6, pe.Offset)
	assert.Contains(t, pe.Message, "ids exhausted")

	// Explicit ids stay usable.
	_, err = Parse("?7", names)
	require.NoError(t, err)

	_, err = Parse("?0 -> ?4294967295 -> a", NewNames(nil))
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 21, pe.Offset)
}

func TestParseExplicitCollidesWithName(t *testing.T) {
	_, err := Parse("x -> ?0", NewNames(nil))
	require.Error(t, err)

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 5, pe.Offset)
	assert.Contains(t, pe.Message, `already named "x"`)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src     string
		offset  int
		message string
	}{
		{"", 0, "expected type, found end of input"},
		{"a ->", 4, "expected type, found end of input"},
		{"(a", 2, "expected ')', found end of input"},
		{"a b", 2, `unexpected "b" after type`},
		{"a - b", 2, "expected '->'"},
		{"?x", 0, "expected digits after '?'"},
		{"a -> $", 5, `unexpected character '$'`},
		{"?99999999999", 0, "variable id out of range: ?99999999999"},
		{") -> a", 0, "expected type, found ')'"},
	}

	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			_, err := Parse(tc.src, NewNames(nil))
			require.Error(t, err)

			var pe *Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tc.offset, pe.Offset)
			assert.Equal(t, tc.message, pe.Message)
		})
	}
}

func TestParseConstraint(t *testing.T) {
	names := NewNames(nil)
	c, err := ParseConstraint("a -> nat = bool -> b", names)
	require.NoError(t, err)
	assert.True(t, types.Equal(types.NewArr(types.NewVar(0), types.NewNat()), c.Left))
	assert.True(t, types.Equal(types.NewArr(types.NewBool(), types.NewVar(1)), c.Right))

	_, err = ParseConstraint("a -> nat", names)
	assert.Error(t, err)

	_, err = ParseConstraint("a = )", names)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 4, pe.Offset, "offset is relative to the whole input")
}

func TestErrorString(t *testing.T) {
	err := &Error{Offset: 3, Message: "boom"}
	assert.Equal(t, "offset 3: boom", err.Error())
}
