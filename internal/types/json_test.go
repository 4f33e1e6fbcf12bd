package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalType(t *testing.T) {
	cases := []struct {
		ty   Type
		want string
	}{
		{NewVar(3), `{"var":3}`},
		{NewBool(), `"bool"`},
		{NewNat(), `"nat"`},
		{NewArr(NewNat(), NewArr(NewVar(0), NewBool())), `{"from":"nat","to":{"from":{"var":0},"to":"bool"}}`},
	}

	for _, tc := range cases {
		data, err := MarshalType(tc.ty)
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(data))

		// encoding/json goes through the same MarshalJSON methods
		viaStd, err := json.Marshal(tc.ty)
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(viaStd))
	}
}

func TestMarshalTypeRejectsNil(t *testing.T) {
	_, err := MarshalType(nil)
	assert.Error(t, err)

	_, err = MarshalType(NewArr(NewNat(), nil))
	assert.Error(t, err)
}

func TestUnmarshalType(t *testing.T) {
	ty, err := UnmarshalType([]byte(`{"from":{"var":7},"to":{"from":"bool","to":"nat"}}`))
	require.NoError(t, err)
	assert.True(t, Equal(NewArr(NewVar(7), NewArr(NewBool(), NewNat())), ty))
}

func TestUnmarshalTypeRejectsInvalid(t *testing.T) {
	inputs := []string{
		`"int"`,
		`null`,
		`42`,
		`{"var":1.5}`,
		`{"var":-1}`,
		`{"var":4294967296}`,
		`{"var":"x"}`,
		`{"var":1,"extra":2}`,
		`{"from":"nat"}`,
		`{"from":"nat","to":"bool","x":1}`,
		`{"from":"nat","to":"float"}`,
		`[]`,
	}
	for _, in := range inputs {
		_, err := UnmarshalType([]byte(in))
		assert.Error(t, err, "input %s", in)
	}
}

func TestSubstitutionJSONSortedByVar(t *testing.T) {
	s := NewSubstitution(Bind(2, NewNat()), Bind(0, NewArr(NewBool(), NewVar(2))))

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `[{"var":0,"type":{"from":"bool","to":{"var":2}}},{"var":2,"type":"nat"}]`, string(data))

	var decoded Substitution
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, s.Equal(decoded))
}

func TestSubstitutionJSONRejectsDuplicates(t *testing.T) {
	var s Substitution
	err := json.Unmarshal([]byte(`[{"var":0,"type":"nat"},{"var":0,"type":"bool"}]`), &s)
	assert.Error(t, err)
}

func TestEmptySubstitutionJSON(t *testing.T) {
	data, err := json.Marshal(Substitution{})
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestConstraintJSON(t *testing.T) {
	c := Eq(NewVar(0), NewArr(NewNat(), NewNat())).Labeled("line 3")

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"left":{"var":0},"right":{"from":"nat","to":"nat"},"label":"line 3"}`, string(data))

	var decoded Constraint
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, Equal(c.Left, decoded.Left))
	assert.True(t, Equal(c.Right, decoded.Right))
	assert.Equal(t, "line 3", decoded.Label)
}
