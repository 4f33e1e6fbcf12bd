package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the canonical JSON form of a constraint set.
// This is the ONLY serialization that should be used for content-addressed
// identity (see ConstraintSetHash).
//
// Differences from json.Marshal:
//  1. Labels are NFC normalized, so visually identical labels hash identically
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Nil types are an error instead of null
//
// Constraint order is preserved: it determines the solver's trace.
func MarshalCanonical(constraints []Constraint) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, c := range constraints {
		if i > 0 {
			buf.WriteByte(',')
		}
		left, err := MarshalType(c.Left)
		if err != nil {
			return nil, fmt.Errorf("constraint[%d] left: %w", i, err)
		}
		right, err := MarshalType(c.Right)
		if err != nil {
			return nil, fmt.Errorf("constraint[%d] right: %w", i, err)
		}

		buf.WriteString(`{"left":`)
		buf.Write(left)
		buf.WriteString(`,"right":`)
		buf.Write(right)
		if c.Label != "" {
			label, err := marshalCanonicalString(c.Label)
			if err != nil {
				return nil, fmt.Errorf("constraint[%d] label: %w", i, err)
			}
			buf.WriteString(`,"label":`)
			buf.Write(label)
		}
		buf.WriteByte('}')
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// marshalCanonicalString NFC normalizes s and encodes it without HTML escaping.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds trailing newline
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// UnmarshalConstraints parses the output of MarshalCanonical (or any JSON
// array of constraints).
func UnmarshalConstraints(data []byte) ([]Constraint, error) {
	var cs []Constraint
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, fmt.Errorf("unmarshal constraints: %w", err)
	}
	return cs, nil
}
