package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSON encoding of types:
//
//	Var(3)          {"var":3}
//	Bool            "bool"
//	Nat             "nat"
//	Arr(Nat, Bool)  {"from":"nat","to":"bool"}

// MarshalJSON implements json.Marshaler for Var.
func (v Var) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"var":%d}`, v.ID)), nil
}

// MarshalJSON implements json.Marshaler for Bool.
func (Bool) MarshalJSON() ([]byte, error) {
	return []byte(`"bool"`), nil
}

// MarshalJSON implements json.Marshaler for Nat.
func (Nat) MarshalJSON() ([]byte, error) {
	return []byte(`"nat"`), nil
}

// MarshalJSON implements json.Marshaler for Arr.
func (a *Arr) MarshalJSON() ([]byte, error) {
	from, err := MarshalType(a.From)
	if err != nil {
		return nil, fmt.Errorf("arr from: %w", err)
	}
	to, err := MarshalType(a.To)
	if err != nil {
		return nil, fmt.Errorf("arr to: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(`{"from":`)
	buf.Write(from)
	buf.WriteString(`,"to":`)
	buf.Write(to)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalType serializes t. A nil type is an error.
func MarshalType(t Type) ([]byte, error) {
	switch val := t.(type) {
	case nil:
		return nil, fmt.Errorf("nil type")
	case Var:
		return val.MarshalJSON()
	case Bool:
		return val.MarshalJSON()
	case Nat:
		return val.MarshalJSON()
	case *Arr:
		if val == nil {
			return nil, fmt.Errorf("nil arr")
		}
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unsupported type: %T", t)
	}
}

// UnmarshalType deserializes JSON into a Type with strict validation.
// Unknown base names, floats, negative ids and extra object keys are rejected.
func UnmarshalType(data []byte) (Type, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return convertToType(raw)
}

// convertToType recursively converts a decoded JSON value to a Type.
func convertToType(v any) (Type, error) {
	switch val := v.(type) {
	case string:
		switch val {
		case "bool":
			return NewBool(), nil
		case "nat":
			return NewNat(), nil
		default:
			return nil, fmt.Errorf("unknown base type %q", val)
		}
	case map[string]any:
		if raw, ok := val["var"]; ok {
			if len(val) != 1 {
				return nil, fmt.Errorf("var object must have exactly one key")
			}
			id, err := convertVarID(raw)
			if err != nil {
				return nil, err
			}
			return NewVar(id), nil
		}
		rawFrom, okFrom := val["from"]
		rawTo, okTo := val["to"]
		if !okFrom || !okTo || len(val) != 2 {
			return nil, fmt.Errorf("arr object must have exactly the keys from and to")
		}
		from, err := convertToType(rawFrom)
		if err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
		to, err := convertToType(rawTo)
		if err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
		return NewArr(from, to), nil
	case nil:
		return nil, fmt.Errorf("null is not a type")
	default:
		return nil, fmt.Errorf("unsupported JSON value for type: %T", v)
	}
}

func convertVarID(v any) (uint32, error) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("var id must be a number, got %T", v)
	}
	n, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("var id must be an integer: %s", num)
	}
	if n < 0 || n > int64(^uint32(0)) {
		return 0, fmt.Errorf("var id out of range: %d", n)
	}
	return uint32(n), nil
}

// UnmarshalJSON implements json.Unmarshaler for Binding.
func (b *Binding) UnmarshalJSON(data []byte) error {
	var raw struct {
		Var  *uint32         `json:"var"`
		Type json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Var == nil {
		return fmt.Errorf("binding: missing var")
	}
	t, err := UnmarshalType(raw.Type)
	if err != nil {
		return fmt.Errorf("binding %d: %w", *raw.Var, err)
	}
	b.Var = *raw.Var
	b.Type = t
	return nil
}

// MarshalJSON encodes a Substitution as an array of bindings ordered by
// variable id, so equal substitutions always produce identical bytes.
func (s Substitution) MarshalJSON() ([]byte, error) {
	bindings := s.Bindings()

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, b := range bindings {
		if i > 0 {
			buf.WriteByte(',')
		}
		t, err := MarshalType(b.Type)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", b.Var, err)
		}
		fmt.Fprintf(&buf, `{"var":%d,"type":`, b.Var)
		buf.Write(t)
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler for Substitution.
// Duplicate variables are rejected.
func (s *Substitution) UnmarshalJSON(data []byte) error {
	var bindings []Binding
	if err := json.Unmarshal(data, &bindings); err != nil {
		return err
	}
	out := make(Substitution, len(bindings))
	for _, b := range bindings {
		if _, dup := out[b.Var]; dup {
			return fmt.Errorf("duplicate binding for var %d", b.Var)
		}
		out[b.Var] = b.Type
	}
	*s = out
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for Constraint.
func (c *Constraint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Left  json.RawMessage `json:"left"`
		Right json.RawMessage `json:"right"`
		Label string          `json:"label"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	left, err := UnmarshalType(raw.Left)
	if err != nil {
		return fmt.Errorf("left: %w", err)
	}
	right, err := UnmarshalType(raw.Right)
	if err != nil {
		return fmt.Errorf("right: %w", err)
	}
	*c = Constraint{Left: left, Right: right, Label: raw.Label}
	return nil
}
