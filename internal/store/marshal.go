package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/tyunify/internal/types"
)

// marshalConstraints converts a constraint set to canonical JSON TEXT.
func marshalConstraints(cs []types.Constraint) (string, error) {
	data, err := types.MarshalCanonical(cs)
	if err != nil {
		return "", fmt.Errorf("marshal constraints: %w", err)
	}
	return string(data), nil
}

// marshalSubstitution converts a substitution to JSON TEXT. Unsolvable runs
// store NULL.
func marshalSubstitution(s types.Substitution, solvable bool) (sql.NullString, error) {
	if !solvable {
		return sql.NullString{}, nil
	}
	data, err := s.MarshalJSON()
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal substitution: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalConstraints(data string) ([]types.Constraint, error) {
	cs, err := types.UnmarshalConstraints([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal constraints: %w", err)
	}
	return cs, nil
}

func unmarshalSubstitution(data sql.NullString) (types.Substitution, error) {
	if !data.Valid {
		return nil, nil
	}
	var s types.Substitution
	if err := json.Unmarshal([]byte(data.String), &s); err != nil {
		return nil, fmt.Errorf("unmarshal substitution: %w", err)
	}
	return s, nil
}
