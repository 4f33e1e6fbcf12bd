package syntax

import (
	"fmt"

	"github.com/roach88/tyunify/internal/types"
)

// Names maps variable names to ids and back.
//
// Ids for new names come from a types.Supply. Explicit ids (?N) reserve N in
// the supply so later names never reuse it.
//
// Not safe for concurrent use.
type Names struct {
	supply *types.Supply
	byName map[string]uint32
	byID   map[uint32]string
	order  []string
}

// NewNames creates an empty table drawing ids from supply. A nil supply
// starts at 0.
func NewNames(supply *types.Supply) *Names {
	if supply == nil {
		supply = types.NewSupply()
	}
	return &Names{
		supply: supply,
		byName: make(map[string]uint32),
		byID:   make(map[uint32]string),
	}
}

// Var returns the variable for name, allocating a fresh id on first use.
// It fails only when the supply has run out of ids.
func (n *Names) Var(name string) (types.Type, error) {
	if id, ok := n.byName[name]; ok {
		return types.NewVar(id), nil
	}
	id, err := n.supply.Next()
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	n.byName[name] = id
	n.byID[id] = name
	n.order = append(n.order, name)
	return types.NewVar(id), nil
}

// Explicit returns variable id. It fails if id already belongs to a name.
func (n *Names) Explicit(id uint32) (types.Type, error) {
	if name, taken := n.byID[id]; taken {
		return nil, fmt.Errorf("?%d is already named %q", id, name)
	}
	n.supply.Reserve(id)
	return types.NewVar(id), nil
}

// Lookup returns the id of name.
func (n *Names) Lookup(name string) (uint32, bool) {
	id, ok := n.byName[name]
	return id, ok
}

// Name returns the name of id.
func (n *Names) Name(id uint32) (string, bool) {
	name, ok := n.byID[id]
	return name, ok
}

// All returns every name in first-use order.
func (n *Names) All() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// Len returns the number of named variables.
func (n *Names) Len() int {
	return len(n.order)
}

// Clone returns an independent copy of the table with its own supply
// positioned at the same next id.
func (n *Names) Clone() *Names {
	c := &Names{
		supply: n.supply.Clone(),
		byName: make(map[string]uint32, len(n.byName)),
		byID:   make(map[uint32]string, len(n.byID)),
		order:  n.All(),
	}
	for name, id := range n.byName {
		c.byName[name] = id
		c.byID[id] = name
	}
	return c
}
