package unify

import "github.com/roach88/tyunify/internal/types"

// pair is one pending equation. Sub-pairs produced by decomposition inherit
// the label of the constraint they came from.
type pair struct {
	left  types.Type
	right types.Type
	label string
}

// worklist is the LIFO stack of pending pairs.
//
// Not safe for concurrent use: each Solve call owns its own worklist.
type worklist struct {
	items []pair
}

// newWorklist seeds the stack so that constraints[0] is popped first.
func newWorklist(constraints []types.Constraint) *worklist {
	w := &worklist{items: make([]pair, 0, len(constraints)+8)}
	for i := len(constraints) - 1; i >= 0; i-- {
		c := constraints[i]
		w.push(pair{left: c.Left, right: c.Right, label: c.Label})
	}
	return w
}

func (w *worklist) push(p pair) {
	w.items = append(w.items, p)
}

// pop removes and returns the top pair. Returns false when empty.
func (w *worklist) pop() (pair, bool) {
	if len(w.items) == 0 {
		return pair{}, false
	}
	last := len(w.items) - 1
	p := w.items[last]

	// Clear the slot so popped types can be collected.
	w.items[last] = pair{}
	w.items = w.items[:last]
	return p, true
}

func (w *worklist) len() int {
	return len(w.items)
}
