package types

import (
	"errors"
	"math"
	"sync/atomic"
)

// ErrSupplyExhausted is returned by Next once every uint32 id has been used.
var ErrSupplyExhausted = errors.New("type variable ids exhausted")

// Supply hands out fresh type variable ids.
//
// The unification core never allocates variables; a Supply is threaded
// through whichever collaborator generates constraints (parsers, loaders,
// inference drivers) so there is no hidden global counter.
//
// Thread-safety: Supply is safe for concurrent use (atomic operations).
type Supply struct {
	// next is the next id to hand out. It is wider than an id so that
	// math.MaxUint32+1 can mark the supply as exhausted instead of wrapping.
	next atomic.Uint64
}

// NewSupply creates a supply whose first id is 0.
func NewSupply() *Supply {
	return &Supply{}
}

// NewSupplyAt creates a supply whose first id is start.
func NewSupplyAt(start uint32) *Supply {
	s := &Supply{}
	s.next.Store(uint64(start))
	return s
}

// Next returns an unused id and advances the supply. After id
// math.MaxUint32 has been handed out or reserved it returns
// ErrSupplyExhausted.
func (s *Supply) Next() (uint32, error) {
	for {
		cur := s.next.Load()
		if cur > math.MaxUint32 {
			return 0, ErrSupplyExhausted
		}
		if s.next.CompareAndSwap(cur, cur+1) {
			return uint32(cur), nil
		}
	}
}

// Reserve marks id as used so that Next never returns it or anything below it.
func (s *Supply) Reserve(id uint32) {
	want := uint64(id) + 1
	for {
		cur := s.next.Load()
		if cur >= want {
			return
		}
		if s.next.CompareAndSwap(cur, want) {
			return
		}
	}
}

// Clone returns an independent supply positioned where s is.
func (s *Supply) Clone() *Supply {
	c := &Supply{}
	c.next.Store(s.next.Load())
	return c
}
