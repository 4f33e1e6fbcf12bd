package testutil

import (
	"fmt"
	"sync"
)

// SequentialRunIDs generates predictable run ids ("test-run-0001", ...).
//
// This enables deterministic assertions on stored runs and CLI output.
//
// Thread-safety: SequentialRunIDs is safe for concurrent use via internal mutex.
type SequentialRunIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialRunIDs creates a generator. An empty prefix defaults to "test-run".
func NewSequentialRunIDs(prefix string) *SequentialRunIDs {
	if prefix == "" {
		prefix = "test-run"
	}
	return &SequentialRunIDs{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialRunIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
