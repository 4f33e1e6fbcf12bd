package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/tyunify/internal/types"
)

func TestFixedClockAdvances(t *testing.T) {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := NewFixedClock(start)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start.Add(time.Second), clock.Now())

	clock.Reset(start)
	assert.Equal(t, start, clock.Now())
}

func TestSequentialRunIDs(t *testing.T) {
	gen := NewSequentialRunIDs("")
	assert.Equal(t, "test-run-0001", gen.Generate())
	assert.Equal(t, "test-run-0002", gen.Generate())

	custom := NewSequentialRunIDs("cli")
	assert.Equal(t, "cli-0001", custom.Generate())
}

func TestRandomTypeDeterministic(t *testing.T) {
	a := RandomType(NewRand(42), 5, 3)
	b := RandomType(NewRand(42), 5, 3)
	assert.True(t, types.Equal(a, b), "same seed must produce the same type")
}

func TestRandomTypeRespectsBounds(t *testing.T) {
	r := NewRand(7)
	for i := 0; i < 200; i++ {
		ty := RandomType(r, 4, 3)
		assert.LessOrEqual(t, types.Depth(ty), 4)
		for _, v := range types.FreeVars(ty) {
			assert.Less(t, v, uint32(3))
		}
	}
}

func TestRandomTypeGround(t *testing.T) {
	r := NewRand(9)
	for i := 0; i < 50; i++ {
		assert.True(t, types.IsGround(RandomType(r, 4, 0)))
	}
}
