package ops

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstParam(t *testing.T) {
	p := Const(3.5)
	assert.False(t, p.IsBound())
	assert.Equal(t, 3.5, p.Value())
	assert.Equal(t, "Const(3.5)", p.String())
}

func TestBoundParamResolvesAtReadTime(t *testing.T) {
	store := NewResults()
	p := BoundTo(store, "percentile/p90")
	assert.True(t, p.IsBound())

	// Reading before the producer ran yields NaN, not a stale value.
	assert.True(t, math.IsNaN(p.Value()))

	store.Publish("percentile/p90", 140)
	assert.Equal(t, 140.0, p.Value())

	// No caching: a re-published slot is visible on the next read.
	store.Publish("percentile/p90", 150)
	assert.Equal(t, 150.0, p.Value())
}

func TestResultsConcurrentAccess(t *testing.T) {
	store := NewResults()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				store.Publish("slot", float64(i))
				_, _ = store.Lookup("slot")
			}
		}(i)
	}
	wg.Wait()
	_, found := store.Lookup("slot")
	assert.True(t, found)
}
