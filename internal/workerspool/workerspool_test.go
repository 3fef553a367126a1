package workerspool

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelFor_CoversAllIndices(t *testing.T) {
	for _, parallelism := range []int{0, 1, 3, -1} {
		pool := NewWithParallelism(parallelism)
		const n = 10_000
		visits := make([]int32, n)
		pool.ParallelFor(n, 16, func(start, end int) {
			require.LessOrEqual(t, 0, start)
			require.LessOrEqual(t, end, n)
			for i := start; i < end; i++ {
				atomic.AddInt32(&visits[i], 1)
			}
		})
		for i, v := range visits {
			if v != 1 {
				t.Fatalf("parallelism=%d: index %d visited %d times", parallelism, i, v)
			}
		}
	}
}

func TestParallelFor_SmallRangeRunsInline(t *testing.T) {
	pool := New()
	var calls atomic.Int32
	pool.ParallelFor(10, 100, func(start, end int) {
		calls.Add(1)
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	})
	assert.Equal(t, int32(1), calls.Load())

	// Empty range: fn is never called.
	pool.ParallelFor(0, 1, func(start, end int) {
		t.Fatal("fn called for empty range")
	})
}

func TestParallelFor_ChunksNeverBelowGrain(t *testing.T) {
	pool := NewWithParallelism(8)

	// n barely above grain: not worth splitting, runs as one chunk.
	var calls atomic.Int32
	pool.ParallelFor(2049, 2048, func(start, end int) {
		calls.Add(1)
		assert.Equal(t, 0, start)
		assert.Equal(t, 2049, end)
	})
	assert.Equal(t, int32(1), calls.Load())

	// Uneven split: the remainder never pushes a chunk below grain.
	var mu sync.Mutex
	var sizes []int
	pool.ParallelFor(100, 33, func(start, end int) {
		mu.Lock()
		sizes = append(sizes, end-start)
		mu.Unlock()
	})
	total := 0
	for _, size := range sizes {
		assert.GreaterOrEqual(t, size, 33)
		total += size
	}
	assert.Equal(t, 100, total)
}

func TestParallelFor_GrainBoundsChunks(t *testing.T) {
	pool := NewWithParallelism(8)
	var chunks atomic.Int32
	pool.ParallelFor(100, 50, func(start, end int) {
		chunks.Add(1)
		assert.GreaterOrEqual(t, end-start, 50)
	})
	assert.LessOrEqual(t, chunks.Load(), int32(2))
}
