// Package workerspool provides the fork-join pool used to parallelize
// element-wise dispatch over array indices.
//
// Work is split into a fixed partition of contiguous index ranges decided up
// front, so a given (n, grain, parallelism) triple always produces the same
// partition. Per-range work must be independent; the pool adds no
// synchronization beyond the final join.
package workerspool

import (
	"runtime"
	"sync"
)

// Pool bounds how many goroutines a ParallelFor fans out to.
type Pool struct {
	// maxParallelism is a soft target for the number of concurrent ranges.
	// 0 disables parallelism (everything runs inline), -1 means "one per
	// available CPU".
	maxParallelism int
}

// New returns a Pool with the default parallelism (runtime.NumCPU()).
func New() *Pool {
	return &Pool{maxParallelism: runtime.NumCPU()}
}

// NewWithParallelism returns a Pool with the given parallelism target.
// See SetMaxParallelism for the meaning of zero and negative values.
func NewWithParallelism(maxParallelism int) *Pool {
	return &Pool{maxParallelism: maxParallelism}
}

// IsEnabled returns whether parallelism is enabled.
func (p *Pool) IsEnabled() bool { return p.maxParallelism != 0 }

// MaxParallelism returns the parallelism target.
func (p *Pool) MaxParallelism() int { return p.maxParallelism }

// SetMaxParallelism sets the parallelism target: 0 disables parallelism,
// a negative value means "one per available CPU".
//
// Only change the parallelism while no ParallelFor is in flight.
func (p *Pool) SetMaxParallelism(maxParallelism int) {
	p.maxParallelism = maxParallelism
}

func (p *Pool) effectiveParallelism() int {
	if p.maxParallelism == 0 {
		return 1
	}
	if p.maxParallelism < 0 {
		return runtime.NumCPU()
	}
	return p.maxParallelism
}

// ParallelFor runs fn over the index range [0, n), partitioned into
// contiguous [start, end) chunks of at least grain indices each, one chunk
// per worker goroutine. It returns after every chunk has completed.
//
// fn must be safe to call concurrently for disjoint ranges. With parallelism
// disabled, or when n is too small to be worth splitting, fn is called once
// inline with the full range.
func (p *Pool) ParallelFor(n, grain int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if grain < 1 {
		grain = 1
	}
	workers := p.effectiveParallelism()
	if workers <= 1 || n <= grain {
		fn(0, n)
		return
	}
	// Flooring here (rather than rounding up) keeps every chunk at grain or
	// above; the remainder is spread one index at a time over the leading
	// chunks.
	numChunks := n / grain
	if numChunks > workers {
		numChunks = workers
	}
	if numChunks <= 1 {
		fn(0, n)
		return
	}
	chunk := n / numChunks
	remainder := n % numChunks
	var wg sync.WaitGroup
	start := 0
	for i := 0; i < numChunks; i++ {
		end := start + chunk
		if i < remainder {
			end++
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
		start = end
	}
	wg.Wait()
}
