// Package ops implements the element-wise operator family and the dispatcher
// that applies an operator over whole arrays.
//
// Operators are strategy objects implementing a single apply contract: unary
// operators read one value and the element's current status and produce both
// anew; binary operators additionally read a right-hand operand whose value
// (and possibly status) determines the result status, while the left-hand
// value passes through unchanged. Every concrete operator here is a pure,
// total function of its inputs and parameters — it never throws, and
// re-applying it with the same parameters yields the same result.
//
// Numeric parameters are Params (see params.go): either literal constants or
// live bindings into a Results store written by an upstream stage, resolved
// at apply time.
package ops

import (
	"github.com/voxkit/voxkit/types/arrays"
	"github.com/voxkit/voxkit/types/status"
)

// Unary is the contract of element-wise operators over a single array.
type Unary[T arrays.Number] interface {
	// Apply transforms one element, producing its new value and status.
	Apply(v T, s status.Value) (T, status.Value)
}

// Binary is the contract of element-wise operators over two equal-length
// operands. Only the right-hand operand's value and status may influence the
// resulting status; the left-hand value passes through unchanged.
type Binary[T arrays.Number] interface {
	// ApplyPair combines one element pair, producing the output value and
	// status.
	ApplyPair(lhs, rhs T, rhsStatus status.Value) (T, status.Value)
}

// Engine is the parallel-iteration capability the dispatcher asks a platform
// for. Platforms that can run host-side goroutines implement it (see
// platforms/host); a nil Engine makes the dispatcher run sequentially.
type Engine interface {
	// ParallelFor runs fn over [0, n) partitioned into contiguous chunks of
	// at least grain indices, possibly concurrently, returning after all
	// chunks complete.
	ParallelFor(n, grain int, fn func(start, end int))
}
