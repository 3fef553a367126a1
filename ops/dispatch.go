package ops

import (
	"github.com/pkg/errors"
	"github.com/voxkit/voxkit/types/arrays"
	"github.com/voxkit/voxkit/types/status"
)

// dispatchGrain is the minimum number of elements handed to one worker;
// below it the bookkeeping costs more than the arithmetic.
const dispatchGrain = 2048

// ApplyUnary applies op to every element of src, writing resulting values
// and statuses into dst. src and dst must have equal length; they may be the
// same array for in-place operation.
//
// Each element's transformation is pure and touches only its own slot, so
// with a non-nil engine the work is spread over a fixed partition of the
// index range; the output is identical for any engine, including nil
// (sequential).
func ApplyUnary[T arrays.Number](engine Engine, op Unary[T], src, dst *arrays.Array[T]) error {
	if src.Size() != dst.Size() {
		return errors.Errorf("ApplyUnary: src has %d elements, dst has %d", src.Size(), dst.Size())
	}
	srcFlat, srcStatus := src.Flat(), src.Statuses()
	dstFlat, dstStatus := dst.Flat(), dst.Statuses()
	forRange(engine, src.Size(), func(start, end int) {
		for i := start; i < end; i++ {
			dstFlat[i], dstStatus[i] = op.Apply(srcFlat[i], srcStatus[i])
		}
	})
	return nil
}

// ApplyUnaryInPlace applies op to every element of arr, in place.
func ApplyUnaryInPlace[T arrays.Number](engine Engine, op Unary[T], arr *arrays.Array[T]) {
	// Equal sizes by construction; the error path is unreachable.
	_ = ApplyUnary(engine, op, arr, arr)
}

// ApplyBinary applies op to every (lhs[i], rhs[i]) pair, writing into dst.
// All three arrays must have equal length; dst may alias lhs.
func ApplyBinary[T arrays.Number](engine Engine, op Binary[T], lhs, rhs, dst *arrays.Array[T]) error {
	if lhs.Size() != rhs.Size() || lhs.Size() != dst.Size() {
		return errors.Errorf("ApplyBinary: operand lengths differ: lhs=%d rhs=%d dst=%d",
			lhs.Size(), rhs.Size(), dst.Size())
	}
	lhsFlat := lhs.Flat()
	rhsFlat, rhsStatus := rhs.Flat(), rhs.Statuses()
	dstFlat, dstStatus := dst.Flat(), dst.Statuses()
	forRange(engine, lhs.Size(), func(start, end int) {
		for i := start; i < end; i++ {
			dstFlat[i], dstStatus[i] = op.ApplyPair(lhsFlat[i], rhsFlat[i], rhsStatus[i])
		}
	})
	return nil
}

// ApplyBinaryScalar applies op to every element of lhs paired with the single
// (rhs, rhsStatus) operand, writing into dst. lhs and dst must have equal
// length; dst may alias lhs.
func ApplyBinaryScalar[T arrays.Number](engine Engine, op Binary[T], lhs *arrays.Array[T], rhs T, rhsStatus status.Value, dst *arrays.Array[T]) error {
	if lhs.Size() != dst.Size() {
		return errors.Errorf("ApplyBinaryScalar: lhs has %d elements, dst has %d", lhs.Size(), dst.Size())
	}
	lhsFlat := lhs.Flat()
	dstFlat, dstStatus := dst.Flat(), dst.Statuses()
	forRange(engine, lhs.Size(), func(start, end int) {
		for i := start; i < end; i++ {
			dstFlat[i], dstStatus[i] = op.ApplyPair(lhsFlat[i], rhs, rhsStatus)
		}
	})
	return nil
}

func forRange(engine Engine, n int, fn func(start, end int)) {
	if engine == nil {
		fn(0, n)
		return
	}
	engine.ParallelFor(n, dispatchGrain, fn)
}
