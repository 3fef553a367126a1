package filters

import (
	"github.com/pkg/errors"
	"github.com/voxkit/voxkit/ops"
	"github.com/voxkit/voxkit/platforms"
	"github.com/voxkit/voxkit/types/arrays"
)

// Elementwise applies a unary element-wise operator to its single input
// array, in place: the output handle aliases the input. It is the filter
// behind the whole masking family (see the New*Filter constructors).
type Elementwise[T arrays.Number] struct {
	Base
	op ops.Unary[T]

	// input resolved by Initialize.
	arr *arrays.Array[T]
}

// NewElementwise wraps a unary operator in a single-input, single-output,
// in-place filter.
func NewElementwise[T arrays.Number](name string, op ops.Unary[T]) *Elementwise[T] {
	return &Elementwise[T]{
		Base: NewBase(name, Arity{MinInputs: 1, MaxInputs: 1, MinOutputs: 1, MaxOutputs: 1}),
		op:   op,
	}
}

// Supports implements Filter: element-wise dispatch needs the platform's
// parallel-for capability.
func (f *Elementwise[T]) Supports(p platforms.Platform) bool {
	_, ok := p.(ops.Engine)
	return ok
}

// Initialize implements Filter: it checks arity and dtype, and fixes the
// single in-place output.
func (f *Elementwise[T]) Initialize() {
	f.Base.Initialize()
	f.arr = inputArray[T](&f.Base, 0)
	in, _ := f.Input(0)
	f.checkGridSize(in.Name, f.arr)
	f.SetOutputs(in)
}

// Execute implements Filter.
func (f *Elementwise[T]) Execute() {
	engine, _ := f.Selected().Platform.(ops.Engine)
	ops.ApplyUnaryInPlace(engine, f.op, f.arr)
}

// inputArray fetches input i as a typed array, throwing a configuration
// error on a dtype mismatch.
func inputArray[T arrays.Number](b *Base, i int) *arrays.Array[T] {
	in, err := b.Input(i)
	if err != nil {
		panic(errors.Wrapf(ErrConfiguration, "%v", err))
	}
	arr, ok := in.Data.(*arrays.Array[T])
	if !ok {
		panic(errors.Wrapf(ErrConfiguration,
			"filter %q input %d (%q) has dtype %s, expected %s",
			b.Name(), i, in.Name, in.Data.DType(), arrays.DTypeOf[T]()))
	}
	return arr
}

// NewMaskFilter masks elements equal to the sentinel (NaN-aware; see
// ops.Mask).
func NewMaskFilter[T arrays.Number](sentinel ops.Param) *Elementwise[T] {
	return NewElementwise[T]("Mask", ops.NewMask[T](sentinel))
}

// NewNegateStatusFilter flips every element's Active/Passive status.
func NewNegateStatusFilter[T arrays.Number]() *Elementwise[T] {
	return NewElementwise[T]("NegateStatus", ops.NegateStatus[T]{})
}

// NewMaskOutsideIntervalFilter masks elements outside the closed interval
// [lower, upper].
func NewMaskOutsideIntervalFilter[T arrays.Number](lower, upper ops.Param) *Elementwise[T] {
	return NewElementwise[T]("MaskOutsideInterval", ops.NewMaskOutsideInterval[T](lower, upper))
}

// NewMaskOutsideOpenIntervalFilter masks elements at or outside the interval
// boundaries.
func NewMaskOutsideOpenIntervalFilter[T arrays.Number](lower, upper ops.Param) *Elementwise[T] {
	return NewElementwise[T]("MaskOutsideOpenInterval", ops.NewMaskOutsideOpenInterval[T](lower, upper))
}

// NewMaskInsideIntervalFilter masks elements inside the closed interval
// [lower, upper].
func NewMaskInsideIntervalFilter[T arrays.Number](lower, upper ops.Param) *Elementwise[T] {
	return NewElementwise[T]("MaskInsideInterval", ops.NewMaskInsideInterval[T](lower, upper))
}

// NewMaskInsideOpenIntervalFilter masks elements strictly between the
// interval boundaries.
func NewMaskInsideOpenIntervalFilter[T arrays.Number](lower, upper ops.Param) *Elementwise[T] {
	return NewElementwise[T]("MaskInsideOpenInterval", ops.NewMaskInsideOpenInterval[T](lower, upper))
}

// NewMaskEvenValuesFilter masks elements whose truncated value is even.
func NewMaskEvenValuesFilter[T arrays.Number]() *Elementwise[T] {
	return NewElementwise[T]("MaskEvenValues", ops.MaskEvenValues[T]{})
}

// NewMaskOddValuesFilter masks elements whose truncated value is odd.
func NewMaskOddValuesFilter[T arrays.Number]() *Elementwise[T] {
	return NewElementwise[T]("MaskOddValues", ops.MaskOddValues[T]{})
}
