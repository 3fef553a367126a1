package filters

import (
	"github.com/pkg/errors"
	"github.com/voxkit/voxkit/ops"
	"github.com/voxkit/voxkit/platforms"
	"github.com/voxkit/voxkit/types/arrays"
	"github.com/voxkit/voxkit/types/convert"
)

// ApplyMaskFilter transfers a mask from a second input onto its first: the
// data values pass through unchanged, and elements become Passive where the
// mask input equals the sentinel (or carries a Passive status itself; see
// ops.ApplyMask). The mask input may be an equal-length array or a single
// scalar.
//
// Input 0 is the data, input 1 the mask source; the output aliases input 0.
type ApplyMaskFilter[T arrays.Number] struct {
	Base
	op ops.ApplyMask[T]

	// resolved by Initialize.
	data       *arrays.Array[T]
	maskArr    *arrays.Array[T]
	maskScalar *arrays.Scalar
}

// NewApplyMaskFilter returns an ApplyMaskFilter with the given sentinel.
func NewApplyMaskFilter[T arrays.Number](sentinel ops.Param) *ApplyMaskFilter[T] {
	return &ApplyMaskFilter[T]{
		Base: NewBase("ApplyMask", Arity{MinInputs: 2, MaxInputs: 2, MinOutputs: 1, MaxOutputs: 1}),
		op:   ops.NewApplyMask[T](sentinel),
	}
}

// Supports implements Filter.
func (f *ApplyMaskFilter[T]) Supports(p platforms.Platform) bool {
	_, ok := p.(ops.Engine)
	return ok
}

// Initialize implements Filter.
func (f *ApplyMaskFilter[T]) Initialize() {
	f.Base.Initialize()
	f.data = inputArray[T](&f.Base, 0)
	dataIn, _ := f.Input(0)
	f.checkGridSize(dataIn.Name, f.data)

	maskIn, _ := f.Input(1)
	f.maskArr, f.maskScalar = nil, nil
	switch mask := maskIn.Data.(type) {
	case *arrays.Array[T]:
		if mask.Size() != f.data.Size() {
			panic(errors.Wrapf(ErrConfiguration,
				"filter %q: mask input has %d elements, data has %d",
				f.Name(), mask.Size(), f.data.Size()))
		}
		f.maskArr = mask
	case *arrays.Scalar:
		f.maskScalar = mask
	default:
		panic(errors.Wrapf(ErrConfiguration,
			"filter %q: mask input must be an array of the data's dtype or a scalar, got %s",
			f.Name(), maskIn.Data.DType()))
	}

	f.SetOutputs(dataIn)
}

// Execute implements Filter.
func (f *ApplyMaskFilter[T]) Execute() {
	engine, _ := f.Selected().Platform.(ops.Engine)
	var err error
	if f.maskArr != nil {
		err = ops.ApplyBinary(engine, f.op, f.data, f.maskArr, f.data)
	} else {
		maskStatus := f.maskScalar.Statuses()[0]
		err = ops.ApplyBinaryScalar(engine, f.op, f.data,
			convert.To[T](f.maskScalar.Value()), maskStatus, f.data)
	}
	if err != nil {
		panic(err)
	}
}
