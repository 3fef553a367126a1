// Package convert implements the toolkit's saturating numeric conversions.
//
// To converts a float64 measurement to any supported element type, clamping
// values outside the destination's representable range to the corresponding
// bound (no wrap-around, no undefined behavior). Limits exposes those bounds.
// Cross-arity conversions (vector to scalar) have no defined reduction and
// return ErrUnsupportedConversion instead of aborting.
package convert

import (
	"math"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/voxkit/voxkit/types/arrays"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
)

// ErrUnsupportedConversion is returned for conversions with no defined
// semantics, e.g. reducing a multi-component vector to a scalar.
var ErrUnsupportedConversion = errors.New("unsupported conversion")

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Limits returns the representable range of T as float64 bounds. The 64-bit
// integer maxima are not exactly representable and round up (to 2^63 and
// 2^64); To compensates when converting.
func Limits[T arrays.Number]() (lo, hi float64) {
	switch arrays.DTypeOf[T]() {
	case dtypes.Int8:
		return math.MinInt8, math.MaxInt8
	case dtypes.Int16:
		return math.MinInt16, math.MaxInt16
	case dtypes.Int32:
		return math.MinInt32, math.MaxInt32
	case dtypes.Int64:
		return math.MinInt64, math.MaxInt64
	case dtypes.Uint8:
		return 0, math.MaxUint8
	case dtypes.Uint16:
		return 0, math.MaxUint16
	case dtypes.Uint32:
		return 0, math.MaxUint32
	case dtypes.Uint64:
		return 0, math.MaxUint64
	case dtypes.Float32:
		return -math.MaxFloat32, math.MaxFloat32
	default:
		return -math.MaxFloat64, math.MaxFloat64
	}
}

// To converts v to T with saturation: values outside Limits[T]() clamp to the
// corresponding bound. Integer destinations truncate toward zero; NaN
// converts to zero for integer destinations and passes through for float
// destinations.
func To[T arrays.Number](v float64) T {
	dtype := arrays.DTypeOf[T]()
	if math.IsNaN(v) {
		if dtype == dtypes.Float32 || dtype == dtypes.Float64 {
			return T(math.NaN())
		}
		var zero T
		return zero
	}
	// The 64-bit integer maxima round up as float64 (to 2^63 and 2^64), so a
	// clamp in float space can still hand the conversion an overflowing
	// value. Catch the top of the range before converting.
	switch dtype {
	case dtypes.Int64:
		if v >= math.MaxInt64 {
			maxI64 := int64(math.MaxInt64)
			return T(maxI64)
		}
	case dtypes.Uint64:
		if v >= math.MaxUint64 {
			maxU64 := uint64(math.MaxUint64)
			return T(maxU64)
		}
	}
	lo, hi := Limits[T]()
	return T(clamp(v, lo, hi))
}

// Float16Limits returns the representable range of an IEEE half float.
func Float16Limits() (lo, hi float64) {
	const maxHalf = 65504
	return -maxHalf, maxHalf
}

// ToFloat16 converts v to an IEEE half float with saturation: values outside
// the half-float range clamp to ±65504 instead of overflowing to infinity.
// NaN passes through.
func ToFloat16(v float64) float16.Float16 {
	if math.IsNaN(v) {
		return float16.Fromfloat32(float32(math.NaN()))
	}
	lo, hi := Float16Limits()
	return float16.Fromfloat32(float32(clamp(v, lo, hi)))
}

// ToScalar reduces a vector value to a scalar. Only single-component vectors
// have a defined reduction; anything else returns ErrUnsupportedConversion —
// callers needing a reduction over multiple components must pick one
// explicitly.
func ToScalar(components []float64) (float64, error) {
	if len(components) != 1 {
		return 0, errors.Wrapf(ErrUnsupportedConversion,
			"cannot reduce a %d-component vector to a scalar", len(components))
	}
	return components[0], nil
}
