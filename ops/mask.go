package ops

import (
	"math"

	"github.com/voxkit/voxkit/types/arrays"
	"github.com/voxkit/voxkit/types/status"
)

// maskEpsilon is the tolerance of sentinel equality for float-valued
// elements, relative to the larger magnitude involved.
const maskEpsilon = 1e-9

// sentinelEquals implements the NaN-aware sentinel comparison: a NaN sentinel
// matches NaN values; otherwise values within an epsilon of the sentinel
// match.
func sentinelEquals(v, sentinel float64) bool {
	if math.IsNaN(sentinel) {
		return math.IsNaN(v)
	}
	scale := math.Max(1, math.Max(math.Abs(v), math.Abs(sentinel)))
	return math.Abs(v-sentinel) <= maskEpsilon*scale
}

func statusFor(passive bool) status.Value {
	if passive {
		return status.Passive
	}
	return status.Active
}

// NegateStatus flips every element's status, Active to Passive and back,
// leaving values untouched. Applying it twice is the identity.
type NegateStatus[T arrays.Number] struct{}

// Apply implements Unary.
func (NegateStatus[T]) Apply(v T, s status.Value) (T, status.Value) {
	return v, s.Negate()
}

// Mask marks elements Passive whose value equals the sentinel: a NaN sentinel
// masks NaN values, any other sentinel masks values equal to it within an
// epsilon tolerance. Non-matching elements become Active.
type Mask[T arrays.Number] struct {
	Sentinel Param
}

// NewMask returns a Mask with the given sentinel ("zero mask value").
func NewMask[T arrays.Number](sentinel Param) Mask[T] {
	return Mask[T]{Sentinel: sentinel}
}

// Apply implements Unary.
func (m Mask[T]) Apply(v T, _ status.Value) (T, status.Value) {
	return v, statusFor(sentinelEquals(float64(v), m.Sentinel.Value()))
}

// ApplyMask is the binary form of Mask: the left-hand value passes through
// unchanged, and the result is Passive where the right-hand value equals the
// sentinel. Where it doesn't, the right-hand operand's own status is
// propagated, so masks compose.
type ApplyMask[T arrays.Number] struct {
	Sentinel Param
}

// NewApplyMask returns an ApplyMask with the given sentinel.
func NewApplyMask[T arrays.Number](sentinel Param) ApplyMask[T] {
	return ApplyMask[T]{Sentinel: sentinel}
}

// ApplyPair implements Binary.
func (m ApplyMask[T]) ApplyPair(lhs, rhs T, rhsStatus status.Value) (T, status.Value) {
	if sentinelEquals(float64(rhs), m.Sentinel.Value()) {
		return lhs, status.Passive
	}
	return lhs, rhsStatus
}

// interval carries the two threshold parameters shared by the interval mask
// operators. Thresholds are resolved at apply time, so bound parameters see
// the value current at execution, not at construction.
type interval struct {
	Lower, Upper Param
}

// LowerThreshold resolves the effective lower threshold.
func (b interval) LowerThreshold() float64 { return b.Lower.Value() }

// UpperThreshold resolves the effective upper threshold.
func (b interval) UpperThreshold() float64 { return b.Upper.Value() }

// MaskOutsideInterval marks elements Passive outside the closed interval
// [lower, upper]; both boundary values stay Active.
//
// When lower > upper the interval is read as the complement of
// [upper, lower]: elements strictly between upper and lower become Passive.
// This supports masking outside a band that wraps around.
type MaskOutsideInterval[T arrays.Number] struct {
	interval
}

// NewMaskOutsideInterval returns the operator with the given thresholds.
func NewMaskOutsideInterval[T arrays.Number](lower, upper Param) MaskOutsideInterval[T] {
	return MaskOutsideInterval[T]{interval{Lower: lower, Upper: upper}}
}

// Apply implements Unary.
func (m MaskOutsideInterval[T]) Apply(v T, _ status.Value) (T, status.Value) {
	x := float64(v)
	l, u := m.LowerThreshold(), m.UpperThreshold()
	var passive bool
	if l <= u {
		passive = x < l || x > u
	} else {
		passive = x > u && x < l
	}
	return v, statusFor(passive)
}

// MaskOutsideOpenInterval is the open-boundary variant of
// MaskOutsideInterval: the boundary values themselves are Passive, only
// strict containment keeps an element Active.
type MaskOutsideOpenInterval[T arrays.Number] struct {
	interval
}

// NewMaskOutsideOpenInterval returns the operator with the given thresholds.
func NewMaskOutsideOpenInterval[T arrays.Number](lower, upper Param) MaskOutsideOpenInterval[T] {
	return MaskOutsideOpenInterval[T]{interval{Lower: lower, Upper: upper}}
}

// Apply implements Unary.
func (m MaskOutsideOpenInterval[T]) Apply(v T, _ status.Value) (T, status.Value) {
	x := float64(v)
	l, u := m.LowerThreshold(), m.UpperThreshold()
	var passive bool
	if l <= u {
		passive = x <= l || x >= u
	} else {
		passive = x >= u && x <= l
	}
	return v, statusFor(passive)
}

// MaskInsideInterval marks elements Passive inside the closed interval
// [lower, upper], boundaries included. When lower > upper, elements outside
// [upper, lower] become Passive instead.
type MaskInsideInterval[T arrays.Number] struct {
	interval
}

// NewMaskInsideInterval returns the operator with the given thresholds.
func NewMaskInsideInterval[T arrays.Number](lower, upper Param) MaskInsideInterval[T] {
	return MaskInsideInterval[T]{interval{Lower: lower, Upper: upper}}
}

// Apply implements Unary.
func (m MaskInsideInterval[T]) Apply(v T, _ status.Value) (T, status.Value) {
	x := float64(v)
	l, u := m.LowerThreshold(), m.UpperThreshold()
	var passive bool
	if l <= u {
		passive = x >= l && x <= u
	} else {
		passive = x < u || x > l
	}
	return v, statusFor(passive)
}

// MaskInsideOpenInterval is the strict-inequality variant of
// MaskInsideInterval: only elements strictly between the thresholds become
// Passive, boundary values stay Active. When lower > upper the boundaries
// flip the other way: elements at or outside the swapped band become
// Passive.
type MaskInsideOpenInterval[T arrays.Number] struct {
	interval
}

// NewMaskInsideOpenInterval returns the operator with the given thresholds.
func NewMaskInsideOpenInterval[T arrays.Number](lower, upper Param) MaskInsideOpenInterval[T] {
	return MaskInsideOpenInterval[T]{interval{Lower: lower, Upper: upper}}
}

// Apply implements Unary.
func (m MaskInsideOpenInterval[T]) Apply(v T, _ status.Value) (T, status.Value) {
	x := float64(v)
	l, u := m.LowerThreshold(), m.UpperThreshold()
	var passive bool
	if l <= u {
		passive = x > l && x < u
	} else {
		passive = x <= u || x >= l
	}
	return v, statusFor(passive)
}

// parityOf returns whether v truncates to an odd integer, and whether it has
// a parity at all: NaN and float values beyond the int64 range have no
// defined truncation. Integer sources always have a parity.
func parityOf[T arrays.Number](v T) (odd, ok bool) {
	switch x := any(v).(type) {
	case float32:
		return floatParity(float64(x))
	case float64:
		return floatParity(x)
	}
	return int64(v)%2 != 0, true
}

func floatParity(x float64) (odd, ok bool) {
	if math.IsNaN(x) || x >= math.MaxInt64 || x < math.MinInt64 {
		return false, false
	}
	return int64(x)%2 != 0, true
}

// MaskEvenValues marks elements Passive whose value, truncated toward zero,
// is an even integer. Elements without a parity (NaN, float values beyond
// the int64 range) keep their incoming status.
type MaskEvenValues[T arrays.Number] struct{}

// Apply implements Unary.
func (MaskEvenValues[T]) Apply(v T, s status.Value) (T, status.Value) {
	odd, ok := parityOf(v)
	if !ok {
		return v, s
	}
	return v, statusFor(!odd)
}

// MaskOddValues marks elements Passive whose value, truncated toward zero,
// is an odd integer. For any value with a defined parity it is the exact
// complement of MaskEvenValues; elements without one keep their incoming
// status.
type MaskOddValues[T arrays.Number] struct{}

// Apply implements Unary.
func (MaskOddValues[T]) Apply(v T, s status.Value) (T, status.Value) {
	odd, ok := parityOf(v)
	if !ok {
		return v, s
	}
	return v, statusFor(odd)
}
