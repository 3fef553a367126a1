package arrays

import (
	"fmt"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/voxkit/voxkit/platforms"
	"github.com/voxkit/voxkit/types/status"
)

// Scalar is a single-element data object, used for statistic results (e.g. a
// percentile) that downstream stages consume as inputs or bound parameters.
type Scalar struct {
	value     float64
	st        [1]status.Value
	placement platforms.Selection
}

var _ Data = (*Scalar)(nil)

// NewScalar returns an Active Scalar holding value.
func NewScalar(value float64) *Scalar {
	return &Scalar{value: value}
}

// Value returns the scalar's value.
func (s *Scalar) Value() float64 { return s.value }

// Set stores a new value.
func (s *Scalar) Set(value float64) { s.value = value }

// Size returns 1.
func (s *Scalar) Size() int { return 1 }

// DType returns Float64.
func (s *Scalar) DType() dtypes.DType { return dtypes.Float64 }

// Statuses returns the one-element status slice.
func (s *Scalar) Statuses() []status.Value { return s.st[:] }

// Placement returns where the scalar was produced.
func (s *Scalar) Placement() platforms.Selection { return s.placement }

// SetPlacement annotates the scalar with a new placement.
func (s *Scalar) SetPlacement(sel platforms.Selection) { s.placement = sel }

// Memory returns the bytes used by the value storage.
func (s *Scalar) Memory() uintptr { return dtypes.Float64.Memory() }

// String implements fmt.Stringer.
func (s *Scalar) String() string {
	return fmt.Sprintf("arrays.Scalar{%v, %s}", s.value, s.st[0])
}
