// Package arrays implements DataArray, the ordered fixed-length sequence of
// numeric measurements the execution core operates on.
//
// Every element pairs a value with a status.Value tag: the value slice and
// status slice always have identical length, and a freshly allocated array is
// fully Active (the status zero value). Arrays also carry placement metadata
// recording which platform/device last produced their contents; the metadata
// is consulted by the device selector to avoid copies, and never moves data
// by itself.
//
// Indexing follows the toolkit's negative-index convention: index -1 is the
// last element. An index still out of range after normalization is a
// recoverable ErrIndexOutOfRange, never a panic.
package arrays

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/voxkit/voxkit/platforms"
	"github.com/voxkit/voxkit/types/status"
)

// Number are the plain-old-data element types arrays support.
type Number interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// DTypeOf maps a supported element type to its dtype tag.
func DTypeOf[T Number]() dtypes.DType {
	var v T
	switch any(v).(type) {
	case int8:
		return dtypes.Int8
	case int16:
		return dtypes.Int16
	case int32:
		return dtypes.Int32
	case int64:
		return dtypes.Int64
	case uint8:
		return dtypes.Uint8
	case uint16:
		return dtypes.Uint16
	case uint32:
		return dtypes.Uint32
	case uint64:
		return dtypes.Uint64
	case float32:
		return dtypes.Float32
	default:
		return dtypes.Float64
	}
}

// ErrIndexOutOfRange is returned when an index, after negative-index
// normalization, still falls outside [0, length).
var ErrIndexOutOfRange = errors.New("index out of range")

// ResolveIndex normalizes index i for a sequence of length n: a negative i
// counts from the end (i becomes n+i). It returns ErrIndexOutOfRange if the
// normalized index is outside [0, n).
func ResolveIndex(i, n int) (int, error) {
	resolved := i
	if resolved < 0 {
		resolved += n
	}
	if resolved < 0 || resolved >= n {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "index %d with length %d", i, n)
	}
	return resolved, nil
}

// Data is the non-generic view of a data object held by filter input/output
// handles. It is implemented by *Array[T] and *Scalar.
//
// Handles are non-owning: the filter machinery only reads and annotates Data,
// it never frees the underlying storage.
type Data interface {
	// Size returns the number of elements.
	Size() int

	// DType returns the element data type.
	DType() dtypes.DType

	// Statuses returns the per-element status slice, aliasing the object's
	// own storage.
	Statuses() []status.Value

	// Placement returns where the object's contents currently reside.
	// The zero Selection means host memory with no device annotation.
	Placement() platforms.Selection

	// SetPlacement annotates the object with a new placement. It records
	// metadata only; relocating the bytes is the caller's job.
	SetPlacement(platforms.Selection)

	// Memory returns the bytes used by the value storage.
	Memory() uintptr
}

// Array is a fixed-length sequence of numeric values, each paired with an
// Active/Passive status tag.
type Array[T Number] struct {
	flat      []T
	statuses  []status.Value
	placement platforms.Selection
}

var _ Data = (*Array[float64])(nil)

// New returns a zero-valued Array of the given size, fully Active.
func New[T Number](size int) *Array[T] {
	return &Array[T]{
		flat:     make([]T, size),
		statuses: make([]status.Value, size),
	}
}

// FromFlat wraps the given value slice in an Array, taking ownership of it.
// Statuses start fully Active.
func FromFlat[T Number](flat []T) *Array[T] {
	return &Array[T]{
		flat:     flat,
		statuses: make([]status.Value, len(flat)),
	}
}

// Size returns the number of elements.
func (a *Array[T]) Size() int { return len(a.flat) }

// DType returns the element data type.
func (a *Array[T]) DType() dtypes.DType { return DTypeOf[T]() }

// Flat returns the value slice, aliasing the array's own storage.
func (a *Array[T]) Flat() []T { return a.flat }

// Statuses returns the status slice, aliasing the array's own storage.
func (a *Array[T]) Statuses() []status.Value { return a.statuses }

// Placement returns where the array's contents currently reside.
func (a *Array[T]) Placement() platforms.Selection { return a.placement }

// SetPlacement annotates the array with a new placement (metadata only).
func (a *Array[T]) SetPlacement(s platforms.Selection) { a.placement = s }

// Memory returns the bytes used by the value storage.
func (a *Array[T]) Memory() uintptr {
	return a.DType().Memory() * uintptr(len(a.flat))
}

// At returns the value at index i, which may be negative to count from the
// end.
func (a *Array[T]) At(i int) (T, error) {
	resolved, err := ResolveIndex(i, len(a.flat))
	if err != nil {
		var zero T
		return zero, err
	}
	return a.flat[resolved], nil
}

// SetAt stores value at index i, which may be negative to count from the end.
func (a *Array[T]) SetAt(i int, value T) error {
	resolved, err := ResolveIndex(i, len(a.flat))
	if err != nil {
		return err
	}
	a.flat[resolved] = value
	return nil
}

// StatusAt returns the status at index i, which may be negative to count from
// the end.
func (a *Array[T]) StatusAt(i int) (status.Value, error) {
	resolved, err := ResolveIndex(i, len(a.flat))
	if err != nil {
		return status.Active, err
	}
	return a.statuses[resolved], nil
}

// NumActive returns how many elements are currently Active.
func (a *Array[T]) NumActive() int {
	count := 0
	for _, s := range a.statuses {
		if s.IsActive() {
			count++
		}
	}
	return count
}

// ActiveValues returns the values of Active elements, as float64, in index
// order. Used by statistic stages that must ignore masked elements.
func (a *Array[T]) ActiveValues() []float64 {
	values := make([]float64, 0, len(a.flat))
	for i, v := range a.flat {
		if a.statuses[i].IsActive() {
			values = append(values, float64(v))
		}
	}
	return values
}

// String implements fmt.Stringer.
func (a *Array[T]) String() string {
	return fmt.Sprintf("arrays.Array[%s]{%d elements, %s, placement=%s}",
		a.DType(), len(a.flat), humanize.Bytes(uint64(a.Memory())), a.placement)
}
