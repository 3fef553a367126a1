// Package status defines the per-element inclusion tag carried alongside every
// value of a data array.
//
// A Value is a compact two-state tag: Active elements contribute to downstream
// computation, Passive elements are masked out. Arrays allocate one Value per
// element; the zero value is Active, so freshly allocated (zeroed) status
// slices start fully active without an initialization pass.
//
// A richer Code enumeration records why an element was masked; Value and Code
// convert both ways, collapsing every non-valid Code to Passive.
package status

// Value is the two-state inclusion tag of a data element, stored in one byte.
//
// The zero value is Active.
type Value uint8

const (
	// Active marks an element as included in downstream computation.
	Active Value = iota

	// Passive marks an element as masked out.
	Passive
)

// String implements fmt.Stringer.
func (v Value) String() string {
	if v == Active {
		return "Active"
	}
	return "Passive"
}

// IsActive returns whether the element is included.
func (v Value) IsActive() bool { return v == Active }

// Negate flips Active to Passive and vice versa.
func (v Value) Negate() Value {
	if v == Active {
		return Passive
	}
	return Active
}

// Code is the richer status enumeration some pipelines attach to elements.
// Only Valid maps back to Active; every other code is a flavor of Passive.
type Code uint8

const (
	// Valid means the element carries a usable measurement.
	Valid Code = iota

	// Masked means the element was excluded by a masking operator.
	Masked

	// OutOfRange means the element fell outside a configured interval.
	OutOfRange

	// Rejected means the element was discarded by an upstream quality check.
	Rejected
)

// String implements fmt.Stringer.
func (c Code) String() string {
	switch c {
	case Valid:
		return "Valid"
	case Masked:
		return "Masked"
	case OutOfRange:
		return "OutOfRange"
	case Rejected:
		return "Rejected"
	}
	return "Code(?)"
}

// FromCode converts a rich status code to the compact two-state tag.
func FromCode(c Code) Value {
	if c == Valid {
		return Active
	}
	return Passive
}

// Code converts the compact tag to the rich enumeration, losing the masking
// reason: Passive always becomes Masked.
func (v Value) Code() Code {
	if v == Active {
		return Valid
	}
	return Masked
}
