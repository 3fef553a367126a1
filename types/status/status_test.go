package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroValueIsActive(t *testing.T) {
	var v Value
	assert.Equal(t, Active, v)
	assert.True(t, v.IsActive())

	// A zeroed slice is fully active, no initialization pass needed.
	statuses := make([]Value, 16)
	for _, s := range statuses {
		assert.True(t, s.IsActive())
	}
}

func TestNegate(t *testing.T) {
	assert.Equal(t, Passive, Active.Negate())
	assert.Equal(t, Active, Passive.Negate())

	// Involution.
	for _, v := range []Value{Active, Passive} {
		assert.Equal(t, v, v.Negate().Negate())
	}
}

func TestCodeConversions(t *testing.T) {
	assert.Equal(t, Active, FromCode(Valid))
	for _, c := range []Code{Masked, OutOfRange, Rejected} {
		assert.Equal(t, Passive, FromCode(c), "code %s", c)
	}

	assert.Equal(t, Valid, Active.Code())
	assert.Equal(t, Masked, Passive.Code())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "Active", Active.String())
	assert.Equal(t, "Passive", Passive.String())
	assert.Equal(t, "OutOfRange", OutOfRange.String())
}
