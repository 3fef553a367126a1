package ops

import (
	"fmt"
	"math"
	"sync"

	"k8s.io/klog/v2"
)

// Results is a shared store of named scalar results populated by upstream
// pipeline stages (e.g. a percentile filter) and read by bound Params of
// downstream operators.
//
// Publish and Lookup are safe for concurrent use. There is no notion of
// "ready": reading a slot before its producer ran is the caller's ordering
// mistake (see Param.Value).
type Results struct {
	mu    sync.RWMutex
	slots map[string]float64
}

// NewResults returns an empty Results store.
func NewResults() *Results {
	return &Results{slots: make(map[string]float64)}
}

// Publish stores value under the named slot, overwriting any previous value.
func (r *Results) Publish(slot string, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slot] = value
}

// Lookup returns the value of the named slot and whether it has been
// published.
func (r *Results) Lookup(slot string) (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, found := r.slots[slot]
	return value, found
}

// Param is a numeric operator parameter: either a literal constant fixed at
// construction, or a live binding to a named slot of a Results store.
//
// A bound Param is resolved by value at every read, never cached, so a
// two-stage pipeline can construct a masking operator before its threshold
// exists and have the threshold picked up at execution time. The producer
// stage must have run before the consumer reads the Param — that
// happens-before edge is the caller's responsibility. Reading a slot that was
// never published yields NaN (and logs a warning), which deliberately poisons
// comparisons rather than silently masking with a garbage threshold.
type Param struct {
	literal float64
	store   *Results
	slot    string
}

// Const returns a Param holding a fixed literal value.
func Const(value float64) Param {
	return Param{literal: value}
}

// BoundTo returns a Param that reads the named slot of store at every
// resolution.
func BoundTo(store *Results, slot string) Param {
	return Param{store: store, slot: slot}
}

// IsBound reports whether the Param observes a Results slot rather than
// holding a literal.
func (p Param) IsBound() bool { return p.store != nil }

// Value resolves the parameter's current value.
func (p Param) Value() float64 {
	if p.store == nil {
		return p.literal
	}
	value, found := p.store.Lookup(p.slot)
	if !found {
		klog.Warningf("ops.Param: slot %q read before any stage published it, resolving to NaN", p.slot)
		return math.NaN()
	}
	return value
}

// String implements fmt.Stringer.
func (p Param) String() string {
	if p.IsBound() {
		return fmt.Sprintf("BoundTo(%q)", p.slot)
	}
	return fmt.Sprintf("Const(%v)", p.literal)
}
