package filters

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/voxkit/voxkit/ops"
	"github.com/voxkit/voxkit/types/arrays"
	"gonum.org/v1/gonum/stat"
	"k8s.io/klog/v2"
)

// Percentile computes the p-quantile of the Active elements of its input and
// publishes it to a named slot of a Results store, making it available to
// downstream operators through bound Params. Its output is a Scalar holding
// the same value.
//
// It is the canonical producer stage of the dynamic-binding pattern: run the
// Percentile first, then a mask filter whose threshold is
// ops.BoundTo(store, slot).
type Percentile[T arrays.Number] struct {
	Base
	fraction float64
	store    *ops.Results
	slot     string

	arr    *arrays.Array[T]
	result *arrays.Scalar
}

// NewPercentile returns a Percentile stage publishing the fraction-quantile
// (fraction in [0, 1]) of its input to store under slot.
func NewPercentile[T arrays.Number](fraction float64, store *ops.Results, slot string) *Percentile[T] {
	return &Percentile[T]{
		Base:     NewBase("Percentile", Arity{MinInputs: 1, MaxInputs: 1, MinOutputs: 1, MaxOutputs: 1}),
		fraction: fraction,
		store:    store,
		slot:     slot,
		result:   arrays.NewScalar(math.NaN()),
	}
}

// Result returns the scalar output; its value is valid after a successful
// Run.
func (f *Percentile[T]) Result() *arrays.Scalar { return f.result }

// Initialize implements Filter.
func (f *Percentile[T]) Initialize() {
	f.Base.Initialize()
	if f.fraction < 0 || f.fraction > 1 {
		panic(errors.Wrapf(ErrConfiguration,
			"filter %q: quantile fraction must be in [0, 1], got %v", f.Name(), f.fraction))
	}
	f.arr = inputArray[T](&f.Base, 0)
	f.SetOutputs(Handle{Name: f.slot, Data: f.result})
}

// Execute implements Filter: a host-side reduction over the Active elements.
func (f *Percentile[T]) Execute() {
	values := f.arr.ActiveValues()
	if len(values) == 0 {
		klog.Warningf("filter %q: no Active elements, publishing NaN to slot %q", f.Name(), f.slot)
		f.result.Set(math.NaN())
		f.store.Publish(f.slot, math.NaN())
		return
	}
	sort.Float64s(values)
	quantile := stat.Quantile(f.fraction, stat.Empirical, values, nil)
	f.result.Set(quantile)
	f.store.Publish(f.slot, quantile)
}
