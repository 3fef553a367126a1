package filters_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxkit/voxkit/filters"
	"github.com/voxkit/voxkit/grids"
	"github.com/voxkit/voxkit/ops"
	"github.com/voxkit/voxkit/platforms"
	_ "github.com/voxkit/voxkit/platforms/host"
	"github.com/voxkit/voxkit/types/arrays"
	"github.com/voxkit/voxkit/types/status"
)

func newTestContext(t *testing.T) *platforms.Context {
	ctx, err := platforms.NewContextWithConfig("host:")
	require.NoError(t, err)
	t.Cleanup(ctx.Finalize)
	return ctx
}

// spyFilter records whether Execute ran.
type spyFilter struct {
	filters.Base
	executed bool
}

func newSpyFilter(minInputs, maxInputs int) *spyFilter {
	return &spyFilter{
		Base: filters.NewBase("spy", filters.Arity{
			MinInputs: minInputs, MaxInputs: maxInputs,
			MinOutputs: 0, MaxOutputs: filters.Unbounded,
		}),
	}
}

func (f *spyFilter) Execute() { f.executed = true }

func TestRunReportsArityViolation(t *testing.T) {
	ctx := newTestContext(t)

	// MinInputs=1, MaxInputs=1, zero inputs attached: Run must report a
	// configuration error and must not invoke Execute.
	f := newSpyFilter(1, 1)
	err := filters.Run(ctx, f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, filters.ErrConfiguration))
	assert.False(t, f.executed)

	// Too many inputs is the same class of error.
	f = newSpyFilter(0, 1)
	f.AddInput("a", arrays.New[float64](1))
	f.AddInput("b", arrays.New[float64](1))
	err = filters.Run(ctx, f)
	assert.True(t, errors.Is(err, filters.ErrConfiguration))
	assert.False(t, f.executed)

	// Unbounded max accepts any count.
	f = newSpyFilter(1, filters.Unbounded)
	for i := 0; i < 5; i++ {
		f.AddInput("in", arrays.New[float64](1))
	}
	require.NoError(t, filters.Run(ctx, f))
	assert.True(t, f.executed)
}

func TestMaskFilterScenario(t *testing.T) {
	ctx := newTestContext(t)
	arr := arrays.FromFlat([]float64{0, 1, 2, 3, 4})

	f := filters.NewMaskFilter[float64](ops.Const(2.0))
	f.AddInput("image", arr)
	require.NoError(t, filters.Run(ctx, f))

	assert.Equal(t, []status.Value{
		status.Active, status.Active, status.Passive, status.Active, status.Active,
	}, arr.Statuses())

	// The in-place output aliases the input and carries the run's placement.
	out, err := f.Output(0)
	require.NoError(t, err)
	assert.Same(t, arr, out.Data)
	assert.Equal(t, "host", arr.Placement().Platform.Name())
	assert.Equal(t, "host", f.Selected().Platform.Name())
}

func TestMaskFilterDTypeMismatch(t *testing.T) {
	ctx := newTestContext(t)
	f := filters.NewMaskFilter[float32](ops.Const(0))
	f.AddInput("image", arrays.New[float64](3))
	err := filters.Run(ctx, f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, filters.ErrConfiguration))
}

func TestNegateStatusRoundTrip(t *testing.T) {
	ctx := newTestContext(t)
	arr := arrays.FromFlat([]int32{1, 2, 3, 4})
	arr.Statuses()[2] = status.Passive

	f := filters.NewNegateStatusFilter[int32]()
	f.AddInput("image", arr)
	require.NoError(t, filters.Run(ctx, f))
	assert.Equal(t, 1, arr.NumActive())

	// A filter can be re-run; two negations restore the original statuses.
	require.NoError(t, filters.Run(ctx, f))
	assert.Equal(t, 3, arr.NumActive())
	assert.Equal(t, status.Passive, arr.Statuses()[2])
}

func TestIntervalAndParityFilters(t *testing.T) {
	ctx := newTestContext(t)

	arr := arrays.FromFlat([]float64{-1, 0, 5, 10, 11})
	f := filters.NewMaskOutsideIntervalFilter[float64](ops.Const(0), ops.Const(10))
	f.AddInput("image", arr)
	require.NoError(t, filters.Run(ctx, f))
	assert.Equal(t, []status.Value{
		status.Passive, status.Active, status.Active, status.Active, status.Passive,
	}, arr.Statuses())

	parity := arrays.FromFlat([]float64{2, 3, 4, 5})
	pf := filters.NewMaskEvenValuesFilter[float64]()
	pf.AddInput("image", parity)
	require.NoError(t, filters.Run(ctx, pf))
	assert.Equal(t, []status.Value{
		status.Passive, status.Active, status.Passive, status.Active,
	}, parity.Statuses())
}

func TestApplyMaskFilter(t *testing.T) {
	ctx := newTestContext(t)

	data := arrays.FromFlat([]float64{10, 20, 30, 40})
	mask := arrays.FromFlat([]float64{1, 0, 1, 0})
	f := filters.NewApplyMaskFilter[float64](ops.Const(0.0))
	f.AddInput("image", data)
	f.AddInput("mask", mask)
	require.NoError(t, filters.Run(ctx, f))
	assert.Equal(t, []float64{10, 20, 30, 40}, data.Flat())
	assert.Equal(t, []status.Value{
		status.Active, status.Passive, status.Active, status.Passive,
	}, data.Statuses())

	// Scalar mask source: sentinel match masks everything.
	scalarMasked := arrays.FromFlat([]float64{1, 2})
	sf := filters.NewApplyMaskFilter[float64](ops.Const(7.0))
	sf.AddInput("image", scalarMasked)
	sf.AddInput("mask", arrays.NewScalar(7))
	require.NoError(t, filters.Run(ctx, sf))
	assert.Equal(t, 0, scalarMasked.NumActive())

	// Length mismatch is a configuration error.
	bad := filters.NewApplyMaskFilter[float64](ops.Const(0.0))
	bad.AddInput("image", data)
	bad.AddInput("mask", arrays.New[float64](3))
	err := filters.Run(ctx, bad)
	assert.True(t, errors.Is(err, filters.ErrConfiguration))
}

func TestPercentileThenBoundMaskPipeline(t *testing.T) {
	ctx := newTestContext(t)

	flat := make([]float64, 100)
	for i := range flat {
		flat[i] = float64(i)
	}
	arr := arrays.FromFlat(flat)

	store := ops.NewResults()

	// The mask filter is built before its threshold exists; the bound
	// parameter is resolved when the filter executes.
	mask := filters.NewMaskOutsideIntervalFilter[float64](
		ops.Const(0), ops.BoundTo(store, "p90"))
	mask.AddInput("image", arr)

	producer := filters.NewPercentile[float64](0.9, store, "p90")
	producer.AddInput("image", arr)
	require.NoError(t, filters.Run(ctx, producer))
	assert.Equal(t, 89.0, producer.Result().Value())

	require.NoError(t, filters.Run(ctx, mask))
	// Values 90..99 are above the 90th percentile and masked out.
	assert.Equal(t, 90, arr.NumActive())
	for i := 90; i < 100; i++ {
		assert.Equal(t, status.Passive, arr.Statuses()[i], "index %d", i)
	}
}

func TestPercentileValidation(t *testing.T) {
	ctx := newTestContext(t)
	store := ops.NewResults()
	f := filters.NewPercentile[float64](1.5, store, "q")
	f.AddInput("image", arrays.New[float64](4))
	err := filters.Run(ctx, f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, filters.ErrConfiguration))
}

func TestGridSizeValidation(t *testing.T) {
	ctx := newTestContext(t)
	g, err := grids.NewRegular([3]int{2, 2, 1}, grids.Point{}, grids.Point{1, 1, 1})
	require.NoError(t, err)

	f := filters.NewMaskFilter[float64](ops.Const(0))
	f.SetGrid(g)
	f.AddInput("image", arrays.New[float64](4))
	require.NoError(t, filters.Run(ctx, f))

	bad := filters.NewMaskFilter[float64](ops.Const(0))
	bad.SetGrid(g)
	bad.AddInput("image", arrays.New[float64](5))
	err = filters.Run(ctx, bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, filters.ErrConfiguration))
}

func TestInputHandleManagement(t *testing.T) {
	f := newSpyFilter(0, filters.Unbounded)
	a := arrays.New[float64](1)
	b := arrays.New[float64](2)
	f.AddInput("a", a)
	f.AddInput("b", b)
	assert.Equal(t, 2, f.NumInputs())

	// Negative indices count from the end.
	h, err := f.Input(-1)
	require.NoError(t, err)
	assert.Equal(t, "b", h.Name)

	_, err = f.Input(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, arrays.ErrIndexOutOfRange))

	require.NoError(t, f.RemoveInput(-2))
	assert.Equal(t, 1, f.NumInputs())
	h, err = f.Input(0)
	require.NoError(t, err)
	assert.Equal(t, "b", h.Name)
}
