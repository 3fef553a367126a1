// Package filters implements the unit-of-work lifecycle of the execution
// core.
//
// A Filter owns typed, non-owning input and output handles, declares arity
// bounds on both, and runs as Configured → device selected → Initialize →
// Execute → Finalize, all driven by a single Run call. Run recovers the
// internal panic-with-error idiom into a returned error, so a misconfigured
// filter reports a structured configuration error instead of taking the
// process down — and Execute never runs after a failed Initialize.
//
// Concrete filters embed Base, which provides handle management, arity
// validation, and the default lifecycle hooks, and implement Execute with the
// operator/dispatcher machinery from the ops package (see elementwise.go,
// applymask.go and percentile.go in this package for the built-in family).
package filters

import (
	"github.com/gomlx/exceptions"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/voxkit/voxkit/grids"
	"github.com/voxkit/voxkit/platforms"
	"github.com/voxkit/voxkit/types/arrays"
	"k8s.io/klog/v2"
)

// ErrConfiguration is the root of filter configuration errors: arity bounds
// violated, wrong input dtype, invalid parameters.
var ErrConfiguration = errors.New("filter configuration error")

// Unbounded disables an upper arity bound.
const Unbounded = -1

// Arity bounds the number of inputs and outputs a filter accepts. A negative
// max means unbounded.
type Arity struct {
	MinInputs, MaxInputs   int
	MinOutputs, MaxOutputs int
}

// Handle is a named, non-owning reference to an externally owned data object.
// The filter machinery reads and annotates the referenced data but never
// frees it; a filter must not outlive the objects its handles reference.
type Handle struct {
	Name string
	Data arrays.Data
}

// Filter is the lifecycle contract. The hooks panic with error values on
// failure (the gomlx exceptions idiom); Run recovers them into returned
// errors.
type Filter interface {
	// Name identifies the filter in logs and errors.
	Name() string

	// Core exposes the embedded Base to the Run driver.
	Core() *Base

	// Supports reports whether the filter can execute on the given platform.
	Supports(p platforms.Platform) bool

	// Initialize validates the configuration and fixes the output count and
	// shape. It must panic (with an error wrapping ErrConfiguration) on any
	// configuration problem.
	Initialize()

	// Execute performs the concrete transformation on the selected device.
	Execute()

	// Finalize post-processes or validates outputs for downstream use.
	Finalize()
}

// Base carries the state every filter shares. Embed it (by value) in
// concrete filter types and override the lifecycle hooks as needed, calling
// the Base implementation first.
type Base struct {
	name  string
	arity Arity

	// preferred is the explicit platform override; the zero Selection means
	// "let the selector decide".
	preferred platforms.Selection

	// resolved is the placement of the current/last run. Only valid during
	// and after a Run.
	resolved platforms.Selection

	// avoidCopy asks the selector to place the run where input 0 already
	// resides, when supported.
	avoidCopy bool

	// grid, when set, is the geometry array inputs must match.
	grid grids.Grid

	inputs  []Handle
	outputs []Handle
}

// NewBase returns a Base for a filter with the given name and arity bounds.
func NewBase(name string, arity Arity) Base {
	return Base{name: name, arity: arity}
}

// Name implements Filter.
func (b *Base) Name() string { return b.name }

// Core implements Filter.
func (b *Base) Core() *Base { return b }

// Arity returns the filter's arity bounds.
func (b *Base) Arity() Arity { return b.arity }

// Supports implements Filter: by default a filter runs anywhere. Concrete
// filters narrow this to the capabilities they need.
func (b *Base) Supports(platforms.Platform) bool { return true }

// SetPlatform fixes the run placement explicitly, bypassing the selector.
func (b *Base) SetPlatform(s platforms.Selection) { b.preferred = s }

// SetAvoidCopy asks the selector to keep the run on the platform where
// input 0 already resides, if the filter supports it.
func (b *Base) SetAvoidCopy(avoid bool) { b.avoidCopy = avoid }

// Selected returns the placement resolved for the current/last run.
func (b *Base) Selected() platforms.Selection { return b.resolved }

// SetGrid attaches the grid that array inputs are sampled on; filters with a
// grid reject inputs whose element count differs from the grid's point
// count. The grid is an addressing oracle only, never mutated.
func (b *Base) SetGrid(g grids.Grid) { b.grid = g }

// Grid returns the attached grid, or nil.
func (b *Base) Grid() grids.Grid { return b.grid }

// checkGridSize throws a configuration error when a grid is attached and the
// data's element count doesn't match its point count.
func (b *Base) checkGridSize(name string, data arrays.Data) {
	if b.grid == nil {
		return
	}
	if data.Size() != b.grid.PointCount() {
		panic(errors.Wrapf(ErrConfiguration,
			"filter %q: input %q has %d elements, grid has %d points",
			b.name, name, data.Size(), b.grid.PointCount()))
	}
}

// AddInput appends an input handle.
func (b *Base) AddInput(name string, data arrays.Data) {
	b.inputs = append(b.inputs, Handle{Name: name, Data: data})
}

// Input returns input handle i; i may be negative to count from the end.
func (b *Base) Input(i int) (Handle, error) {
	resolved, err := arrays.ResolveIndex(i, len(b.inputs))
	if err != nil {
		return Handle{}, errors.WithMessagef(err, "filter %q input", b.name)
	}
	return b.inputs[resolved], nil
}

// RemoveInput removes input handle i (negative counts from the end). It only
// drops the reference, never the underlying data.
func (b *Base) RemoveInput(i int) error {
	resolved, err := arrays.ResolveIndex(i, len(b.inputs))
	if err != nil {
		return errors.WithMessagef(err, "filter %q input", b.name)
	}
	b.inputs = append(b.inputs[:resolved], b.inputs[resolved+1:]...)
	return nil
}

// NumInputs returns the number of attached inputs.
func (b *Base) NumInputs() int { return len(b.inputs) }

// ClearInputs drops all input handles (references only).
func (b *Base) ClearInputs() { b.inputs = nil }

// SetOutputs replaces the output handles. Typically called from Initialize,
// once the output count is known.
func (b *Base) SetOutputs(outputs ...Handle) { b.outputs = append([]Handle(nil), outputs...) }

// Output returns output handle i; i may be negative to count from the end.
func (b *Base) Output(i int) (Handle, error) {
	resolved, err := arrays.ResolveIndex(i, len(b.outputs))
	if err != nil {
		return Handle{}, errors.WithMessagef(err, "filter %q output", b.name)
	}
	return b.outputs[resolved], nil
}

// NumOutputs returns the number of output handles.
func (b *Base) NumOutputs() int { return len(b.outputs) }

// Initialize implements Filter: it validates the input arity bounds.
// Concrete filters call it first from their own Initialize.
func (b *Base) Initialize() {
	n := len(b.inputs)
	if n < b.arity.MinInputs {
		panic(errors.Wrapf(ErrConfiguration,
			"filter %q requires at least %d input(s), %d attached", b.name, b.arity.MinInputs, n))
	}
	if b.arity.MaxInputs >= 0 && n > b.arity.MaxInputs {
		panic(errors.Wrapf(ErrConfiguration,
			"filter %q accepts at most %d input(s), %d attached", b.name, b.arity.MaxInputs, n))
	}
}

// Execute implements Filter with a placeholder: concrete filters must
// provide their own.
func (b *Base) Execute() {
	panic(errors.Errorf("filter %q does not implement Execute", b.name))
}

// Finalize implements Filter: it validates the output arity bounds fixed by
// Initialize/Execute.
func (b *Base) Finalize() {
	n := len(b.outputs)
	if n < b.arity.MinOutputs {
		panic(errors.Wrapf(ErrConfiguration,
			"filter %q must produce at least %d output(s), produced %d", b.name, b.arity.MinOutputs, n))
	}
	if b.arity.MaxOutputs >= 0 && n > b.arity.MaxOutputs {
		panic(errors.Wrapf(ErrConfiguration,
			"filter %q may produce at most %d output(s), produced %d", b.name, b.arity.MaxOutputs, n))
	}
}

// Run drives one execution of f: it resolves the run placement, then calls
// Initialize, Execute and Finalize in order, stopping at the first failure.
// Panics carrying errors (the exceptions idiom used throughout) are recovered
// and returned; Execute is never reached when Initialize fails.
//
// Run is synchronous and leaves f reconfigurable: handles and the platform
// preference survive the run, so a caller may adjust them and Run again.
func Run(ctx *platforms.Context, f Filter) (err error) {
	b := f.Core()
	runID := uuid.NewString()[:8]

	hint := platforms.Hint{}
	if b.avoidCopy && len(b.inputs) > 0 {
		hint = platforms.Hint{Placement: b.inputs[0].Data.Placement(), AvoidCopy: true}
	}
	selection, err := platforms.Select(ctx, b.preferred, f.Supports, hint)
	if err != nil {
		return errors.WithMessagef(err, "filter %q (run %s): selecting a device", f.Name(), runID)
	}
	b.resolved = selection
	klog.V(1).Infof("filters.Run %s: %q on %s, %d input(s)", runID, f.Name(), selection, len(b.inputs))

	phase := "Initialize"
	exception := exceptions.Try(func() {
		f.Initialize()
		phase = "Execute"
		f.Execute()
		phase = "Finalize"
		f.Finalize()
	})
	if exception != nil {
		if errException, ok := exception.(error); ok {
			return errors.WithMessagef(errException, "filter %q (run %s): %s", f.Name(), runID, phase)
		}
		return errors.Errorf("filter %q (run %s): %s: %v", f.Name(), runID, phase, exception)
	}

	// Outputs were produced on the selected placement; annotate them so
	// downstream filters can avoid copies.
	for _, out := range b.outputs {
		out.Data.SetPlacement(selection)
	}
	klog.V(1).Infof("filters.Run %s: %q done, %d output(s)", runID, f.Name(), len(b.outputs))
	return nil
}
