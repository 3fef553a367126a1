package platforms_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxkit/voxkit/platforms"
	_ "github.com/voxkit/voxkit/platforms/host"
)

// fakeAccel is a device-only platform used to exercise the selector without
// real accelerator hardware.
type fakeAccel struct{}

func (fakeAccel) Name() string                    { return "accel" }
func (fakeAccel) Description() string             { return "fake accelerator for tests" }
func (fakeAccel) NumDevices() platforms.DeviceNum { return 2 }
func (fakeAccel) Finalize()                       {}

func init() {
	platforms.Register("accel", func(options string) (platforms.Platform, error) {
		return fakeAccel{}, nil
	})
}

func supportsAll(platforms.Platform) bool  { return true }
func supportsNone(platforms.Platform) bool { return false }

func supportsOnly(name string) func(platforms.Platform) bool {
	return func(p platforms.Platform) bool { return p.Name() == name }
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, platforms.Registered(), "host")
	assert.Contains(t, platforms.Registered(), "accel")
}

func TestContext(t *testing.T) {
	ctx, err := platforms.NewContextWithConfig("host:")
	require.NoError(t, err)
	defer ctx.Finalize()
	assert.Equal(t, "host", ctx.Active().Platform.Name())

	// Other platforms are instantiated lazily.
	accel, err := ctx.Platform("accel")
	require.NoError(t, err)
	assert.Equal(t, platforms.DeviceNum(2), accel.NumDevices())

	_, err = ctx.Platform("tpu")
	assert.Error(t, err)

	_, err = platforms.NewContextWithConfig("tpu:")
	assert.Error(t, err)
}

func TestSelectExplicitWins(t *testing.T) {
	ctx, err := platforms.NewContextWithConfig("host:")
	require.NoError(t, err)
	accel, err := ctx.Platform("accel")
	require.NoError(t, err)

	explicit := platforms.On(accel, 1)
	sel, err := platforms.Select(ctx, explicit, supportsAll, platforms.Hint{})
	require.NoError(t, err)
	assert.Equal(t, explicit, sel)
}

func TestSelectAvoidCopyHint(t *testing.T) {
	ctx, err := platforms.NewContextWithConfig("host:")
	require.NoError(t, err)
	accel, err := ctx.Platform("accel")
	require.NoError(t, err)
	onAccel := platforms.On(accel, 1)

	// With avoid-copy and support, the run stays where the input lives.
	sel, err := platforms.Select(ctx, platforms.Selection{}, supportsAll,
		platforms.Hint{Placement: onAccel, AvoidCopy: true})
	require.NoError(t, err)
	assert.Equal(t, onAccel, sel)

	// Without avoid-copy the hint is ignored.
	sel, err = platforms.Select(ctx, platforms.Selection{}, supportsAll,
		platforms.Hint{Placement: onAccel})
	require.NoError(t, err)
	assert.Equal(t, "host", sel.Platform.Name())

	// An unsupported hint platform falls back to the active one.
	sel, err = platforms.Select(ctx, platforms.Selection{}, supportsOnly("host"),
		platforms.Hint{Placement: onAccel, AvoidCopy: true})
	require.NoError(t, err)
	assert.Equal(t, "host", sel.Platform.Name())
}

func TestSelectFallsBackToAnySupported(t *testing.T) {
	ctx, err := platforms.NewContextWithConfig("host:")
	require.NoError(t, err)

	// Active platform unsupported: the selector scans registered platforms.
	sel, err := platforms.Select(ctx, platforms.Selection{}, supportsOnly("accel"), platforms.Hint{})
	require.NoError(t, err)
	assert.Equal(t, "accel", sel.Platform.Name())
	assert.Equal(t, platforms.DeviceNum(0), sel.Device)

	_, err = platforms.Select(ctx, platforms.Selection{}, supportsNone, platforms.Hint{})
	assert.Error(t, err)
}
