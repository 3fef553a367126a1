// Package host implements the host-CPU execution platform.
//
// It is the portable default: element-wise dispatch runs on a pool of
// goroutines over the caller's arrays, with no data movement ever required.
// Importing the package registers it under the name "host".
//
// The platform options string is either empty or the parallelism target as
// an integer, e.g. VOXKIT_PLATFORM="host:4"; 0 disables parallelism and a
// negative value means one worker per CPU.
package host

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
	"github.com/voxkit/voxkit/internal/workerspool"
	"github.com/voxkit/voxkit/platforms"
)

// PlatformName is the registered name of this platform.
const PlatformName = "host"

func init() {
	platforms.Register(PlatformName, New)
}

// Platform executes element-wise work on host goroutines. It implements
// platforms.Platform and the ops.Engine capability.
type Platform struct {
	pool *workerspool.Pool
}

// New constructs the host platform. See the package documentation for the
// options string format.
func New(options string) (platforms.Platform, error) {
	pool := workerspool.New()
	if options != "" {
		parallelism, err := strconv.Atoi(options)
		if err != nil {
			return nil, errors.Wrapf(err, "host platform options must be a parallelism integer, got %q", options)
		}
		pool.SetMaxParallelism(parallelism)
	}
	return &Platform{pool: pool}, nil
}

// Name implements platforms.Platform.
func (p *Platform) Name() string { return PlatformName }

// Description implements platforms.Platform.
func (p *Platform) Description() string {
	return fmt.Sprintf("Host CPU (%d cores, parallelism target %d)",
		runtime.NumCPU(), p.pool.MaxParallelism())
}

// NumDevices implements platforms.Platform: the host is a single device.
func (p *Platform) NumDevices() platforms.DeviceNum { return 1 }

// Finalize implements platforms.Platform. The host platform holds no
// resources beyond its pool.
func (p *Platform) Finalize() { p.pool = nil }

// ParallelFor implements the ops.Engine capability.
func (p *Platform) ParallelFor(n, grain int, fn func(start, end int)) {
	p.pool.ParallelFor(n, grain, fn)
}

// Pool exposes the platform's worker pool, mostly so tests can adjust the
// parallelism target.
func (p *Platform) Pool() *workerspool.Pool { return p.pool }
