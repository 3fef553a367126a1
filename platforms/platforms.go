// Package platforms defines the execution backends a filter run can be placed
// on, and the placement heuristic that picks one.
//
// A Platform is an execution backend: the host CPU, or an accelerator device
// family. Platforms register themselves by name during package initialization
// (see Register); a process then builds a Context, which instantiates
// platforms on demand and records which one is currently active. The Context
// is an explicit argument everywhere — there is no ambient process-wide
// "current platform", so placement decisions are deterministic and testable.
//
// The default platform is resolved from a configuration string of the form
// "<platform_name>:<platform_options>", taken from the VOXKIT_PLATFORM
// environment variable, then the DefaultConfig package variable, then the
// first registered platform.
package platforms

import (
	"strings"

	"github.com/pkg/errors"
)

// DeviceNum identifies one device within a Platform. It should be in the
// range [0, Platform.NumDevices()); interpretation is up to the platform.
type DeviceNum int

// Platform is the API an execution backend implements to be selectable for
// filter runs. Concrete platforms typically also implement capability
// interfaces consumed by the dispatcher (e.g. ops.Engine).
type Platform interface {
	// Name returns the short registered name of the platform, e.g. "host".
	Name() string

	// Description is a longer human-readable description.
	Description() string

	// NumDevices returns the number of devices available on this platform.
	NumDevices() DeviceNum

	// Finalize releases the platform's resources and makes it invalid.
	Finalize()
}

// Constructor builds a Platform from a platform-specific options string
// (possibly empty).
type Constructor func(options string) (Platform, error)

var (
	registeredConstructors = make(map[string]Constructor)
	registrationOrder      []string
)

// Register makes a platform constructor available under the given name.
// Call it from an init function of the platform's package.
func Register(name string, constructor Constructor) {
	if _, found := registeredConstructors[name]; !found {
		registrationOrder = append(registrationOrder, name)
	}
	registeredConstructors[name] = constructor
}

// Registered returns the registered platform names, in registration order.
func Registered() []string {
	return append([]string(nil), registrationOrder...)
}

// DefaultConfig is used to resolve the default platform when the
// VOXKIT_PLATFORM environment variable is not set.
// See package documentation for the configuration string format.
var DefaultConfig string

// ConfigEnvVar is the environment variable consulted for the default
// platform configuration.
const ConfigEnvVar = "VOXKIT_PLATFORM"

// splitConfig separates "<name>:<options>" into its parts. A config without
// a colon selects the first registered platform and is passed whole as
// options only when it names no platform.
func splitConfig(config string) (name, options string) {
	if idx := strings.Index(config, ":"); idx != -1 {
		return config[:idx], config[idx+1:]
	}
	return config, ""
}

// newPlatform instantiates a registered platform by name.
func newPlatform(name, options string) (Platform, error) {
	constructor, found := registeredConstructors[name]
	if !found {
		return nil, errors.Errorf("platform %q is not registered (registered: %v)", name, Registered())
	}
	p, err := constructor(options)
	if err != nil {
		return nil, errors.WithMessagef(err, "building platform %q", name)
	}
	return p, nil
}
