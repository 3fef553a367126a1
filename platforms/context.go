package platforms

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// Selection is a resolved (platform, device) placement.
// The zero value is "unset" and means no explicit placement.
type Selection struct {
	Platform Platform
	Device   DeviceNum
}

// IsValid reports whether the selection names a platform.
func (s Selection) IsValid() bool { return s.Platform != nil }

// On returns a Selection for the given platform and device.
func On(p Platform, device DeviceNum) Selection {
	return Selection{Platform: p, Device: device}
}

// String implements fmt.Stringer.
func (s Selection) String() string {
	if !s.IsValid() {
		return "<unset>"
	}
	return fmt.Sprintf("%s:#%d", s.Platform.Name(), s.Device)
}

// Context holds the platforms instantiated by a process and which one is
// currently active. It replaces ambient global state: every component that
// needs a placement decision takes a *Context argument.
//
// A Context is not safe for concurrent mutation; build and configure it
// before handing it to concurrently running filters.
type Context struct {
	active    Selection
	platforms map[string]Platform
}

// NewContext builds a Context with the default platform active.
//
// The default is resolved, in order, from the VOXKIT_PLATFORM environment
// variable, the DefaultConfig package variable, and finally the first
// registered platform with empty options.
func NewContext() (*Context, error) {
	if config, found := os.LookupEnv(ConfigEnvVar); found {
		return NewContextWithConfig(config)
	}
	if DefaultConfig != "" {
		return NewContextWithConfig(DefaultConfig)
	}
	return NewContextWithConfig("")
}

// NewContextWithConfig builds a Context whose active platform is given by the
// configuration string "<platform_name>:<platform_options>". An empty name
// selects the first registered platform.
func NewContextWithConfig(config string) (*Context, error) {
	if len(registeredConstructors) == 0 {
		return nil, errors.New(`no registered platforms -- import the host platform with import _ "github.com/voxkit/voxkit/platforms/host"`)
	}
	name, options := splitConfig(config)
	if name == "" {
		name = registrationOrder[0]
	}
	p, err := newPlatform(name, options)
	if err != nil {
		return nil, err
	}
	ctx := &Context{
		active:    Selection{Platform: p},
		platforms: map[string]Platform{name: p},
	}
	return ctx, nil
}

// Active returns the currently active placement.
func (c *Context) Active() Selection { return c.active }

// SetActive changes the active placement. The platform must have been
// obtained from this Context.
func (c *Context) SetActive(s Selection) { c.active = s }

// Platform returns the named platform, instantiating it with empty options
// if this Context hasn't built it yet.
func (c *Context) Platform(name string) (Platform, error) {
	if p, found := c.platforms[name]; found {
		return p, nil
	}
	p, err := newPlatform(name, "")
	if err != nil {
		return nil, err
	}
	c.platforms[name] = p
	return p, nil
}

// Finalize releases every platform instantiated by this Context.
func (c *Context) Finalize() {
	for _, p := range c.platforms {
		p.Finalize()
	}
	c.platforms = nil
	c.active = Selection{}
}
