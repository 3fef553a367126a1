package platforms

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Hint describes where an input data object currently resides, and whether
// the caller wants the run placed there to avoid a cross-backend copy.
type Hint struct {
	// Placement of the input data object. The zero Selection means the
	// input's location is unknown and the hint is ignored.
	Placement Selection

	// AvoidCopy requests that the run be placed on the input's backend when
	// the filter supports it, so the data doesn't have to be transferred.
	AvoidCopy bool
}

// Select resolves the (platform, device) pair a filter run executes on.
//
// Preference order:
//  1. An explicit, valid selection is used as-is.
//  2. With an avoid-copy hint, the input's current placement is used if the
//     filter supports that platform.
//  3. The context's active placement, if supported.
//  4. The first registered platform the filter supports, on device 0.
//
// Select is a pure placement decision: it never moves data. Any transfer a
// mismatched placement implies is up to the filter's Execute step.
func Select(ctx *Context, explicit Selection, supports func(Platform) bool, hint Hint) (Selection, error) {
	if explicit.IsValid() {
		return explicit, nil
	}
	if hint.AvoidCopy && hint.Placement.IsValid() && supports(hint.Placement.Platform) {
		klog.V(2).Infof("platforms.Select: staying on %s to avoid an input copy", hint.Placement)
		return hint.Placement, nil
	}
	if active := ctx.Active(); active.IsValid() && supports(active.Platform) {
		return active, nil
	}
	for _, name := range Registered() {
		p, err := ctx.Platform(name)
		if err != nil {
			klog.Warningf("platforms.Select: skipping platform %q: %v", name, err)
			continue
		}
		if supports(p) {
			return Selection{Platform: p}, nil
		}
	}
	return Selection{}, errors.Errorf("no registered platform is supported by the filter (registered: %v)", Registered())
}
