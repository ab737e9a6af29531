package stack

import (
	"fmt"

	"github.com/wfstgo/wfst/combinator"
	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/weight"
)

// presets is a small, fixed set of built-in named machines. Presets and
// grammar-driven expression parsers are opaque external collaborators
// whose output — a Machine — this CLI only needs to accept; this is not
// meant to be an exhaustive preset library, only enough to
// exercise --preset without requiring a --load file for common cases.
var presets = map[string]func(ctx *weight.Context) *machine.Machine{
	"null": func(ctx *weight.Context) *machine.Machine { return combinator.Null() },
	"fair-coin": func(ctx *weight.Context) *machine.Machine {
		half := ctx.Double(0.5)

		return combinator.TakeUnion(ctx,
			combinator.SingleTransition(ctx.One()),
			combinator.SingleTransition(ctx.One()),
			half, half)
	},
}

func preset(ctx *weight.Context, name string) (*machine.Machine, error) {
	mk, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("stack: unknown preset %q", name)
	}

	return mk(ctx), nil
}
