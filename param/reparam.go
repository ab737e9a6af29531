// reparam.go builds the unconstrained-to-constrained WeightExpr mapping used
// by the M-step optimiser:
//
//   - normalisation group (p_1..p_k): unconstrained x_1..x_{k-1};
//     z_i = exp(-x_i^2); p_i = (1-z_i) * Prod_{j<i} z_j; p_k = Prod z_j.
//   - rate parameter r: r = x^2, unconstrained x.
//
// The result is expressed symbolically (as weight.Expr over freshly-named
// unconstrained variables) so counts.MStep can substitute it into the
// counts-weighted log-likelihood objective and differentiate through it
// with weight.Deriv, rather than hand-coding the chain rule at the call
// site.
package param

import (
	"fmt"

	"github.com/wfstgo/wfst/weight"
)

// UnconstrainedName returns the deterministic name of the i-th unconstrained
// variable backing a normalisation group whose first member is groupHead
// (used to keep BFGS's free-variable vector stably ordered across calls).
func UnconstrainedName(groupHead string, i int) string {
	return fmt.Sprintf("__x_%s_%d", groupHead, i)
}

// RateUnconstrainedName returns the deterministic name of the unconstrained
// variable backing rate parameter name.
func RateUnconstrainedName(name string) string {
	return fmt.Sprintf("__x_%s", name)
}

// Reparam builds, for every constrained parameter, a weight.Expr defining it
// in terms of fresh unconstrained variables, and returns the ordered list of
// those variables' names (the BFGS free-variable vector). Each constrained
// parameter's defining Expr is set in out.
//
// Complexity: O(total number of constrained names).
func Reparam(ctx *weight.Context, cons *Constraints, out *Defs) (freeVars []string, err error) {
	if err := cons.Validate(); err != nil {
		return nil, err
	}

	for _, group := range cons.Norm {
		vars, err := reparamNormGroup(ctx, group, out)
		if err != nil {
			return nil, err
		}
		freeVars = append(freeVars, vars...)
	}
	for _, name := range cons.Rate {
		x := RateUnconstrainedName(name)
		out.Set(name, ctx.Pow(ctx.Param(x), ctx.Int(2)))
		freeVars = append(freeVars, x)
	}

	return freeVars, nil
}

// reparamNormGroup implements the simplex reparameterisation for one group.
func reparamNormGroup(ctx *weight.Context, group []string, out *Defs) ([]string, error) {
	k := len(group)
	if k == 0 {
		return nil, ErrEmptyGroup
	}
	if k == 1 {
		// A singleton "simplex" is just the constant 1 (no free variable).
		out.Set(group[0], ctx.One())

		return nil, nil
	}

	head := group[0]
	xs := make([]string, k-1)
	zs := make([]weight.Expr, k-1)
	for i := 0; i < k-1; i++ {
		xs[i] = UnconstrainedName(head, i)
		xi := ctx.Param(xs[i])
		// z_i = exp(-x_i^2)
		zs[i] = ctx.ExpOf(ctx.Minus(ctx.Pow(xi, ctx.Int(2))))
	}

	prefixProd := ctx.One()
	for i := 0; i < k-1; i++ {
		pi := ctx.Mul(ctx.Negate(zs[i]), prefixProd) // (1-z_i) * prod_{j<i} z_j
		out.Set(group[i], pi)
		prefixProd = ctx.Mul(prefixProd, zs[i])
	}
	out.Set(group[k-1], prefixProd) // p_k = prod_j z_j

	return xs, nil
}
