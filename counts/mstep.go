package counts

import (
	"fmt"

	"gonum.org/v1/gonum/optimize"

	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/param"
	"github.com/wfstgo/wfst/weight"
)

const (
	mStepGradientThreshold = 1e-3
	mStepMaxIterations     = 100
)

// chainResolver tries first, falling back to second.
type chainResolver struct {
	first, second weight.Resolver
}

func (c chainResolver) Resolve(name string) (weight.Expr, bool) {
	if e, ok := c.first.Resolve(name); ok {
		return e, true
	}

	return c.second.Resolve(name)
}

// flattenWeights returns m's transition weight expressions in exactly the
// order evalmachine.New walks them, so index i here lines up with
// MachineCounts.Transitions[i].
func flattenWeights(m *machine.Machine) []weight.Expr {
	var out []weight.Expr
	for _, s := range m.States {
		for _, t := range s.Trans {
			out = append(out, t.Weight)
		}
	}

	return out
}

// MStep maximises Σ_t counts[t]*log(w_t(θ)) subject to cons, via the
// unconstrained reparameterisation from param.Reparam and gonum's BFGS
//. It returns a new *param.Defs with the
// fitted constrained parameter values bound (numerically, as weight.Double
// constants), leaving m.Defs itself untouched.
// Complexity: dominated by BFGS's iteration count times the cost of
// evaluating the objective and gradient (O(numTransitions) each).
func MStep(ctx *weight.Context, m *machine.Machine, cons *param.Constraints, mc *MachineCounts) (*param.Defs, error) {
	weights := flattenWeights(m)
	if len(weights) != len(mc.Transitions) {
		return nil, fmt.Errorf("counts: %w: %d transitions, %d counts", ErrOptimize, len(weights), len(mc.Transitions))
	}

	reparamDefs := param.NewDefs()
	freeVars, err := param.Reparam(ctx, cons, reparamDefs)
	if err != nil {
		return nil, err
	}

	base := m.Defs
	if base == nil {
		base = param.NewDefs()
	}
	derivResolver := chainResolver{first: reparamDefs, second: base}

	// objExpr = Σ_t counts[t] * log(w_t); negated because gonum minimises.
	objExpr := ctx.Zero()
	for i, w := range weights {
		term := ctx.Mul(ctx.Double(mc.Transitions[i]), ctx.LogOf(w))
		objExpr = ctx.Add(objExpr, term)
	}
	negObj := ctx.Minus(objExpr)

	gradExprs := make([]weight.Expr, len(freeVars))
	for j, name := range freeVars {
		gradExprs[j] = weight.Deriv(ctx, negObj, derivResolver, name)
	}

	evalAt := func(x []float64) chainResolver {
		xEnv := make(weight.Env, len(freeVars))
		for j, name := range freeVars {
			xEnv[name] = ctx.Double(x[j])
		}

		return chainResolver{first: xEnv, second: derivResolver}
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			v, _ := weight.Eval(ctx, negObj, evalAt(x))

			return v
		},
		Grad: func(grad, x []float64) {
			env := evalAt(x)
			for j, g := range gradExprs {
				v, _ := weight.Eval(ctx, g, env)
				grad[j] = v
			}
		},
	}

	// Seed away from 0: param.Reparam maps x=0 to a simplex/rate boundary
	// (z_i=exp(-x_i^2)=1 gives p_i=0 for every non-last group member, and
	// r=x^2=0), where log(w) in the objective is -Inf for any transition
	// referencing a boundary parameter. x=1 starts BFGS from an interior
	// point instead.
	x0 := make([]float64, len(freeVars))
	for j := range x0 {
		x0[j] = 1
	}
	result, err := optimize.Minimize(problem, x0, &optimize.Settings{
		GradientThreshold: mStepGradientThreshold,
		MajorIterations:   mStepMaxIterations,
	}, &optimize.BFGS{})
	if err != nil && result == nil {
		return nil, fmt.Errorf("%w: %v", ErrOptimize, err)
	}

	fitted := param.NewDefs()
	finalResolver := evalAt(result.X)
	for _, name := range base.Names() {
		if cons.Constrained(name) {
			continue
		}
		v, err := weight.Eval(ctx, ctx.Param(name), finalResolver)
		if err != nil {
			return nil, err
		}
		fitted.Set(name, ctx.Double(v))
	}
	for _, group := range cons.Norm {
		for _, name := range group {
			v, err := weight.Eval(ctx, ctx.Param(name), finalResolver)
			if err != nil {
				return nil, err
			}
			fitted.Set(name, ctx.Double(v))
		}
	}
	for _, name := range cons.Rate {
		v, err := weight.Eval(ctx, ctx.Param(name), finalResolver)
		if err != nil {
			return nil, err
		}
		fitted.Set(name, ctx.Double(v))
	}

	return fitted, nil
}
