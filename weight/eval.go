// eval.go implements evaluation, substitution, symbolic differentiation and
// free-parameter collection over a WeightExpr DAG.
package weight

import "math"

// Resolver looks up a parameter's symbolic definition by name. param.Defs
// implements this interface; weight itself never imports param, so Eval,
// Bind, Deriv and Params can be handed any name->Expr environment, whether
// it is a flat numeric substitution or a full ParamDefs chain.
type Resolver interface {
	// Resolve returns the Expr bound to name, or ok=false if name is free.
	Resolve(name string) (Expr, bool)
}

// Env is the simplest Resolver: a flat map of names to already-built Exprs.
// Use Context.Int/Double to build numeric-only bindings.
type Env map[string]Expr

// Resolve implements Resolver.
func (e Env) Resolve(name string) (Expr, bool) { v, ok := e[name]; return v, ok }

// Eval evaluates e to a float64, resolving Param references through env.
// Returns ErrUndefined if a parameter has no binding, ErrCycle if resolving
// a parameter's definition would revisit a name currently being resolved.
// Complexity: O(size of the sub-DAG reachable from e).
func Eval(ctx *Context, e Expr, env Resolver) (float64, error) {
	visiting := make(map[string]bool)

	return evalRec(ctx, e, env, visiting)
}

func evalRec(ctx *Context, e Expr, env Resolver, visiting map[string]bool) (float64, error) {
	n := ctx.must(e)
	switch n.kind {
	case KindInt:
		return float64(n.i), nil
	case KindDouble:
		return n.f, nil
	case KindParam:
		if visiting[n.name] {
			return 0, ErrCycle
		}
		def, ok := env.Resolve(n.name)
		if !ok {
			return 0, ErrUndefined
		}
		visiting[n.name] = true
		v, err := evalRec(ctx, def, env, visiting)
		delete(visiting, n.name)

		return v, err
	case KindLog:
		a, err := evalRec(ctx, n.a, env, visiting)
		if err != nil {
			return 0, err
		}

		return math.Log(a), nil
	case KindExp:
		a, err := evalRec(ctx, n.a, env, visiting)
		if err != nil {
			return 0, err
		}

		return math.Exp(a), nil
	case KindAdd, KindSub, KindMul, KindDiv, KindPow:
		a, err := evalRec(ctx, n.a, env, visiting)
		if err != nil {
			return 0, err
		}
		b, err := evalRec(ctx, n.b, env, visiting)
		if err != nil {
			return 0, err
		}

		return applyBinary(n.kind, a, b), nil
	default:
		return 0, ErrBadJSON
	}
}

// Bind performs one-pass structural substitution: every Param(name) leaf
// with a binding in env is replaced by that binding (itself left
// unexpanded further); unbound params remain as Param. Smart constructors
// re-run during rebuild, so the result is still maximally folded.
// Complexity: O(size of the sub-DAG reachable from e).
func Bind(ctx *Context, e Expr, env Resolver) Expr {
	memo := make(map[Expr]Expr)

	return bindRec(ctx, e, env, memo)
}

func bindRec(ctx *Context, e Expr, env Resolver, memo map[Expr]Expr) Expr {
	if v, ok := memo[e]; ok {
		return v
	}
	n := ctx.must(e)
	var out Expr
	switch n.kind {
	case KindInt, KindDouble:
		out = e
	case KindParam:
		if def, ok := env.Resolve(n.name); ok {
			out = def
		} else {
			out = e
		}
	case KindLog:
		out = ctx.LogOf(bindRec(ctx, n.a, env, memo))
	case KindExp:
		out = ctx.ExpOf(bindRec(ctx, n.a, env, memo))
	default:
		a := bindRec(ctx, n.a, env, memo)
		b := bindRec(ctx, n.b, env, memo)
		out = applyCtorBinary(ctx, n.kind, a, b)
	}
	memo[e] = out

	return out
}

// excludingResolver wraps a Resolver but always reports one name as free,
// so Deriv can differentiate "with respect to" that name without Bind/Eval
// tunneling through its own definition (if any).
type excludingResolver struct {
	inner   Resolver
	exclude string
}

func (r excludingResolver) Resolve(name string) (Expr, bool) {
	if name == r.exclude {
		return Expr{}, false
	}

	return r.inner.Resolve(name)
}

// Deriv returns d(e)/d(name), expanding other parameters' definitions via
// env (chain rule through definitions) while treating name itself as the
// free variable. Complexity: O(size of the sub-DAG reachable from e).
func Deriv(ctx *Context, e Expr, env Resolver, name string) Expr {
	excl := excludingResolver{inner: env, exclude: name}
	memo := make(map[Expr]Expr)

	return derivRec(ctx, e, excl, name, memo)
}

func derivRec(ctx *Context, e Expr, env Resolver, name string, memo map[Expr]Expr) Expr {
	if v, ok := memo[e]; ok {
		return v
	}
	n := ctx.must(e)
	var out Expr
	switch n.kind {
	case KindInt, KindDouble:
		out = ctx.Zero()
	case KindParam:
		if n.name == name {
			out = ctx.One()
		} else if def, ok := env.Resolve(n.name); ok {
			out = derivRec(ctx, def, env, name, memo)
		} else {
			out = ctx.Zero()
		}
	case KindAdd:
		out = ctx.Add(derivRec(ctx, n.a, env, name, memo), derivRec(ctx, n.b, env, name, memo))
	case KindSub:
		out = ctx.Sub(derivRec(ctx, n.a, env, name, memo), derivRec(ctx, n.b, env, name, memo))
	case KindMul:
		da := derivRec(ctx, n.a, env, name, memo)
		db := derivRec(ctx, n.b, env, name, memo)
		out = ctx.Add(ctx.Mul(da, n.b), ctx.Mul(n.a, db))
	case KindDiv:
		da := derivRec(ctx, n.a, env, name, memo)
		db := derivRec(ctx, n.b, env, name, memo)
		num := ctx.Sub(ctx.Mul(da, n.b), ctx.Mul(n.a, db))
		out = ctx.Div(num, ctx.Mul(n.b, n.b))
	case KindLog:
		da := derivRec(ctx, n.a, env, name, memo)
		out = ctx.Div(da, n.a)
	case KindExp:
		da := derivRec(ctx, n.a, env, name, memo)
		out = ctx.Mul(ctx.ExpOf(n.a), da)
	case KindPow:
		out = derivPow(ctx, n, env, name, memo)
	default:
		out = ctx.Zero()
	}
	memo[e] = out

	return out
}

// derivPow handles Pow(base, exp). When exp is a constant c, the derivative
// is c * base^(c-1) * d(base). In the fully general case (exp also depends
// on the variable) we differentiate exp(exp_*log(base)) by the chain rule.
func derivPow(ctx *Context, n node, env Resolver, name string, memo map[Expr]Expr) Expr {
	base, exp := n.a, n.b
	dExp := derivRec(ctx, exp, env, name, memo)
	if ctx.IsZero(dExp) {
		// exponent does not depend on the variable: classic power rule.
		dBase := derivRec(ctx, base, env, name, memo)
		cMinus1 := ctx.Sub(exp, ctx.One())

		return ctx.Mul(ctx.Mul(exp, ctx.Pow(base, cMinus1)), dBase)
	}
	// General case: d/dx[base^exp] = base^exp * (dExp*ln(base) + exp*dBase/base).
	dBase := derivRec(ctx, base, env, name, memo)
	lnBase := ctx.LogOf(base)
	term1 := ctx.Mul(dExp, lnBase)
	term2 := ctx.Div(ctx.Mul(exp, dBase), base)

	return ctx.Mul(ctx.Pow(base, exp), ctx.Add(term1, term2))
}

// Params returns the set of free parameter names reachable from e after
// expanding env's definitions. Each DAG node is visited at most once
// (memoized by Expr).
// Complexity: O(size of the sub-DAG reachable from e).
func Params(ctx *Context, e Expr, env Resolver) map[string]struct{} {
	out := make(map[string]struct{})
	visited := make(map[Expr]bool)
	resolving := make(map[string]bool)
	paramsRec(ctx, e, env, out, visited, resolving)

	return out
}

func paramsRec(ctx *Context, e Expr, env Resolver, out map[string]struct{}, visited map[Expr]bool, resolving map[string]bool) {
	if visited[e] {
		return
	}
	visited[e] = true
	n := ctx.must(e)
	switch n.kind {
	case KindInt, KindDouble:
		return
	case KindParam:
		if def, ok := env.Resolve(n.name); ok {
			if resolving[n.name] {
				return // cycle; Eval will report it if actually evaluated
			}
			resolving[n.name] = true
			paramsRec(ctx, def, env, out, visited, resolving)
			delete(resolving, n.name)
		} else {
			out[n.name] = struct{}{}
		}
	case KindLog, KindExp:
		paramsRec(ctx, n.a, env, out, visited, resolving)
	default:
		paramsRec(ctx, n.a, env, out, visited, resolving)
		paramsRec(ctx, n.b, env, out, visited, resolving)
	}
}

// applyCtorBinary re-runs the smart constructor for kind, preserving
// folding invariants after substitution rebuilds part of the DAG.
func applyCtorBinary(ctx *Context, k Kind, a, b Expr) Expr {
	switch k {
	case KindAdd:
		return ctx.Add(a, b)
	case KindSub:
		return ctx.Sub(a, b)
	case KindMul:
		return ctx.Mul(a, b)
	case KindDiv:
		return ctx.Div(a, b)
	case KindPow:
		return ctx.Pow(a, b)
	default:
		panic("weight: applyCtorBinary: unreachable kind")
	}
}

// applyBinary computes the raw float64 result of a binary op (used by Eval,
// which does not need folding/hash-consing, only the numeric answer).
func applyBinary(k Kind, a, b float64) float64 {
	switch k {
	case KindAdd:
		return a + b
	case KindSub:
		return a - b
	case KindMul:
		return a * b
	case KindDiv:
		return a / b
	case KindPow:
		return math.Pow(a, b)
	default:
		panic("weight: applyBinary: unreachable kind")
	}
}
