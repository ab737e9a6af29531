package weight_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfstgo/wfst/weight"
)

// TestFolding_Identities verifies the smart-constructor folding rules:
// add(0,x)=x, mul(1,x)=x, mul(0,_)=0, pow(x,1)=x, pow(x,0)=1,
// log(exp(x))=x, exp(log(x))=x.
func TestFolding_Identities(t *testing.T) {
	ctx := weight.NewContext()
	x := ctx.Param("x")

	assert.Equal(t, x, ctx.Add(ctx.Zero(), x), "add(0,x)=x")
	assert.Equal(t, x, ctx.Add(x, ctx.Zero()), "add(x,0)=x")
	assert.Equal(t, x, ctx.Mul(ctx.One(), x), "mul(1,x)=x")
	assert.True(t, ctx.IsZero(ctx.Mul(ctx.Zero(), x)), "mul(0,x)=0")
	assert.Equal(t, x, ctx.Pow(x, ctx.One()), "pow(x,1)=x")
	assert.True(t, ctx.IsOne(ctx.Pow(x, ctx.Zero())), "pow(x,0)=1")
	assert.Equal(t, x, ctx.LogOf(ctx.ExpOf(x)), "log(exp(x))=x")
	assert.Equal(t, x, ctx.ExpOf(ctx.LogOf(x)), "exp(log(x))=x")
}

// TestHashConsing_Singletons verifies ZERO/ONE are true singletons and that
// repeated numeric constants de-duplicate.
func TestHashConsing_Singletons(t *testing.T) {
	ctx := weight.NewContext()
	assert.Equal(t, ctx.Zero(), ctx.Int(0))
	assert.Equal(t, ctx.One(), ctx.Int(1))
	assert.Equal(t, ctx.Int(5), ctx.Int(5))
	assert.Equal(t, ctx.Double(2.5), ctx.Double(2.5))
	assert.Equal(t, ctx.Param("p"), ctx.Param("p"))
}

// TestConstantFolding_Numeric verifies integer/double arithmetic folds at
// construction time, with integer x integer -> integer and any double
// operand promoting the result to double.
func TestConstantFolding_Numeric(t *testing.T) {
	ctx := weight.NewContext()
	sum := ctx.Add(ctx.Int(2), ctx.Int(3))
	require.True(t, ctx.IsNumber(sum))
	v, err := ctx.AsDouble(sum)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	mixed := ctx.Mul(ctx.Int(2), ctx.Double(1.5))
	v, err = ctx.AsDouble(mixed)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

// TestEval_UndefinedParam verifies Eval reports ErrUndefined for an unbound
// parameter.
func TestEval_UndefinedParam(t *testing.T) {
	ctx := weight.NewContext()
	p := ctx.Param("p")
	_, err := weight.Eval(ctx, p, weight.Env{})
	assert.ErrorIs(t, err, weight.ErrUndefined)
}

// TestEval_Arithmetic verifies evaluation of a small expression tree.
func TestEval_Arithmetic(t *testing.T) {
	ctx := weight.NewContext()
	p := ctx.Param("p")
	// (p + 1) * 2
	e := ctx.Mul(ctx.Add(p, ctx.One()), ctx.Int(2))
	v, err := weight.Eval(ctx, e, weight.Env{"p": ctx.Double(3)})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, v, 1e-12)
}

// TestEval_Cycle verifies a self-referential parameter definition is
// reported as ErrCycle, not infinite recursion.
func TestEval_Cycle(t *testing.T) {
	ctx := weight.NewContext()
	p := ctx.Param("p")
	q := ctx.Param("q")
	env := weight.Env{"p": q, "q": p}
	_, err := weight.Eval(ctx, p, env)
	assert.ErrorIs(t, err, weight.ErrCycle)
}

// TestBind_UnboundParamsRemain verifies Bind only substitutes params present
// in env and leaves others as Param nodes.
func TestBind_UnboundParamsRemain(t *testing.T) {
	ctx := weight.NewContext()
	p, q := ctx.Param("p"), ctx.Param("q")
	e := ctx.Add(p, q)
	bound := weight.Bind(ctx, e, weight.Env{"p": ctx.Int(7)})
	v, err := weight.Eval(ctx, bound, weight.Env{"q": ctx.Int(3)})
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
}

// TestEval_BindAgreement is the testable property
// eval(bind(e, env), {}) == eval(e, env).
func TestEval_BindAgreement(t *testing.T) {
	ctx := weight.NewContext()
	p, q := ctx.Param("p"), ctx.Param("q")
	e := ctx.Div(ctx.Mul(p, p), ctx.Add(q, ctx.Int(1)))
	env := weight.Env{"p": ctx.Double(3), "q": ctx.Double(2)}

	direct, err := weight.Eval(ctx, e, env)
	require.NoError(t, err)

	bound := weight.Bind(ctx, e, env)
	viaBind, err := weight.Eval(ctx, bound, weight.Env{})
	require.NoError(t, err)

	assert.InDelta(t, direct, viaBind, 1e-9)
}

// TestDeriv_ProductRule verifies the chain/product rule: for e = a*b,
// deriv(e,_,x) = deriv(a,_,x)*b + a*deriv(b,_,x), checked by numeric
// agreement with a finite-difference approximation.
func TestDeriv_ProductRule(t *testing.T) {
	ctx := weight.NewContext()
	x := ctx.Param("x")
	a := ctx.Add(x, ctx.Int(1))     // x+1
	b := ctx.Mul(x, ctx.Double(2))  // 2x
	e := ctx.Mul(a, b)              // (x+1)*2x = 2x^2+2x
	d := weight.Deriv(ctx, e, weight.Env{}, "x")

	at := func(expr weight.Expr, xv float64) float64 {
		v, err := weight.Eval(ctx, expr, weight.Env{"x": ctx.Double(xv)})
		require.NoError(t, err)

		return v
	}

	const h = 1e-6
	for _, xv := range []float64{-2, 0, 1, 3.5} {
		numeric := (at(e, xv+h) - at(e, xv-h)) / (2 * h)
		symbolic := at(d, xv)
		assert.InDelta(t, numeric, symbolic, 1e-3)
	}
}

// TestDeriv_ThroughDefinition verifies chain rule through a ParamDefs-style
// Resolver: deriv w.r.t. a free variable expands other parameters'
// definitions but not the variable's own.
func TestDeriv_ThroughDefinition(t *testing.T) {
	ctx := weight.NewContext()
	x := ctx.Param("x")
	y := ctx.Param("y") // y := x^2
	env := weight.Env{"y": ctx.Pow(x, ctx.Int(2))}
	e := ctx.Add(y, x) // (x^2) + x, derivative w.r.t. x is 2x+1
	d := weight.Deriv(ctx, e, env, "x")
	v, err := weight.Eval(ctx, d, weight.Env{"x": ctx.Double(4)})
	require.NoError(t, err)
	assert.InDelta(t, 9.0, v, 1e-9) // 2*4+1
}

// TestParams_FreeAfterExpansion verifies Params expands definitions and
// visits shared nodes once.
func TestParams_FreeAfterExpansion(t *testing.T) {
	ctx := weight.NewContext()
	a, b, c := ctx.Param("a"), ctx.Param("b"), ctx.Param("c")
	shared := ctx.Add(a, b)
	e := ctx.Mul(shared, shared) // shared appears twice
	env := weight.Env{"b": c}    // b is defined in terms of c
	names := weight.Params(ctx, e, env)
	assert.Equal(t, map[string]struct{}{"a": {}, "c": {}}, names)
}

// TestJSON_RoundTrip verifies ToJSON/FromJSON round-trips a representative
// expression (constants, params, every combinator).
func TestJSON_RoundTrip(t *testing.T) {
	ctx := weight.NewContext()
	p := ctx.Param("p")
	e := ctx.Div(ctx.ExpOf(ctx.LogOf(ctx.Mul(ctx.Add(p, ctx.Int(1)), ctx.Double(2.5)))), ctx.Pow(p, ctx.Int(3)))

	raw, err := weight.ToJSON(ctx, e)
	require.NoError(t, err)

	ctx2 := weight.NewContext()
	parsed, err := weight.FromJSON(ctx2, raw)
	require.NoError(t, err)

	a := weight.Env{"p": ctx.Double(1.7)}
	b := weight.Env{"p": ctx2.Double(1.7)}
	va, err := weight.Eval(ctx, e, a)
	require.NoError(t, err)
	vb, err := weight.Eval(ctx2, parsed, b)
	require.NoError(t, err)
	assert.InDelta(t, va, vb, 1e-9)
}

// TestJSON_BooleanConstants verifies true/false decode as 1/0.
func TestJSON_BooleanConstants(t *testing.T) {
	ctx := weight.NewContext()
	e, err := weight.FromJSON(ctx, []byte(`true`))
	require.NoError(t, err)
	assert.True(t, ctx.IsOne(e))

	e, err = weight.FromJSON(ctx, []byte(`false`))
	require.NoError(t, err)
	assert.True(t, ctx.IsZero(e))
}

// TestJSON_WithDefsMemoizesSharedSubexpr verifies ToJSONWithDefs only
// memoises nodes referenced more than once.
func TestJSON_WithDefsMemoizesSharedSubexpr(t *testing.T) {
	ctx := weight.NewContext()
	p := ctx.Param("p")
	shared := ctx.Add(p, ctx.Int(1))
	roots := []weight.Expr{ctx.Mul(shared, shared), ctx.Sub(shared, ctx.Int(2))}

	_, defs, err := weight.ToJSONWithDefs(ctx, roots)
	require.NoError(t, err)
	assert.Len(t, defs, 1, "the shared (p+1) node should be memoized exactly once")
}

// TestGeometricSum verifies 1/(1-p) used to sum a silent self-loop.
func TestGeometricSum(t *testing.T) {
	ctx := weight.NewContext()
	p := ctx.Double(0.5)
	g := ctx.GeometricSum(p)
	v, err := weight.Eval(ctx, g, weight.Env{})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-12)
	assert.InDelta(t, math.Log(2), math.Log(v), 1e-12)
}

// TestImport_MergesAcrossContexts verifies Context.Import copies an
// expression from one arena to another with equivalent semantics.
func TestImport_MergesAcrossContexts(t *testing.T) {
	src := weight.NewContext()
	p := src.Param("p")
	e := src.Mul(ctxAdd(src, p, src.Int(1)), src.Double(3))

	dst := weight.NewContext()
	imported := dst.Import(src, e)

	sv, err := weight.Eval(src, e, weight.Env{"p": src.Double(2)})
	require.NoError(t, err)
	dv, err := weight.Eval(dst, imported, weight.Env{"p": dst.Double(2)})
	require.NoError(t, err)
	assert.InDelta(t, sv, dv, 1e-12)
}

func ctxAdd(ctx *weight.Context, a, b weight.Expr) weight.Expr { return ctx.Add(a, b) }
