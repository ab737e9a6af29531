package weight

// Import copies e (and everything it references) from another Context into
// ctx, returning the equivalent Expr on ctx. Use this to merge expressions
// built on separate per-goroutine arenas: one factory per goroutine and a
// merge step, rather than sharing a single Context across writers.
// Complexity: O(size of the sub-DAG reachable from e).
func (ctx *Context) Import(src *Context, e Expr) Expr {
	if src == ctx {
		return e
	}
	memo := make(map[Expr]Expr)

	return ctx.importRec(src, e, memo)
}

func (ctx *Context) importRec(src *Context, e Expr, memo map[Expr]Expr) Expr {
	if v, ok := memo[e]; ok {
		return v
	}
	n := src.must(e)
	var out Expr
	switch n.kind {
	case KindInt:
		out = ctx.Int(n.i)
	case KindDouble:
		out = ctx.Double(n.f)
	case KindParam:
		out = ctx.Param(n.name)
	case KindLog:
		out = ctx.LogOf(ctx.importRec(src, n.a, memo))
	case KindExp:
		out = ctx.ExpOf(ctx.importRec(src, n.a, memo))
	default:
		a := ctx.importRec(src, n.a, memo)
		b := ctx.importRec(src, n.b, memo)
		out = applyCtorBinary(ctx, n.kind, a, b)
	}
	memo[e] = out

	return out
}
