// arena.go implements the smart constructors: every public builder applies
// constant-folding and identity rewrites before allocating a new node, so
// expression size does not blow up combinatorially under repeated
// composition. Constants and parameter references are hash-consed
// (de-duplicated); compound nodes are allocated afresh on each call.
package weight

import "math"

// internInt returns the (possibly shared) Expr for an exact integer
// constant. Caller must hold ctx.mu.
func (ctx *Context) internInt(i int64) Expr {
	if e, ok := ctx.intCache[i]; ok {
		return e
	}
	e := ctx.alloc(node{kind: KindInt, i: i})
	ctx.intCache[i] = e

	return e
}

// internDouble returns the (possibly shared) Expr for a float constant.
// Caller must hold ctx.mu.
func (ctx *Context) internDouble(f float64) Expr {
	if e, ok := ctx.doubleCache[f]; ok {
		return e
	}
	e := ctx.alloc(node{kind: KindDouble, f: f})
	ctx.doubleCache[f] = e

	return e
}

// Int returns the constant i, reusing ZERO/ONE when applicable.
// Complexity: O(1) amortized.
func (ctx *Context) Int(i int64) Expr {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	return ctx.internInt(i)
}

// Double returns the constant x. Integral values are NOT folded into
// KindInt automatically.
// Complexity: O(1) amortized.
func (ctx *Context) Double(x float64) Expr {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	return ctx.internDouble(x)
}

// Param returns a named parameter reference, de-duplicated by name.
// Complexity: O(1) amortized.
func (ctx *Context) Param(name string) Expr {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if e, ok := ctx.paramCache[name]; ok {
		return e
	}
	e := ctx.alloc(node{kind: KindParam, name: name})
	ctx.paramCache[name] = e

	return e
}

// isNumeric reports whether n is KindInt or KindDouble.
func isNumeric(n node) bool {
	return n.kind == KindInt || n.kind == KindDouble
}

// numValue extracts the numeric value of a constant node.
func numValue(n node) float64 {
	if n.kind == KindInt {
		return float64(n.i)
	}

	return n.f
}

// IsZero reports whether e is the exact numeric constant 0.
func (ctx *Context) IsZero(e Expr) bool {
	n := ctx.must(e)

	return isNumeric(n) && numValue(n) == 0
}

// IsOne reports whether e is the exact numeric constant 1.
func (ctx *Context) IsOne(e Expr) bool {
	n := ctx.must(e)

	return isNumeric(n) && numValue(n) == 1
}

// IsNumber reports whether e is a constant (integer or double).
func (ctx *Context) IsNumber(e Expr) bool {
	return isNumeric(ctx.must(e))
}

// AsDouble returns e's numeric value. Returns ErrNotNumber if e is not a
// constant.
func (ctx *Context) AsDouble(e Expr) (float64, error) {
	n := ctx.must(e)
	if !isNumeric(n) {
		return 0, ErrNotNumber
	}

	return numValue(n), nil
}

// Kind returns the node kind of e.
func (ctx *Context) Kind(e Expr) Kind { return ctx.must(e).Kind() }

// Kind is a convenience accessor used internally; exported via Context.Kind.
func (n node) Kind() Kind { return n.kind }

// constFold attempts to fold a binary numeric operation at construction
// time. ok is false when either side is non-constant.
func constFold(k Kind, an, bn node) (value float64, isInt bool, ok bool) {
	if !isNumeric(an) || !isNumeric(bn) {
		return 0, false, false
	}
	bothInt := an.kind == KindInt && bn.kind == KindInt
	av, bv := numValue(an), numValue(bn)
	switch k {
	case KindAdd:
		return av + bv, bothInt, true
	case KindSub:
		return av - bv, bothInt, true
	case KindMul:
		return av * bv, bothInt, true
	case KindDiv:
		return av / bv, false, true // division always promotes to double
	default:
		return 0, false, false
	}
}

// foldedConst allocates the numeric result of constFold as Int or Double.
// Caller must hold ctx.mu.
func (ctx *Context) foldedConst(value float64, asInt bool) Expr {
	if asInt {
		return ctx.internInt(int64(value))
	}

	return ctx.internDouble(value)
}

// Add returns a+b, applying add(0,x)=x and numeric folding.
// Complexity: O(1) amortized.
func (ctx *Context) Add(a, b Expr) Expr {
	an, bn := ctx.must(a), ctx.must(b)
	if isNumeric(an) && numValue(an) == 0 {
		return b
	}
	if isNumeric(bn) && numValue(bn) == 0 {
		return a
	}
	if v, asInt, ok := constFold(KindAdd, an, bn); ok {
		ctx.mu.Lock()
		defer ctx.mu.Unlock()

		return ctx.foldedConst(v, asInt)
	}
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	return ctx.alloc(node{kind: KindAdd, a: a, b: b})
}

// Sub returns a-b, applying sub(x,0)=x and numeric folding.
// Complexity: O(1) amortized.
func (ctx *Context) Sub(a, b Expr) Expr {
	an, bn := ctx.must(a), ctx.must(b)
	if isNumeric(bn) && numValue(bn) == 0 {
		return a
	}
	if v, asInt, ok := constFold(KindSub, an, bn); ok {
		ctx.mu.Lock()
		defer ctx.mu.Unlock()

		return ctx.foldedConst(v, asInt)
	}
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	return ctx.alloc(node{kind: KindSub, a: a, b: b})
}

// Mul returns a*b, applying mul(1,x)=x, mul(0,_)=0 and numeric folding.
// Complexity: O(1) amortized.
func (ctx *Context) Mul(a, b Expr) Expr {
	an, bn := ctx.must(a), ctx.must(b)
	if isNumeric(an) {
		if numValue(an) == 1 {
			return b
		}
		if numValue(an) == 0 {
			return a // preserves int-vs-double flavor of the zero operand
		}
	}
	if isNumeric(bn) {
		if numValue(bn) == 1 {
			return a
		}
		if numValue(bn) == 0 {
			return b
		}
	}
	if v, asInt, ok := constFold(KindMul, an, bn); ok {
		ctx.mu.Lock()
		defer ctx.mu.Unlock()

		return ctx.foldedConst(v, asInt)
	}
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	return ctx.alloc(node{kind: KindMul, a: a, b: b})
}

// Div returns a/b, applying div(x,1)=x and numeric folding. Folding a
// constant-zero denominator does not panic; it allocates +-Inf/NaN the way
// IEEE-754 division does, matching float64 semantics elsewhere in the DP
// engine (log-space code treats -Inf as "unreachable").
// Complexity: O(1) amortized.
func (ctx *Context) Div(a, b Expr) Expr {
	an, bn := ctx.must(a), ctx.must(b)
	if isNumeric(bn) && numValue(bn) == 1 {
		return a
	}
	if v, _, ok := constFold(KindDiv, an, bn); ok {
		ctx.mu.Lock()
		defer ctx.mu.Unlock()

		return ctx.foldedConst(v, false)
	}
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	return ctx.alloc(node{kind: KindDiv, a: a, b: b})
}

// Pow returns base^exp, applying pow(x,1)=x, pow(x,0)=1 and numeric folding.
// Complexity: O(1) amortized.
func (ctx *Context) Pow(base, exp Expr) Expr {
	bn, en := ctx.must(base), ctx.must(exp)
	if isNumeric(en) {
		if numValue(en) == 1 {
			return base
		}
		if numValue(en) == 0 {
			return ctx.One()
		}
	}
	if isNumeric(bn) && isNumeric(en) {
		v := math.Pow(numValue(bn), numValue(en))
		asInt := bn.kind == KindInt && en.kind == KindInt && en.i >= 0
		ctx.mu.Lock()
		defer ctx.mu.Unlock()

		return ctx.foldedConst(v, asInt)
	}
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	return ctx.alloc(node{kind: KindPow, a: base, b: exp})
}

// LogOf returns log(a), applying log(exp(x))=x and numeric folding.
// Complexity: O(1) amortized.
func (ctx *Context) LogOf(a Expr) Expr {
	an := ctx.must(a)
	if an.kind == KindExp {
		return an.a
	}
	if isNumeric(an) {
		ctx.mu.Lock()
		defer ctx.mu.Unlock()

		return ctx.internDouble(math.Log(numValue(an)))
	}
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	return ctx.alloc(node{kind: KindLog, a: a})
}

// ExpOf returns exp(a), applying exp(log(x))=x and numeric folding.
// Complexity: O(1) amortized.
func (ctx *Context) ExpOf(a Expr) Expr {
	an := ctx.must(a)
	if an.kind == KindLog {
		return an.a
	}
	if isNumeric(an) {
		ctx.mu.Lock()
		defer ctx.mu.Unlock()

		return ctx.internDouble(math.Exp(numValue(an)))
	}
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	return ctx.alloc(node{kind: KindExp, a: a})
}

// Minus returns 0-a.
// Complexity: O(1) amortized.
func (ctx *Context) Minus(a Expr) Expr { return ctx.Sub(ctx.Zero(), a) }

// Negate returns 1-a (the complementary probability).
// Complexity: O(1) amortized.
func (ctx *Context) Negate(a Expr) Expr { return ctx.Sub(ctx.One(), a) }

// Reciprocal returns 1/a.
// Complexity: O(1) amortized.
func (ctx *Context) Reciprocal(a Expr) Expr { return ctx.Div(ctx.One(), a) }

// GeometricSum returns 1/(1-a), the closed form of a geometric series with
// common ratio a (used to sum out a silent self-loop of weight a).
// Complexity: O(1) amortized.
func (ctx *Context) GeometricSum(a Expr) Expr { return ctx.Reciprocal(ctx.Negate(a)) }
