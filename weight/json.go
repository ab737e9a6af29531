// json.go implements the canonical JSON encoding for weight expressions:
// bare numbers/strings denote constants and parameters, true/false denote
// 1/0, and tagged single-key objects carry the unary and binary combinators.
package weight

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ToJSON renders e as the recursive tagged-object encoding, with no common
// subexpression memoisation (every shared node is inlined at every use
// site). Complexity: O(size of the tree obtained by unfolding the DAG from
// e), since shared nodes are revisited once per parent.
func ToJSON(ctx *Context, e Expr) (json.RawMessage, error) {
	v, err := toValue(ctx, e)
	if err != nil {
		return nil, err
	}

	return json.Marshal(v)
}

func toValue(ctx *Context, e Expr) (any, error) {
	n, err := ctx.at(e)
	if err != nil {
		return nil, err
	}
	switch n.kind {
	case KindInt:
		return n.i, nil
	case KindDouble:
		return n.f, nil
	case KindParam:
		return n.name, nil
	case KindLog:
		a, err := toValue(ctx, n.a)
		if err != nil {
			return nil, err
		}

		return map[string]any{"log": a}, nil
	case KindExp:
		a, err := toValue(ctx, n.a)
		if err != nil {
			return nil, err
		}

		return map[string]any{"exp": a}, nil
	case KindAdd, KindSub, KindMul, KindDiv, KindPow:
		a, err := toValue(ctx, n.a)
		if err != nil {
			return nil, err
		}
		b, err := toValue(ctx, n.b)
		if err != nil {
			return nil, err
		}
		tag := binaryTag(n.kind)

		return map[string]any{tag: []any{a, b}}, nil
	default:
		return nil, ErrBadJSON
	}
}

func binaryTag(k Kind) string {
	switch k {
	case KindAdd:
		return "+"
	case KindSub:
		return "-"
	case KindMul:
		return "*"
	case KindDiv:
		return "/"
	case KindPow:
		return "pow"
	default:
		return "?"
	}
}

// refCounts walks e, counting how many distinct parents reference each
// reachable sub-node. Used by ToJSONWithDefs to decide what to memoise.
func refCounts(ctx *Context, roots []Expr, counts map[Expr]int) {
	var visit func(Expr)
	visited := make(map[Expr]bool)
	visit = func(e Expr) {
		counts[e]++
		if visited[e] {
			return
		}
		visited[e] = true
		n := ctx.must(e)
		switch n.kind {
		case KindInt, KindDouble, KindParam:
		case KindLog, KindExp:
			visit(n.a)
		default:
			visit(n.a)
			visit(n.b)
		}
	}
	for _, r := range roots {
		visit(r)
	}
}

// ToJSONWithDefs renders every root in roots, memoising any sub-expression
// referenced more than once (across all roots) into a named entry of the
// returned defs map, replacing its occurrences with a bare parameter-name
// string, whenever its reference count across all roots exceeds one.
// Complexity: O(total DAG size reachable from roots).
func ToJSONWithDefs(ctx *Context, roots []Expr) (trees []json.RawMessage, defs map[string]json.RawMessage, err error) {
	counts := make(map[Expr]int)
	refCounts(ctx, roots, counts)

	named := make(map[Expr]string)
	order := make([]Expr, 0)
	var nextID int
	nameFor := func(e Expr) string {
		if n, ok := named[e]; ok {
			return n
		}
		name := fmt.Sprintf("_t%d", nextID)
		nextID++
		named[e] = name
		order = append(order, e)

		return name
	}

	var toVal func(Expr) (any, error)
	toVal = func(e Expr) (any, error) {
		n, err := ctx.at(e)
		if err != nil {
			return nil, err
		}
		if counts[e] > 1 && n.kind != KindInt && n.kind != KindDouble && n.kind != KindParam {
			return nameFor(e), nil
		}
		switch n.kind {
		case KindInt:
			return n.i, nil
		case KindDouble:
			return n.f, nil
		case KindParam:
			return n.name, nil
		case KindLog:
			a, err := toVal(n.a)
			if err != nil {
				return nil, err
			}

			return map[string]any{"log": a}, nil
		case KindExp:
			a, err := toVal(n.a)
			if err != nil {
				return nil, err
			}

			return map[string]any{"exp": a}, nil
		default:
			a, err := toVal(n.a)
			if err != nil {
				return nil, err
			}
			b, err := toVal(n.b)
			if err != nil {
				return nil, err
			}

			return map[string]any{binaryTag(n.kind): []any{a, b}}, nil
		}
	}

	trees = make([]json.RawMessage, 0, len(roots))
	for _, r := range roots {
		v, err := toVal(r)
		if err != nil {
			return nil, nil, err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, nil, err
		}
		trees = append(trees, raw)
	}

	// Definitions may themselves reference other shared nodes by name.
	// defs is a map, so it carries no order; a reader resolves each name
	// by lookup.
	defs = make(map[string]json.RawMessage, len(order))
	sortedOrder := append([]Expr(nil), order...)
	sort.Slice(sortedOrder, func(i, j int) bool { return named[sortedOrder[i]] < named[sortedOrder[j]] })
	for _, e := range sortedOrder {
		n := ctx.must(e)
		var v any
		var err error
		switch n.kind {
		case KindLog:
			v, err = toVal(n.a)
			if err == nil {
				v = map[string]any{"log": v}
			}
		case KindExp:
			v, err = toVal(n.a)
			if err == nil {
				v = map[string]any{"exp": v}
			}
		default:
			var a, b any
			a, err = toVal(n.a)
			if err == nil {
				b, err = toVal(n.b)
			}
			if err == nil {
				v = map[string]any{binaryTag(n.kind): []any{a, b}}
			}
		}
		if err != nil {
			return nil, nil, err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, nil, err
		}
		defs[named[e]] = raw
	}

	return trees, defs, nil
}

// FromJSON parses the canonical weight-expression encoding into an Expr on
// ctx. Complexity: O(size of the parsed JSON value).
func FromJSON(ctx *Context, raw json.RawMessage) (Expr, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Expr{}, fmt.Errorf("%w: %v", ErrBadJSON, err)
	}

	return fromValue(ctx, v)
}

func fromValue(ctx *Context, v any) (Expr, error) {
	switch t := v.(type) {
	case nil:
		return ctx.Zero(), nil
	case bool:
		if t {
			return ctx.One(), nil
		}

		return ctx.Zero(), nil
	case string:
		return ctx.Param(t), nil
	case float64:
		if t == float64(int64(t)) {
			return ctx.Int(int64(t)), nil
		}

		return ctx.Double(t), nil
	case map[string]any:
		return fromObject(ctx, t)
	default:
		return Expr{}, fmt.Errorf("%w: unsupported JSON value %T", ErrBadJSON, v)
	}
}

func fromObject(ctx *Context, m map[string]any) (Expr, error) {
	if len(m) != 1 {
		return Expr{}, fmt.Errorf("%w: expression object must have exactly one key", ErrBadJSON)
	}
	for tag, child := range m {
		switch tag {
		case "log":
			a, err := fromValue(ctx, child)
			if err != nil {
				return Expr{}, err
			}

			return ctx.LogOf(a), nil
		case "exp":
			a, err := fromValue(ctx, child)
			if err != nil {
				return Expr{}, err
			}

			return ctx.ExpOf(a), nil
		case "not":
			a, err := fromValue(ctx, child)
			if err != nil {
				return Expr{}, err
			}

			return ctx.Negate(a), nil
		case "geomsum":
			a, err := fromValue(ctx, child)
			if err != nil {
				return Expr{}, err
			}

			return ctx.GeometricSum(a), nil
		case "+", "-", "*", "/", "pow":
			pair, ok := child.([]any)
			if !ok || len(pair) != 2 {
				return Expr{}, fmt.Errorf("%w: %q requires a two-element array", ErrBadJSON, tag)
			}
			a, err := fromValue(ctx, pair[0])
			if err != nil {
				return Expr{}, err
			}
			b, err := fromValue(ctx, pair[1])
			if err != nil {
				return Expr{}, err
			}

			return applyTagBinary(ctx, tag, a, b), nil
		default:
			return Expr{}, fmt.Errorf("%w: unknown tag %q", ErrBadJSON, tag)
		}
	}

	panic("weight: fromObject: unreachable")
}

func applyTagBinary(ctx *Context, tag string, a, b Expr) Expr {
	switch tag {
	case "+":
		return ctx.Add(a, b)
	case "-":
		return ctx.Sub(a, b)
	case "*":
		return ctx.Mul(a, b)
	case "/":
		return ctx.Div(a, b)
	case "pow":
		return ctx.Pow(a, b)
	default:
		panic("weight: applyTagBinary: unreachable tag")
	}
}
