package stack

import (
	"strconv"

	"github.com/wfstgo/wfst/combinator"
	"github.com/wfstgo/wfst/topology"
	"github.com/wfstgo/wfst/weight"
)

func opReverse(e *Engine, _ string) error {
	m, err := e.pop()
	if err != nil {
		return err
	}
	e.push(combinator.Reverse(m))

	return nil
}

// complementBase maps DNA bases to their Watson-Crick complement;
// anything outside ACGT/acgt passes through unchanged.
func complementBase(sym string) string {
	switch sym {
	case "A":
		return "T"
	case "T":
		return "A"
	case "C":
		return "G"
	case "G":
		return "C"
	case "a":
		return "t"
	case "t":
		return "a"
	case "c":
		return "g"
	case "g":
		return "c"
	default:
		return sym
	}
}

func opRevcomp(e *Engine, _ string) error {
	m, err := e.pop()
	if err != nil {
		return err
	}
	e.push(remapSymbols(combinator.Reverse(m), complementBase))

	return nil
}

func opTranspose(e *Engine, _ string) error {
	m, err := e.pop()
	if err != nil {
		return err
	}
	e.push(combinator.Transpose(m))

	return nil
}

func opZeroOrOne(e *Engine, _ string) error {
	m, err := e.pop()
	if err != nil {
		return err
	}
	e.push(combinator.ZeroOrOne(e.ctx, m))

	return nil
}

func opKleeneStar(e *Engine, _ string) error {
	m, err := e.pop()
	if err != nil {
		return err
	}
	e.push(combinator.KleeneStar(e.ctx, m))

	return nil
}

func opKleenePlus(e *Engine, _ string) error {
	m, err := e.pop()
	if err != nil {
		return err
	}
	e.push(combinator.KleenePlus(e.ctx, m))

	return nil
}

func opRepeat(e *Engine, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return ErrMissingArgument
	}
	m, err := e.pop()
	if err != nil {
		return err
	}
	out := m
	for i := 1; i < n; i++ {
		out = combinator.Concatenate(e.ctx, out, m)
	}
	e.push(out)

	return nil
}

func opEliminate(e *Engine, _ string) error {
	m, err := e.pop()
	if err != nil {
		return err
	}
	out, err := topology.EliminateSilentTransitions(e.ctx, m)
	if err != nil {
		return err
	}
	e.push(out)

	return nil
}

func opSort(e *Engine, _ string) error {
	m, err := e.pop()
	if err != nil {
		return err
	}
	e.push(topology.AdvanceSort(m))

	return nil
}

func opReciprocal(e *Engine, _ string) error {
	m, err := e.pop()
	if err != nil {
		return err
	}
	e.push(mapWeights(m, func(w weight.Expr) weight.Expr { return e.ctx.Reciprocal(w) }))

	return nil
}

func opWeightInput(e *Engine, arg string) error {
	m, err := e.pop()
	if err != nil {
		return err
	}
	fn := macroWeightFn(e, arg)
	e.push(combinator.WeightInputs(e.ctx, m, fn))

	return nil
}

func opWeightOutput(e *Engine, arg string) error {
	m, err := e.pop()
	if err != nil {
		return err
	}
	fn := macroWeightFn(e, arg)
	e.push(combinator.WeightOutputs(e.ctx, m, fn))

	return nil
}

// macroWeightFn turns a CLI EXPR into a combinator.WeightFn: expr is
// expanded per symbol with combinator.SymbolMacro ("%" -> symbol, "#" ->
// alphabet size) and the result parsed by parseWeightExpr, so an expr
// without either character gives every symbol the same weight.
func macroWeightFn(e *Engine, expr string) combinator.WeightFn {
	return func(ctx *weight.Context, sym string, alphabetSize int) weight.Expr {
		return parseWeightExpr(e, combinator.SymbolMacro(expr, sym, alphabetSize))
	}
}
