package stack

import (
	"os"
	"strconv"
	"strings"

	"github.com/wfstgo/wfst/combinator"
	"github.com/wfstgo/wfst/weight"
	"github.com/wfstgo/wfst/wfstio"
)

func opLoad(e *Engine, arg string) error {
	raw, err := os.ReadFile(arg)
	if err != nil {
		return err
	}
	f, err := wfstio.DecodeMachine(e.ctx, raw)
	if err != nil {
		return err
	}
	e.push(f.Machine)

	return nil
}

func opPreset(e *Engine, arg string) error {
	m, err := preset(e.ctx, arg)
	if err != nil {
		return err
	}
	e.push(m)

	return nil
}

func splitSeq(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(s, ",")
}

func opGenerateChars(e *Engine, arg string) error {
	e.push(combinator.Generator(e.ctx, splitSeq(arg)))

	return nil
}

func opRecognizeChars(e *Engine, arg string) error {
	e.push(combinator.Recognizer(e.ctx, splitSeq(arg)))

	return nil
}

func opGenerateFasta(e *Engine, arg string) error {
	raw, err := os.ReadFile(arg)
	if err != nil {
		return err
	}
	seq, err := parseFastaFirstRecord(string(raw))
	if err != nil {
		return err
	}
	e.push(combinator.Generator(e.ctx, seq))

	return nil
}

// parseWeightExpr is the minimal parser for the CLI's EXPR arguments: a
// bare number is a constant, anything else is a parameter reference
//.
func parseWeightExpr(e *Engine, expr string) weight.Expr {
	if f, err := strconv.ParseFloat(expr, 64); err == nil {
		return e.ctx.Double(f)
	}

	return e.ctx.Param(expr)
}

func opWeight(e *Engine, arg string) error {
	e.push(combinator.SingleTransition(parseWeightExpr(e, arg)))

	return nil
}

func opNull(e *Engine, _ string) error {
	e.push(combinator.Null())

	return nil
}
