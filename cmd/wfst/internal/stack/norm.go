package stack

import (
	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/param"
	"github.com/wfstgo/wfst/weight"
)

// remapSymbols returns a clone of m with every present input/output symbol
// rewritten through fn (used by --revcomp's base-complement table).
func remapSymbols(m *machine.Machine, fn func(string) string) *machine.Machine {
	out := m.Clone()
	for si, s := range out.States {
		for ti, t := range s.Trans {
			if t.Input.Present() {
				t.Input = machine.Sym(fn(t.Input.Name()))
			}
			if t.Output.Present() {
				t.Output = machine.Sym(fn(t.Output.Name()))
			}
			out.States[si].Trans[ti] = t
		}
	}

	return out
}

// mapWeights returns a clone of m with every transition's weight rewritten
// through fn (used by --reciprocal).
func mapWeights(m *machine.Machine, fn func(weight.Expr) weight.Expr) *machine.Machine {
	out := m.Clone()
	for si, s := range out.States {
		for ti, t := range s.Trans {
			t.Weight = fn(t.Weight)
			out.States[si].Trans[ti] = t
		}
	}

	return out
}

// freeParamsOf returns the free parameter names reachable from the
// transition weight w after expanding the machine's own Defs, in no
// particular order. A weight that resolves to more than one free parameter
// contributes all of them, since they all co-determine that weight.
func freeParamsOf(ctx *weight.Context, m *machine.Machine, w weight.Expr) []string {
	names := weight.Params(ctx, w, m.Defs)
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}

	return out
}

func addNormGroup(cons *param.Constraints, group []string) {
	if len(group) < 2 {
		return
	}
	cons.Norm = append(cons.Norm, group)
}

// opCondNorm adds one simplex constraint per state, over the free
// parameters feeding that state's outgoing transition weights (a
// "conditional" distribution: given you're in this state, the outgoing
// choices sum to 1).
func opCondNorm(e *Engine, _ string) error {
	m, err := e.pop()
	if err != nil {
		return err
	}
	out := m.Clone()
	cons := &param.Constraints{Norm: append([][]string(nil), out.Cons.Norm...), Rate: append([]string(nil), out.Cons.Rate...)}
	for _, s := range out.States {
		var group []string
		for _, t := range s.Trans {
			group = append(group, freeParamsOf(e.ctx, out, t.Weight)...)
		}
		addNormGroup(cons, group)
	}
	out.Cons = cons
	e.push(out)

	return nil
}

// opJointNorm adds a single simplex constraint over every free parameter
// feeding any transition weight in the whole machine (a "joint"
// distribution over all transitions at once).
func opJointNorm(e *Engine, _ string) error {
	m, err := e.pop()
	if err != nil {
		return err
	}
	out := m.Clone()
	cons := &param.Constraints{Norm: append([][]string(nil), out.Cons.Norm...), Rate: append([]string(nil), out.Cons.Rate...)}
	var group []string
	for _, s := range out.States {
		for _, t := range s.Trans {
			group = append(group, freeParamsOf(e.ctx, out, t.Weight)...)
		}
	}
	addNormGroup(cons, group)
	out.Cons = cons
	e.push(out)

	return nil
}
