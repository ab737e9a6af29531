package combinator

import (
	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/param"
	"github.com/wfstgo/wfst/weight"
)

// mergeDefs returns a) a fresh Defs containing l's bindings followed by r's
// (r wins on name collision, matching param.Defs.Set's overwrite semantics)
// and b) the concatenation of their Constraints, so combinators never lose
// a local parameter definition carried on either operand.
func mergeDefs(l, r *machine.Machine) (*param.Defs, *param.Constraints) {
	out := l.Defs.Clone()
	for _, name := range r.Defs.Names() {
		e, _ := r.Defs.Get(name)
		out.Set(name, e)
	}
	cons := &param.Constraints{
		Norm: append(append([][]string{}, l.Cons.Norm...), r.Cons.Norm...),
		Rate: append(append([]string{}, l.Cons.Rate...), r.Cons.Rate...),
	}

	return out, cons
}

// Concatenate places L's states first, then R's states renumbered by
// len(L.States); L's old end state gains a silent weight-1 transition to
// R's (shifted) new start state. Order is preserved and no state is removed
//.
// Complexity: O(|L.states|+|R.states|+transitions).
func Concatenate(ctx *weight.Context, l, r *machine.Machine) *machine.Machine {
	shift := len(l.States)
	states := make([]machine.MachineState, 0, shift+len(r.States))
	states = append(states, l.States...)
	for _, s := range r.States {
		states = append(states, shiftState(s, shift))
	}
	// L's old end gains a silent weight-1 transition to R's shifted start.
	states[l.End()].Trans = append(append([]machine.MachineTransition(nil), states[l.End()].Trans...),
		machine.MachineTransition{Dest: shift, Weight: ctx.One()})

	defs, cons := mergeDefs(l, r)

	return &machine.Machine{States: states, Defs: defs, Cons: cons}
}

func shiftState(s machine.MachineState, shift int) machine.MachineState {
	trans := make([]machine.MachineTransition, len(s.Trans))
	for i, t := range s.Trans {
		t.Dest += shift
		trans[i] = t
	}

	return machine.MachineState{Name: s.Name, Trans: trans}
}

// TakeUnion builds a new start and end state; silent transitions run
// start->A_start (weight pA), start->B_start (weight pB), A_end->end,
// B_end->end.
// Complexity: O(|A.states|+|B.states|+transitions).
func TakeUnion(ctx *weight.Context, a, b *machine.Machine, pA, pB weight.Expr) *machine.Machine {
	shiftA := 1
	shiftB := shiftA + len(a.States)
	total := shiftB + len(b.States) + 1
	end := total - 1

	states := make([]machine.MachineState, total)
	states[0] = machine.MachineState{Name: "union_start", Trans: []machine.MachineTransition{
		{Dest: shiftA, Weight: pA},
		{Dest: shiftB, Weight: pB},
	}}
	for i, s := range a.States {
		states[shiftA+i] = shiftState(s, shiftA)
	}
	for i, s := range b.States {
		states[shiftB+i] = shiftState(s, shiftB)
	}
	states[shiftA+a.End()].Trans = append(append([]machine.MachineTransition(nil), states[shiftA+a.End()].Trans...),
		machine.MachineTransition{Dest: end, Weight: ctx.One()})
	states[shiftB+b.End()].Trans = append(append([]machine.MachineTransition(nil), states[shiftB+b.End()].Trans...),
		machine.MachineTransition{Dest: end, Weight: ctx.One()})
	states[end] = machine.MachineState{Name: "union_end"}

	defs, cons := mergeDefs(a, b)

	return &machine.Machine{States: states, Defs: defs, Cons: cons}
}

// ZeroOrOne adds a silent start->end transition of weight 1, padding with a
// new end state first if m's start and end coincide.
// Complexity: O(|m.states|).
func ZeroOrOne(ctx *weight.Context, m *machine.Machine) *machine.Machine {
	out := m.Clone()
	if out.Start() == out.End() {
		out.States = append(out.States, machine.MachineState{Name: "padded_end"})
	}
	start, end := out.Start(), out.End()
	out.States[start].Trans = append(out.States[start].Trans, machine.MachineTransition{Dest: end, Weight: ctx.One()})

	return out
}

// KleenePlus adds a silent transition from m's end back to its start
//.
// Complexity: O(|m.states|).
func KleenePlus(ctx *weight.Context, m *machine.Machine) *machine.Machine {
	out := m.Clone()
	out.States[out.End()].Trans = append(out.States[out.End()].Trans,
		machine.MachineTransition{Dest: out.Start(), Weight: ctx.One()})

	return out
}

// KleeneStar is zero_or_one(kleene_plus(m)).
func KleeneStar(ctx *weight.Context, m *machine.Machine) *machine.Machine {
	return ZeroOrOne(ctx, KleenePlus(ctx, m))
}

// KleeneLoop is m concatenated with an optional (l . m) loop.
func KleeneLoop(ctx *weight.Context, m, l *machine.Machine) *machine.Machine {
	loopBody := Concatenate(ctx, l, m)

	return Concatenate(ctx, m, KleeneStar(ctx, loopBody))
}

// Reverse reverses every transition's direction and swaps start/end.
// Complexity: O(|m.states|+transitions).
func Reverse(m *machine.Machine) *machine.Machine {
	n := len(m.States)
	incoming := make([][]machine.MachineTransition, n)
	for src, s := range m.States {
		for _, t := range s.Trans {
			incoming[t.Dest] = append(incoming[t.Dest], machine.MachineTransition{
				Input: t.Input, Output: t.Output, Dest: src, Weight: t.Weight,
			})
		}
	}
	states := make([]machine.MachineState, n)
	for newIdx := 0; newIdx < n; newIdx++ {
		oldIdx := n - 1 - newIdx
		trans := make([]machine.MachineTransition, len(incoming[oldIdx]))
		for i, t := range incoming[oldIdx] {
			t.Dest = n - 1 - t.Dest
			trans[i] = t
		}
		states[newIdx] = machine.MachineState{Name: m.States[oldIdx].Name, Trans: trans}
	}

	return &machine.Machine{States: states, Defs: m.Defs.Clone(), Cons: m.Cons}
}

// Transpose swaps the input and output labels on every transition.
// Complexity: O(|m.states|+transitions).
func Transpose(m *machine.Machine) *machine.Machine {
	out := m.Clone()
	for i, s := range out.States {
		for j, t := range s.Trans {
			out.States[i].Trans[j].Input, out.States[i].Trans[j].Output = t.Output, t.Input
		}
	}

	return out
}

// SymbolMacro renders a weight_inputs/weight_outputs macro string for symbol
// sym within an alphabet of size alphabetSize: "%" expands to sym, "#" to
// alphabetSize.
func SymbolMacro(macro, sym string, alphabetSize int) string {
	out := make([]byte, 0, len(macro))
	for i := 0; i < len(macro); i++ {
		switch macro[i] {
		case '%':
			out = append(out, sym...)
		case '#':
			out = append(out, []byte(itoa(alphabetSize))...)
		default:
			out = append(out, macro[i])
		}
	}

	return string(out)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}

// WeightFn renders a macro-driven per-symbol weight expression; callers pass
// it to WeightInputs/WeightOutputs.
type WeightFn func(ctx *weight.Context, sym string, alphabetSize int) weight.Expr

// WeightInputs multiplies every transition's weight by fn applied to its
// input symbol; silent transitions are untouched.
// Complexity: O(|m.states|+transitions).
func WeightInputs(ctx *weight.Context, m *machine.Machine, fn WeightFn) *machine.Machine {
	return weightSide(ctx, m, fn, true)
}

// WeightOutputs is WeightInputs' output-symbol counterpart.
func WeightOutputs(ctx *weight.Context, m *machine.Machine, fn WeightFn) *machine.Machine {
	return weightSide(ctx, m, fn, false)
}

func weightSide(ctx *weight.Context, m *machine.Machine, fn WeightFn, byInput bool) *machine.Machine {
	out := m.Clone()
	alphabetSize := len(m.InputAlphabet())
	if !byInput {
		alphabetSize = len(m.OutputAlphabet())
	}
	for i, s := range out.States {
		for j, t := range s.Trans {
			var sym machine.Symbol
			if byInput {
				sym = t.Input
			} else {
				sym = t.Output
			}
			if !sym.Present() {
				continue
			}
			factor := fn(ctx, sym.Name(), alphabetSize)
			out.States[i].Trans[j].Weight = ctx.Mul(t.Weight, factor)
		}
	}

	return out
}
