package evalmachine

import (
	"math"

	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/tokenseq"
	"github.com/wfstgo/wfst/weight"
)

// Transition is one evaluated, token-resolved edge: Input/Output are
// tokenseq.Silent when the corresponding tape is not advanced.
type Transition struct {
	Src, Dest int
	Input     tokenseq.Token
	Output    tokenseq.Token
	LogWeight float64
}

// ConsumesInput reports whether t advances the input tape.
func (t Transition) ConsumesInput() bool { return t.Input != tokenseq.Silent }

// ConsumesOutput reports whether t advances the output tape.
func (t Transition) ConsumesOutput() bool { return t.Output != tokenseq.Silent }

// EvaluatedMachine is a bound, log-weighted snapshot of a machine.Machine,
// indexed for O(1) amortized per-state transition enumeration during DP
//.
type EvaluatedMachine struct {
	Start, End  int
	NumStates   int
	Transitions []Transition
	byDest      [][]int // state index -> indices into Transitions ending there
	bySrc       [][]int // state index -> indices into Transitions starting there
}

// IncomingTo returns the transitions whose Dest is d.
// Complexity: O(1) amortized (pre-indexed).
func (em *EvaluatedMachine) IncomingTo(d int) []Transition {
	out := make([]Transition, len(em.byDest[d]))
	for i, idx := range em.byDest[d] {
		out[i] = em.Transitions[idx]
	}

	return out
}

// OutgoingFrom returns the transitions whose Src is s.
// Complexity: O(1) amortized (pre-indexed).
func (em *EvaluatedMachine) OutgoingFrom(s int) []Transition {
	out := make([]Transition, len(em.bySrc[s]))
	for i, idx := range em.bySrc[s] {
		out[i] = em.Transitions[idx]
	}

	return out
}

// New evaluates m's transitions against env, resolving Input/Output symbols through inputAlphabet /
// outputAlphabet. m must be advancing.
// Complexity: O(states + transitions).
func New(ctx *weight.Context, m *machine.Machine, env weight.Env, inputAlphabet, outputAlphabet *tokenseq.Alphabet) (*EvaluatedMachine, error) {
	if !m.IsAdvancing() {
		return nil, ErrInvariant
	}

	layered := layeredResolver{local: m.Defs, outer: env}

	em := &EvaluatedMachine{
		Start:     m.Start(),
		End:       m.End(),
		NumStates: len(m.States),
		byDest:    make([][]int, len(m.States)),
		bySrc:     make([][]int, len(m.States)),
	}
	for src, s := range m.States {
		for _, t := range s.Trans {
			v, err := weight.Eval(ctx, t.Weight, layered)
			if err != nil {
				return nil, err
			}
			in := tokenseq.Silent
			if t.Input.Present() {
				tok, err := inputAlphabet.Token(t.Input.Name())
				if err != nil {
					return nil, err
				}
				in = tok
			}
			out := tokenseq.Silent
			if t.Output.Present() {
				tok, err := outputAlphabet.Token(t.Output.Name())
				if err != nil {
					return nil, err
				}
				out = tok
			}
			idx := len(em.Transitions)
			em.Transitions = append(em.Transitions, Transition{
				Src: src, Dest: t.Dest, Input: in, Output: out, LogWeight: math.Log(v),
			})
			em.byDest[t.Dest] = append(em.byDest[t.Dest], idx)
			em.bySrc[src] = append(em.bySrc[src], idx)
		}
	}

	return em, nil
}

// layeredResolver resolves a name against the machine's local Defs first,
// falling back to an outer weight.Env.
type layeredResolver struct {
	local weight.Resolver
	outer weight.Env
}

func (r layeredResolver) Resolve(name string) (weight.Expr, bool) {
	if e, ok := r.local.Resolve(name); ok {
		return e, ok
	}

	return r.outer.Resolve(name)
}
