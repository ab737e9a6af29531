package topology

import (
	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/weight"
)

// SilentCycleStrategy selects how compose/intersect handle silent cycles in
// their result.
type SilentCycleStrategy int

const (
	// LeaveSilentCycles produces the result verbatim; it may contain silent
	// cycles.
	LeaveSilentCycles SilentCycleStrategy = iota
	// BreakSilentCycles drops silent back-edges (destructive; cheap).
	BreakSilentCycles
	// SumSilentCycles factors self-loop weight into outgoing transitions
	// and relies on AdvanceSort plus one elimination pass for longer
	// cycles. This is the default strategy.
	SumSilentCycles
)

// ApplySilentCycleStrategy runs the selected strategy over m.
func ApplySilentCycleStrategy(ctx *weight.Context, m *machine.Machine, strategy SilentCycleStrategy) *machine.Machine {
	switch strategy {
	case BreakSilentCycles:
		return breakSilentCycles(m)
	case SumSilentCycles:
		return sumSilentCycles(ctx, m)
	default:
		return m.Clone()
	}
}

// ToAdvancing converts m into an advancing machine (machine.Machine.
// IsAdvancing): it advance-sorts first, and if a silent cycle still remains
// after sorting, applies strategy to remove it. With LeaveSilentCycles the
// result may still not be advancing; callers that need the guarantee must
// pick BreakSilentCycles or SumSilentCycles.
// Complexity: O(states^2 + transitions).
func ToAdvancing(ctx *weight.Context, m *machine.Machine, strategy SilentCycleStrategy) *machine.Machine {
	if m.IsAdvancing() {
		return m
	}
	sorted := AdvanceSort(m)
	if sorted.IsAdvancing() {
		return sorted
	}

	return ApplySilentCycleStrategy(ctx, sorted, strategy)
}

// breakSilentCycles removes every silent transition whose destination index
// is <= its source index (a back-edge under the current ordering).
// Complexity: O(states + transitions).
func breakSilentCycles(m *machine.Machine) *machine.Machine {
	out := m.Clone()
	for i, s := range out.States {
		var kept []machine.MachineTransition
		for _, t := range s.Trans {
			if t.IsSilent() && t.Dest <= i {
				continue
			}
			kept = append(kept, t)
		}
		out.States[i].Trans = kept
	}

	return out
}

// sumSilentCycles factors each state's combined silent self-loop weight p
// into "1/(1-p)" multiplied across its remaining outgoing transitions, then
// advance-sorts and runs one elimination pass so any remaining (longer)
// silent cycles are resolved by reordering: this converts the
// silent-transition matrix T into the matrix-geometric series (I-T)^-1
// restricted to reachable states.
// Complexity: O(states + transitions).
func sumSilentCycles(ctx *weight.Context, m *machine.Machine) *machine.Machine {
	out := m.Clone()
	for i, s := range out.States {
		var selfWeight weight.Expr
		var rest []machine.MachineTransition
		for _, t := range s.Trans {
			if t.IsSilent() && t.Dest == i {
				if !selfWeight.Valid() {
					selfWeight = t.Weight
				} else {
					selfWeight = ctx.Add(selfWeight, t.Weight)
				}

				continue
			}
			rest = append(rest, t)
		}
		if !selfWeight.Valid() {
			out.States[i].Trans = rest

			continue
		}
		factor := ctx.GeometricSum(selfWeight)
		for j := range rest {
			rest[j].Weight = ctx.Mul(rest[j].Weight, factor)
		}
		out.States[i].Trans = rest
	}

	sorted := AdvanceSort(out)
	if sorted.IsAdvancing() {
		return sorted
	}

	return AdvanceSort(localSilentEliminationPass(ctx, sorted))
}

// localSilentEliminationPass substitutes every remaining silent back-edge
// (Dest <= its source index) with its destination's current transitions,
// weight-multiplied. Since states are visited in ascending index order, a
// back-edge's destination was already resolved earlier in the same pass, so
// one pass can unwind a multi-state silent cycle into a forward-only chain;
// genuinely unbounded cycles still need AdvanceSort/sumSilentCycles applied
// again by the caller.
// Complexity: O(states + transitions).
func localSilentEliminationPass(ctx *weight.Context, m *machine.Machine) *machine.Machine {
	out := m.Clone()
	for i, s := range out.States {
		var trans []machine.MachineTransition
		for _, t := range s.Trans {
			if t.IsSilent() && t.Dest <= i {
				for _, dt := range out.States[t.Dest].Trans {
					trans = append(trans, machine.MachineTransition{
						Input: dt.Input, Output: dt.Output, Dest: dt.Dest,
						Weight: ctx.Mul(t.Weight, dt.Weight),
					})
				}

				continue
			}
			trans = append(trans, t)
		}
		out.States[i].Trans = trans
	}

	return out
}

// EliminateSilentTransitions walks states in reverse index order; for each
// state s, any silent outgoing transition to a non-terminal state d is
// replaced by prepending s's transitions onto each of d's loud transitions
// (and d's already-propagated silent residue is appended to s). The
// resulting machine has no silent transitions except possibly into the end
// state. m must be advancing
// (ErrCycleDetected otherwise).
// Complexity: O(states * transitions) worst case.
func EliminateSilentTransitions(ctx *weight.Context, m *machine.Machine) (*machine.Machine, error) {
	if !m.IsAdvancing() {
		return nil, ErrCycleDetected
	}
	out := m.Clone()
	end := out.End()
	for s := len(out.States) - 1; s >= 0; s-- {
		var loud, silentResidue []machine.MachineTransition
		for _, t := range out.States[s].Trans {
			if t.IsSilent() && t.Dest != end {
				d := t.Dest
				for _, dt := range out.States[d].Trans {
					loud = append(loud, machine.MachineTransition{
						Input: dt.Input, Output: dt.Output, Dest: dt.Dest,
						Weight: ctx.Mul(t.Weight, dt.Weight),
					})
				}
				continue
			}
			if t.IsSilent() {
				silentResidue = append(silentResidue, t)

				continue
			}
			loud = append(loud, t)
		}
		out.States[s].Trans = append(loud, silentResidue...)
	}

	return out, nil
}
