package topology

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/weight"
)

// ToWaitingMachine returns a copy of m in which every state is "waiting":
// each one either waits (every outgoing transition consumes input) or
// continues (every outgoing transition is input-empty and the state has at
// least one transition).
//
// A state that mixes the two ("exits with and without input") is split:
// a continue twin keeps the original's identity (its name, and the index
// incoming transitions land on) and absorbs the input-empty transitions,
// silent or output-only alike; a wait twin, appended immediately after,
// absorbs the input-consuming transitions. A silent weight-1 transition
// links the continue twin to the wait twin. Transitions that referred to the
// original state by index (including self-loops) land on the continue twin,
// matching how any other incoming edge resolves.
//
// The state that began as m's end state keeps that role: if splitting it
// pushed its continue twin off the final index, the two states occupying
// the final index and the twin's index are swapped back so the end state
// invariant (states[N-1] is the end state) still holds.
// Complexity: O(states + transitions).
func ToWaitingMachine(ctx *weight.Context, m *machine.Machine) *machine.Machine {
	n := len(m.States)
	if n == 0 {
		return &machine.Machine{States: nil, Defs: m.Defs.Clone(), Cons: m.Cons}
	}

	old2new := make([]int, n)
	split := make([]bool, n)
	total := 0
	for i, s := range m.States {
		old2new[i] = total
		if s.IsWaiting() {
			total++
		} else {
			split[i] = true
			total += 2
		}
	}

	states := make([]machine.MachineState, total)
	for i, s := range m.States {
		pos := old2new[i]
		if !split[i] {
			states[pos] = machine.MachineState{Name: s.Name, Trans: translate(s.Trans, old2new)}
			continue
		}

		var continueTrans, waitTrans []machine.MachineTransition
		for _, t := range s.Trans {
			t = translateOne(t, old2new)
			if t.ConsumesInput() {
				waitTrans = append(waitTrans, t)
			} else {
				continueTrans = append(continueTrans, t)
			}
		}
		waitPos := pos + 1
		continueTrans = append(continueTrans, machine.MachineTransition{Dest: waitPos, Weight: ctx.One()})
		states[pos] = machine.MachineState{Name: s.Name, Trans: continueTrans}
		states[waitPos] = machine.MachineState{Name: twinName(s.Name), Trans: waitTrans}
	}

	moveStateToEnd(states, old2new[n-1])

	return &machine.Machine{States: states, Defs: m.Defs.Clone(), Cons: m.Cons}
}

// translate returns a copy of trans with every Dest remapped through
// old2new.
func translate(trans []machine.MachineTransition, old2new []int) []machine.MachineTransition {
	if trans == nil {
		return nil
	}
	out := make([]machine.MachineTransition, len(trans))
	for i, t := range trans {
		out[i] = translateOne(t, old2new)
	}

	return out
}

// translateOne returns t with Dest remapped through old2new.
func translateOne(t machine.MachineTransition, old2new []int) machine.MachineTransition {
	t.Dest = old2new[t.Dest]

	return t
}

// moveStateToEnd swaps the states occupying idx and the final index (and
// every transition Dest referring to either one) so idx's state ends up
// last.
func moveStateToEnd(states []machine.MachineState, idx int) {
	last := len(states) - 1
	if idx == last {
		return
	}
	states[idx], states[last] = states[last], states[idx]
	for i := range states {
		for j, t := range states[i].Trans {
			switch t.Dest {
			case idx:
				states[i].Trans[j].Dest = last
			case last:
				states[i].Trans[j].Dest = idx
			}
		}
	}
}

// twinName derives a debug-friendly name for a split-off wait twin. A short
// uuid suffix keeps twins of distinct states (or repeated ToWaitingMachine
// runs over similarly-named states) from colliding on the same label.
func twinName(base machine.StateName) machine.StateName {
	suffix := uuid.New().String()[:8]
	if base == nil {
		return fmt.Sprintf("waiting_twin_%s", suffix)
	}

	return fmt.Sprintf("%v_waiting_twin_%s", base, suffix)
}
