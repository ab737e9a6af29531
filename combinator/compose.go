package combinator

import (
	"fmt"

	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/topology"
	"github.com/wfstgo/wfst/weight"
)

type pair struct{ f, g int }

// Compose builds the product machine of F and G with symbol-matching: the
// composite state (i,j) has an outgoing transition per compatible pair of F
// and G transitions. G is first converted to a waiting machine if it is not
// already one. The compatibility rule splits on whether G is currently
// waiting at j: if so, F may fire any outgoing transition that is
// silent-on-output, or whose output matches a transition G can take on
// input; otherwise only G moves. Inaccessible composite states are pruned
// by construction (only states reachable from (0,0) are ever visited).
// After construction the machine is trimmed to accessible, advance-sorted,
// converted to advancing, and trimmed again.
// Complexity: O(|F.states|*|G.states|*transitions) worst case.
func Compose(ctx *weight.Context, f, g *machine.Machine, strategy topology.SilentCycleStrategy) (*machine.Machine, error) {
	if f.NumStates() == 0 || g.NumStates() == 0 {
		return nil, ErrShape
	}
	g2 := g
	if !g.IsWaiting() {
		g2 = topology.ToWaitingMachine(ctx, g)
	}

	out, err := productMachine(ctx, f, g2)
	if err != nil {
		return nil, err
	}

	out = topology.TrimToAccessible(out)
	out = topology.AdvanceSort(out)
	out = topology.ToAdvancing(ctx, out, strategy)
	out = topology.TrimToAccessible(out)

	return out, nil
}

// productMachine performs the reachable-states-only product construction
// for Compose.
func productMachine(ctx *weight.Context, f, g *machine.Machine) (*machine.Machine, error) {
	index := map[pair]int{}
	var states []machine.MachineState
	var order []pair

	discover := func(p pair) int {
		if idx, ok := index[p]; ok {
			return idx
		}
		idx := len(states)
		index[p] = idx
		name := fmt.Sprintf("(%v,%v)", f.States[p.f].Name, g.States[p.g].Name)
		states = append(states, machine.MachineState{Name: name})
		order = append(order, p)

		return idx
	}

	start := pair{f.Start(), g.Start()}
	discover(start)

	for cur := 0; cur < len(order); cur++ {
		p := order[cur]
		fState := f.States[p.f]
		gState := g.States[p.g]
		var trans []machine.MachineTransition

		if gWaits(gState) {
			for _, tf := range fState.Trans {
				if !tf.ConsumesOutput() {
					// F moves alone: silent-on-output.
					dest := discover(pair{tf.Dest, p.g})
					trans = append(trans, machine.MachineTransition{
						Input: tf.Input, Dest: dest, Weight: tf.Weight,
					})

					continue
				}
				for _, tg := range gState.Trans {
					if tg.Input.Present() && tf.Output.Present() && tg.Input.Name() == tf.Output.Name() {
						dest := discover(pair{tf.Dest, tg.Dest})
						trans = append(trans, machine.MachineTransition{
							Input: tf.Input, Output: tg.Output, Dest: dest,
							Weight: ctx.Mul(tf.Weight, tg.Weight),
						})
					}
				}
			}
		} else {
			// Continue state: only G moves, freely emitting output.
			for _, tg := range gState.Trans {
				dest := discover(pair{p.f, tg.Dest})
				trans = append(trans, machine.MachineTransition{
					Output: tg.Output, Dest: dest, Weight: tg.Weight,
				})
			}
		}
		states[cur].Trans = trans
	}

	endPair := pair{f.End(), g.End()}
	endIdx, ok := index[endPair]
	if !ok {
		return nil, ErrShape
	}
	last := len(states) - 1
	if endIdx != last {
		states[endIdx], states[last] = states[last], states[endIdx]
		for i := range states {
			for j, t := range states[i].Trans {
				switch t.Dest {
				case endIdx:
					states[i].Trans[j].Dest = last
				case last:
					states[i].Trans[j].Dest = endIdx
				}
			}
		}
	}

	defs, cons := mergeDefs(f, g)

	return &machine.Machine{States: states, Defs: defs, Cons: cons}, nil
}

// gWaits reports whether every transition out of s consumes input (true
// for a state with no transitions), i.e. G waits for F at s.
func gWaits(s machine.MachineState) bool {
	for _, t := range s.Trans {
		if !t.ConsumesInput() {
			return false
		}
	}

	return true
}

// Intersect is like Compose but both operands share a single input alphabet
// and both must have an empty output alphabet; both machines' output is
// discarded. G is first converted to a waiting machine if it is not already
// one. Where G waits, F either moves alone on a silent transition or F and
// G consume the same input symbol together; where G continues, only G
// moves (silently).
// Complexity: same as Compose.
func Intersect(ctx *weight.Context, f, g *machine.Machine, strategy topology.SilentCycleStrategy) (*machine.Machine, error) {
	if len(f.OutputAlphabet()) != 0 || len(g.OutputAlphabet()) != 0 {
		return nil, ErrShape
	}
	if f.NumStates() == 0 || g.NumStates() == 0 {
		return nil, ErrShape
	}

	out, err := intersectProduct(ctx, f, g)
	if err != nil {
		return nil, err
	}

	out = topology.TrimToAccessible(out)
	out = topology.AdvanceSort(out)
	out = topology.ToAdvancing(ctx, out, strategy)
	out = topology.TrimToAccessible(out)

	return out, nil
}

// intersectProduct builds the reachable-states-only product for Intersect,
// converting g to a waiting machine first when needed. At (i,j) where G
// waits, F moves alone on a silent transition or both consume the same
// input symbol; where G continues, only G's silent transitions fire.
func intersectProduct(ctx *weight.Context, f, g *machine.Machine) (*machine.Machine, error) {
	if !g.IsWaiting() {
		g = topology.ToWaitingMachine(ctx, g)
	}
	index := map[pair]int{}
	var states []machine.MachineState
	var order []pair

	discover := func(p pair) int {
		if idx, ok := index[p]; ok {
			return idx
		}
		idx := len(states)
		index[p] = idx
		name := fmt.Sprintf("(%v,%v)", f.States[p.f].Name, g.States[p.g].Name)
		states = append(states, machine.MachineState{Name: name})
		order = append(order, p)

		return idx
	}
	discover(pair{f.Start(), g.Start()})

	for cur := 0; cur < len(order); cur++ {
		p := order[cur]
		var trans []machine.MachineTransition
		fTrans := f.States[p.f].Trans
		if !gWaits(g.States[p.g]) {
			fTrans = nil // G continues: only G moves
		}
		for _, tf := range fTrans {
			if tf.IsSilent() {
				dest := discover(pair{tf.Dest, p.g})
				trans = append(trans, machine.MachineTransition{Dest: dest, Weight: tf.Weight})

				continue
			}
			for _, tg := range g.States[p.g].Trans {
				if tg.Input.Present() && tf.Input.Present() && tg.Input.Name() == tf.Input.Name() {
					dest := discover(pair{tf.Dest, tg.Dest})
					trans = append(trans, machine.MachineTransition{
						Input: tf.Input, Dest: dest, Weight: ctx.Mul(tf.Weight, tg.Weight),
					})
				}
			}
		}
		for _, tg := range g.States[p.g].Trans {
			if tg.IsSilent() {
				dest := discover(pair{p.f, tg.Dest})
				trans = append(trans, machine.MachineTransition{Dest: dest, Weight: tg.Weight})
			}
		}
		states[cur].Trans = trans
	}

	endPair := pair{f.End(), g.End()}
	endIdx, ok := index[endPair]
	if !ok {
		return nil, ErrShape
	}
	last := len(states) - 1
	if endIdx != last {
		states[endIdx], states[last] = states[last], states[endIdx]
		for i := range states {
			for j, t := range states[i].Trans {
				switch t.Dest {
				case endIdx:
					states[i].Trans[j].Dest = last
				case last:
					states[i].Trans[j].Dest = endIdx
				}
			}
		}
	}

	defs, cons := mergeDefs(f, g)

	return &machine.Machine{States: states, Defs: defs, Cons: cons}, nil
}
