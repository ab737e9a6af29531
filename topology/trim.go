package topology

import "github.com/wfstgo/wfst/machine"

// TrimToAccessible returns a copy of m containing only states reachable
// from Start() and able to reach End(), renumbered to close the gaps while
// preserving relative order. Start and End are always kept. Used by
// compose/intersect to discard the unreachable composite states a product
// construction produces.
// Complexity: O(states + transitions).
func TrimToAccessible(m *machine.Machine) *machine.Machine {
	if m.NumStates() == 0 {
		return m
	}
	fwd := reachableForward(m, m.Start())
	bwd := reachableBackward(m, m.End())

	keep := make([]bool, m.NumStates())
	for i := range keep {
		_, f := fwd[i]
		_, b := bwd[i]
		keep[i] = f && b
	}
	keep[m.Start()] = true
	keep[m.End()] = true

	oldToNew := make([]int, m.NumStates())
	var states []machine.MachineState
	for i, s := range m.States {
		if !keep[i] {
			oldToNew[i] = -1

			continue
		}
		oldToNew[i] = len(states)
		states = append(states, s)
	}

	for i := range states {
		var trans []machine.MachineTransition
		for _, t := range states[i].Trans {
			if nd := oldToNew[t.Dest]; nd >= 0 {
				t.Dest = nd
				trans = append(trans, t)
			}
		}
		states[i].Trans = trans
	}

	return &machine.Machine{States: states, Defs: m.Defs.Clone(), Cons: m.Cons}
}

func reachableForward(m *machine.Machine, start int) map[int]struct{} {
	visited := map[int]struct{}{start: {}}
	queue := []int{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, t := range m.States[u].Trans {
			if _, ok := visited[t.Dest]; !ok {
				visited[t.Dest] = struct{}{}
				queue = append(queue, t.Dest)
			}
		}
	}

	return visited
}

func reachableBackward(m *machine.Machine, end int) map[int]struct{} {
	rev := make([][]int, len(m.States))
	for i, s := range m.States {
		for _, t := range s.Trans {
			rev[t.Dest] = append(rev[t.Dest], i)
		}
	}

	visited := map[int]struct{}{end: {}}
	queue := []int{end}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, src := range rev[u] {
			if _, ok := visited[src]; !ok {
				visited[src] = struct{}{}
				queue = append(queue, src)
			}
		}
	}

	return visited
}
