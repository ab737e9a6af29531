package topology

import "github.com/wfstgo/wfst/machine"

// AdvanceSort permutes state indices to minimise the number of silent
// back-edges:
//
//  1. Build a directed graph of silent, non-self, non-to-end transitions.
//  2. Start with the start state in the order; at each step, pick the
//     remaining state with the minimum count of remaining silent-incoming
//     edges (tie-break: maximum silent-incoming minus silent-outgoing).
//  3. End state appended last.
//  4. If the resulting back-edge count is not strictly less than the
//     original, revert (sorting didn't help).
//
// Complexity: O(states^2 + transitions).
func AdvanceSort(m *machine.Machine) *machine.Machine {
	n := m.NumStates()
	if n <= 2 {
		return m
	}
	start, end := m.Start(), m.End()

	// 1. Silent, non-self, non-to-end adjacency.
	adj := make([][]int, n)
	totalIn := make([]int, n)
	totalOut := make([]int, n)
	for i, s := range m.States {
		for _, t := range s.Trans {
			if !t.IsSilent() || t.Dest == i || t.Dest == end {
				continue
			}
			adj[i] = append(adj[i], t.Dest)
			totalOut[i]++
			totalIn[t.Dest]++
		}
	}

	// 2. Greedy placement.
	placed := make([]bool, n)
	placed[start] = true
	placed[end] = true
	order := []int{start}
	for len(order) < n-1 {
		best, bestRem, bestTie := -1, 0, 0
		for c := 0; c < n; c++ {
			if placed[c] {
				continue
			}
			rem := 0
			for u := 0; u < n; u++ {
				if placed[u] {
					continue
				}
				for _, v := range adj[u] {
					if v == c {
						rem++
					}
				}
			}
			tie := totalIn[c] - totalOut[c]
			if best == -1 || rem < bestRem || (rem == bestRem && tie > bestTie) {
				best, bestRem, bestTie = c, rem, tie
			}
		}
		order = append(order, best)
		placed[best] = true
	}
	order = append(order, end) // 3.

	// 4. Compute back-edge counts before/after; revert if not improved.
	oldToNew := make([]int, n)
	for newIdx, oldIdx := range order {
		oldToNew[oldIdx] = newIdx
	}
	before := countSilentBackEdges(m, identity(n))
	after := countSilentBackEdges(m, oldToNew)
	if after >= before {
		return m
	}

	return remap(m, oldToNew)
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}

func countSilentBackEdges(m *machine.Machine, oldToNew []int) int {
	count := 0
	for i, s := range m.States {
		for _, t := range s.Trans {
			if t.IsSilent() && oldToNew[t.Dest] <= oldToNew[i] {
				count++
			}
		}
	}

	return count
}

// remap rebuilds m with states permuted so old index i lives at
// oldToNew[i].
func remap(m *machine.Machine, oldToNew []int) *machine.Machine {
	n := len(oldToNew)
	states := make([]machine.MachineState, n)
	for oldIdx, s := range m.States {
		trans := make([]machine.MachineTransition, len(s.Trans))
		for i, t := range s.Trans {
			t.Dest = oldToNew[t.Dest]
			trans[i] = t
		}
		states[oldToNew[oldIdx]] = machine.MachineState{Name: s.Name, Trans: trans}
	}

	return &machine.Machine{States: states, Defs: m.Defs.Clone(), Cons: m.Cons}
}
