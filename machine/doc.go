// Package machine defines the WFST data model: Symbol, MachineTransition,
// MachineState and Machine, plus the structural invariants and topological
// queries (ergodic, waiting, advancing).
//
// A Machine is a value-typed, freely cloneable graph: states are indexed
// 0..N-1 with state 0 the start and state N-1 the end, and every transition
// references its destination by index. This mirrors core.Graph's vertex/edge
// split but drops core's mutable, lock-guarded map storage in favor of plain
// slices — combinators build a brand new Machine rather than mutating one in
// place under concurrent access, so no locking is needed here; see
// combinator's doc comment for the construction discipline.
package machine
