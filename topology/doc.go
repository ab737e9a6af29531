// Package topology implements the structural transformations combinator
// relies on but does not itself define: converting a machine to the
// "waiting" shape compose requires of its right operand, advance-sorting
// state indices to minimise silent back-edges, eliminating silent
// transitions/cycles, and trimming states that cannot appear on any
// start-to-end path.
//
// The traversal style (explicit White/Gray/Black visitation state, DFS from
// every unvisited vertex) is grounded on dfs.TopologicalSort.
package topology
