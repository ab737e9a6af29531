// Package decode searches for the input sequence that best explains a given
// output sequence through an evaluated machine: the inverse of Forward
//. Three strategies: an exact best-first prefix-tree search and a
// fixed-width beam approximation, which share the same prefix scoring
// (seqCell, prefixCell), and a simulated-annealing/MCMC approximation that
// scores whole candidate sequences with dp.Forward.
package decode
