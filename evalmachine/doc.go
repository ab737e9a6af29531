// Package evalmachine freezes a machine.Machine, a weight.Resolver
// environment, and a parameter set into an EvaluatedMachine: every
// transition weight is evaluated once to a log-space scalar, and two
// destination/source indices let the DP engine enumerate the transitions
// touching a state in O(1) amortized per lookup. Construction requires the source machine be
// advancing; this mirrors matrix's index-building helpers and core's
// adjacency-index pattern.
package evalmachine
