// Package combinator builds machine.Machine values algebraically: atomic
// primitives (null, single_transition, generator/recognizer and their
// "wild" variants) plus an algebra over them (concatenate, union, Kleene
// star/plus/loop, compose, intersect, reverse, transpose, weight scaling).
//
// Every combinator takes a *weight.Context explicitly and returns a fresh
// *machine.Machine; none mutate their operands, matching builder.BuildGraph's
// discipline of resolving everything through an explicit, passed-in
// configuration rather than package-level state.
package combinator
