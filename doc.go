// Package wfst (github.com/wfstgo/wfst) is a library and command-line
// toolkit for building, composing, and evaluating weighted finite-state
// transducers whose transition weights are symbolic expressions over named
// parameters, not bare scalars.
//
// Under the hood the module is organized into focused subpackages:
//
//	weight/      — symbolic weight-expression DAG (Eval/Bind/Deriv/Params)
//	param/       — named parameter environments and constraint groups
//	machine/     — the core two-tape transducer data model
//	combinator/  — algebraic machine construction (compose, union, Kleene, ...)
//	topology/    — graph-rewriting passes (sort, trim, silent-transition handling)
//	tokenseq/    — symbol alphabets, aligned sequence pairs, envelopes
//	evalmachine/ — a bound, numerically-evaluated snapshot of a machine
//	dpmatrix/    — semiring matrix storage and traceback
//	dp/          — Forward/Backward/Viterbi dynamic programming
//	counts/      — expectation-maximisation parameter fitting
//	decode/      — prefix search, beam search, and simulated-annealing decoding
//	wfstio/      — canonical JSON codecs for machines, parameters, and data
//	wfstlog/     — structured logging and rate-limited progress reporting
//	cmd/wfst/    — the stack-based command-line front end
package wfst
