// Package wfstio implements the canonical on-disk JSON formats: the
// machine format (states, transitions, local defs,
// constraints, free parameter names), the flat parameters format, the
// constraints format, and the SeqPair format. Weight-expression JSON
// itself is handled by the weight package; this package only assembles
// the surrounding machine/constraints/seqpair shapes around it.
package wfstio
