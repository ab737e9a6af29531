package decode

import (
	"math"

	"github.com/wfstgo/wfst/dp"
	"github.com/wfstgo/wfst/dpmatrix"
	"github.com/wfstgo/wfst/evalmachine"
	"github.com/wfstgo/wfst/tokenseq"
)

// node is one input prefix in the search tree: seqCell(o,d) is the score of
// consuming the prefix exactly and emitting the first o outputs ending in
// state d; prefixCell(o,d) additionally allows any free continuation of the
// prefix to reach (o,d). Both are full columns over
// o = 0..len(outSeq).
type node struct {
	prefix     []tokenseq.Token
	seqCell    [][]float64
	prefixCell [][]float64
}

// score is the value the search frontier is ordered by: the best log-prob
// any completion of this prefix could reach.
func (n *node) score(em *evalmachine.EvaluatedMachine) float64 {
	return n.prefixCell[len(n.prefixCell)-1][em.End]
}

// complete reports whether the prefix itself (no further extension) already
// accounts for the whole output, and the corresponding score.
func (n *node) complete(em *evalmachine.EvaluatedMachine) (float64, bool) {
	v := n.seqCell[len(n.seqCell)-1][em.End]

	return v, !math.IsInf(v, -1)
}

// newNode computes seqCell by reusing dp.Forward over an envelope exactly
// bounding the input tape to len(prefix) (no transition may consume input
// past the prefix's committed tokens), then extends it to prefixCell by
// relaxing the input-match requirement: a continuation may use any future
// input symbol, so only output matching still gates a transition.
func newNode(em *evalmachine.EvaluatedMachine, outSeq []tokenseq.Token, prefix []tokenseq.Token) *node {
	outLen := len(outSeq)
	env := tokenseq.NewFullEnvelope(len(prefix), outLen)
	fwd := dp.Forward(em, env, prefix, outSeq, dpmatrix.LogSemiring{})

	seqCell := make([][]float64, outLen+1)
	for o := 0; o <= outLen; o++ {
		seqCell[o] = make([]float64, em.NumStates)
		for d := 0; d < em.NumStates; d++ {
			seqCell[o][d] = fwd.Get(len(prefix), o, d)
		}
	}

	return &node{prefix: prefix, seqCell: seqCell, prefixCell: closePrefixCell(em, outSeq, seqCell)}
}

// closePrefixCell propagates seqCell forward through free-input
// continuations: a transition with silent output stays at the same output
// column; one that emits must match outSeq at the position it would
// produce, but never checks which input symbol it consumes (that symbol is
// not yet chosen). Columns are filled in increasing o, states in increasing
// index, matching the machine's advancing order so a silent transition's
// source is always already finalised.
func closePrefixCell(em *evalmachine.EvaluatedMachine, outSeq []tokenseq.Token, seqCell [][]float64) [][]float64 {
	outLen := len(outSeq)
	sr := dpmatrix.LogSemiring{}
	prefixCell := make([][]float64, outLen+1)
	for o := 0; o <= outLen; o++ {
		prefixCell[o] = append([]float64(nil), seqCell[o]...)
	}

	for o := 0; o <= outLen; o++ {
		for d := 0; d < em.NumStates; d++ {
			acc := prefixCell[o][d]
			for _, t := range em.IncomingTo(d) {
				var base float64
				if t.ConsumesOutput() {
					if o == 0 || outSeq[o-1] != t.Output {
						continue
					}
					base = prefixCell[o-1][t.Src]
				} else {
					base = prefixCell[o][t.Src]
				}
				if math.IsInf(base, -1) {
					continue
				}
				acc = sr.Combine(acc, base+t.LogWeight)
			}
			prefixCell[o][d] = acc
		}
	}

	return prefixCell
}
