package dp

import (
	"math"

	"github.com/wfstgo/wfst/dpmatrix"
	"github.com/wfstgo/wfst/evalmachine"
	"github.com/wfstgo/wfst/tokenseq"
)

// ForwardBackwardCounts computes, for every transition in em, the expected
// number of times it is used along paths consistent with the sequence pair
// Forward/Backward were filled over: `exp(F(i,o,src)+log_w+B(i',o',dest)
// -logLike)` summed over every cell whose consumed symbol(s) match
// inSeq/outSeq. The result is
// indexed the same as em.Transitions.
// Complexity: O(|envelope| * numTransitions).
func ForwardBackwardCounts(em *evalmachine.EvaluatedMachine, env *tokenseq.Envelope, inSeq, outSeq []tokenseq.Token, fwd, bwd *dpmatrix.Matrix, logLike float64) []float64 {
	inLen, outLen := len(inSeq), len(outSeq)
	counts := make([]float64, len(em.Transitions))

	for o := 0; o <= outLen; o++ {
		for i := env.InStart[o]; i < env.InEnd[o]; i++ {
			for idx, t := range em.Transitions {
				fv := fwd.Get(i, o, t.Src)
				if math.IsInf(fv, -1) {
					continue
				}
				ni, no := i, o
				match := true
				if t.ConsumesInput() {
					if i >= inLen || inSeq[i] != t.Input {
						match = false
					}
					ni++
				}
				if match && t.ConsumesOutput() {
					if o >= outLen || outSeq[o] != t.Output {
						match = false
					}
					no++
				}
				if !match || ni > inLen || no > outLen {
					continue
				}
				bv := bwd.Get(ni, no, t.Dest)
				if math.IsInf(bv, -1) {
					continue
				}
				counts[idx] += math.Exp(fv + t.LogWeight + bv - logLike)
			}
		}
	}

	return counts
}
