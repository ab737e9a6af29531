package dp

import (
	"math"

	"github.com/wfstgo/wfst/dpmatrix"
	"github.com/wfstgo/wfst/evalmachine"
	"github.com/wfstgo/wfst/tokenseq"
)

// Forward fills F(i,o,d) over env with o outer, i inner, d innermost
// increasing. F(0,0,start)=0; every other cell starts
// at sr.Zero() and accumulates over incoming transitions whose committed
// symbol matches inSeq/outSeq at the position consumed.
// Complexity: O(|envelope| * numStates * max in-degree).
func Forward(em *evalmachine.EvaluatedMachine, env *tokenseq.Envelope, inSeq, outSeq []tokenseq.Token, sr dpmatrix.Semiring) *dpmatrix.Matrix {
	mat := dpmatrix.NewMatrix(env, em.NumStates, sr)
	mat.Accumulate(0, 0, em.Start, 0)
	fillForwardColumns(em, mat, env, inSeq, outSeq, 0, len(outSeq))

	return mat
}

// fillForwardColumns runs the Forward recurrence over output columns
// [fromO, toO], assuming every column before fromO (and any cell already
// written within fromO, such as a pre-seeded checkpoint) is already final.
// Shared by Forward (fromO=0) and a checkpointed block's on-demand refill.
func fillForwardColumns(em *evalmachine.EvaluatedMachine, mat *dpmatrix.Matrix, env *tokenseq.Envelope, inSeq, outSeq []tokenseq.Token, fromO, toO int) {
	for o := fromO; o <= toO; o++ {
		for i := env.InStart[o]; i < env.InEnd[o]; i++ {
			for d := 0; d < em.NumStates; d++ {
				for _, t := range em.IncomingTo(d) {
					si, so := i, o
					match := true
					if t.ConsumesInput() {
						si--
						if si < 0 || inSeq[si] != t.Input {
							match = false
						}
					}
					if match && t.ConsumesOutput() {
						so--
						if so < 0 || outSeq[so] != t.Output {
							match = false
						}
					}
					if !match {
						continue
					}
					base := mat.Get(si, so, t.Src)
					if math.IsInf(base, -1) {
						continue
					}
					mat.Accumulate(i, o, d, base+t.LogWeight)
				}
			}
		}
	}
}

// Backward fills B(i,o,s) as the mirror image of Forward: reverse order
// (o, i, s all decreasing) and outgoing transitions in place of incoming,
// matching each candidate's committed symbol against inSeq/outSeq at the
// position it would consume. B(inLen,outLen,end)=0.
// Complexity: O(|envelope| * numStates * max out-degree).
func Backward(em *evalmachine.EvaluatedMachine, env *tokenseq.Envelope, inSeq, outSeq []tokenseq.Token, sr dpmatrix.Semiring) *dpmatrix.Matrix {
	inLen, outLen := len(inSeq), len(outSeq)
	mat := dpmatrix.NewMatrix(env, em.NumStates, sr)
	mat.Accumulate(inLen, outLen, em.End, 0)

	for o := outLen; o >= 0; o-- {
		for i := env.InEnd[o] - 1; i >= env.InStart[o]; i-- {
			for s := em.NumStates - 1; s >= 0; s-- {
				for _, t := range em.OutgoingFrom(s) {
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
					next := mat.Get(ni, no, t.Dest)
					if math.IsInf(next, -1) {
						continue
					}
					mat.Accumulate(i, o, s, next+t.LogWeight)
				}
			}
		}
	}

	return mat
}

// Viterbi fills the max-plus recurrence and tracebacks the best path from
// (inLen,outLen,end) to (0,0,start).
func Viterbi(em *evalmachine.EvaluatedMachine, env *tokenseq.Envelope, inSeq, outSeq []tokenseq.Token) (path []evalmachine.Transition, logWeight float64, err error) {
	inLen, outLen := len(inSeq), len(outSeq)
	mat := Forward(em, env, inSeq, outSeq, dpmatrix.MaxPlusSemiring{})
	logWeight = mat.Get(inLen, outLen, em.End)
	if math.IsInf(logWeight, -1) {
		return nil, logWeight, dpmatrix.ErrNumeric
	}
	path, err = dpmatrix.Traceback(em, mat, inSeq, outSeq, inLen, outLen, em.End, dpmatrix.ArgMaxSelector, nil)

	return path, logWeight, err
}

// LogLikelihood reads the total log-likelihood off a completed Forward
// matrix: F(inLen,outLen,end) equals B(0,0,start) on a completed Backward
// matrix, so either one gives the same answer.
func LogLikelihood(em *evalmachine.EvaluatedMachine, fwd *dpmatrix.Matrix, inLen, outLen int) float64 {
	return fwd.Get(inLen, outLen, em.End)
}

// CheckAgreement reports ErrDisagreement if fwdLL and bwdLL (read from
// F(inLen,outLen,end) and B(0,0,start) respectively) differ by more than
// eps.
func CheckAgreement(fwdLL, bwdLL, eps float64) error {
	if math.Abs(fwdLL-bwdLL) > eps {
		return ErrDisagreement
	}

	return nil
}
