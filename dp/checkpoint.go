package dp

import (
	"math"

	"github.com/wfstgo/wfst/dpmatrix"
	"github.com/wfstgo/wfst/evalmachine"
	"github.com/wfstgo/wfst/tokenseq"
)

// CheckpointBlockSize solves `X + T/X = M` for the largest block size X
// admissible under a column budget M over T output positions:
// X = (M+√(M²−4T))/2 when M²≥4T, else X=⌈√T⌉.
func CheckpointBlockSize(memoryLimitColumns, outLen int) int {
	if outLen <= 0 {
		return 1
	}
	m := float64(memoryLimitColumns)
	t := float64(outLen)
	if m*m >= 4*t {
		x := (m + math.Sqrt(m*m-4*t)) / 2
		if x < 1 {
			x = 1
		}

		return int(math.Round(x))
	}

	return int(math.Ceil(math.Sqrt(t)))
}

// CheckpointedForward is the result of a memory-bounded Forward pass: only
// the state vectors at block-boundary output columns are retained, plus
// the final log-likelihood. RecomputeBlock rematerialises one block's full Matrix at a
// time so Backward can refill it, then discards it.
type CheckpointedForward struct {
	BlockSize    int
	BoundaryCols []int
	Checkpoints  [][]float64 // Checkpoints[k] is the row at BoundaryCols[k]

	em        *evalmachine.EvaluatedMachine
	env       *tokenseq.Envelope
	inSeq     []tokenseq.Token
	outSeq    []tokenseq.Token
	numStates int
	sr        dpmatrix.Semiring
}

// LogLikelihood is F(inLen,outLen,end), read off the final checkpoint.
func (cf *CheckpointedForward) LogLikelihood(inLen, outLen int) float64 {
	last := cf.Checkpoints[len(cf.Checkpoints)-1]
	width := cf.env.InEnd[outLen] - cf.env.InStart[outLen]
	li := inLen - cf.env.InStart[outLen]
	if li < 0 || li >= width {
		return cf.sr.Zero()
	}

	return last[li*cf.numStates+cf.em.End]
}

// NumBlocks returns the number of resident blocks between checkpoints.
func (cf *CheckpointedForward) NumBlocks() int { return len(cf.BoundaryCols) - 1 }

// ForwardCheckpointed runs Forward with only two output columns resident at
// a time (the DTW "two rows" strategy, generalised to an arbitrary-width
// envelope row), snapshotting the state vector at every block-boundary
// column into a Checkpoints entry. memoryLimitColumns bounds the block size
// via CheckpointBlockSize.
// Complexity: O(|envelope| * numStates * max in-degree) time,
// O(rowWidth * numStates) working memory plus O(numBlocks) for checkpoints.
func ForwardCheckpointed(em *evalmachine.EvaluatedMachine, env *tokenseq.Envelope, inSeq, outSeq []tokenseq.Token, sr dpmatrix.Semiring, memoryLimitColumns int) *CheckpointedForward {
	outLen := len(outSeq)
	blockSize := CheckpointBlockSize(memoryLimitColumns, outLen)
	cf := &CheckpointedForward{
		BlockSize: blockSize, em: em, env: env, inSeq: inSeq, outSeq: outSeq,
		numStates: em.NumStates, sr: sr,
	}

	var prevRow []float64
	prevO := -1
	for o := 0; o <= outLen; o++ {
		width := env.InEnd[o] - env.InStart[o]
		row := make([]float64, width*em.NumStates)
		for idx := range row {
			row[idx] = sr.Zero()
		}

		for li := 0; li < width; li++ {
			i := env.InStart[o] + li
			for d := 0; d < em.NumStates; d++ {
				acc := sr.Zero()
				if i == 0 && o == 0 && d == em.Start {
					acc = sr.Combine(acc, 0)
				}
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
					var base float64
					switch so {
					case o:
						base = cellIn(row, env, o, si, t.Src, em.NumStates, sr)
					case prevO:
						base = cellIn(prevRow, env, prevO, si, t.Src, em.NumStates, sr)
					default:
						continue
					}
					if math.IsInf(base, -1) {
						continue
					}
					acc = sr.Combine(acc, base+t.LogWeight)
				}
				row[li*em.NumStates+d] = acc
			}
		}

		if isBlockBoundary(o, outLen, blockSize) {
			cf.BoundaryCols = append(cf.BoundaryCols, o)
			cf.Checkpoints = append(cf.Checkpoints, row)
		}

		prevRow, prevO = row, o
	}

	return cf
}

func isBlockBoundary(o, outLen, blockSize int) bool {
	if o == 0 || o == outLen {
		return true
	}

	return o%blockSize == 0
}

// cellIn reads row's value for (o, i, state), given row holds output
// column o of env, or sr.Zero() if i falls outside that column's span.
func cellIn(row []float64, env *tokenseq.Envelope, o, i, state, numStates int, sr dpmatrix.Semiring) float64 {
	if row == nil || i < env.InStart[o] || i >= env.InEnd[o] {
		return sr.Zero()
	}
	li := i - env.InStart[o]

	return row[li*numStates+state]
}

// RecomputeBlock rematerialises the full Matrix for the output-column span
// [BoundaryCols[k], BoundaryCols[k+1]], seeded from Checkpoints[k], so
// Backward can be run over it. The returned Matrix is addressed by output
// position relative to the block: local output index 0 is BoundaryCols[k].
func (cf *CheckpointedForward) RecomputeBlock(k int) *dpmatrix.Matrix {
	startCol, endCol := cf.BoundaryCols[k], cf.BoundaryCols[k+1]
	span := endCol - startCol

	sub := &tokenseq.Envelope{
		InStart: append([]int(nil), cf.env.InStart[startCol:endCol+1]...),
		InEnd:   append([]int(nil), cf.env.InEnd[startCol:endCol+1]...),
	}
	mat := dpmatrix.NewMatrix(sub, cf.numStates, cf.sr)

	width := cf.env.InEnd[startCol] - cf.env.InStart[startCol]
	for li := 0; li < width; li++ {
		i := cf.env.InStart[startCol] + li
		for s := 0; s < cf.numStates; s++ {
			mat.Set(i, 0, s, cf.Checkpoints[k][li*cf.numStates+s])
		}
	}
	// Output positions within the block are local (sub's column 0 is
	// startCol), so shift outSeq's start to match; inSeq stays global since
	// the envelope's InStart/InEnd already carry the real input positions.
	fillForwardColumns(cf.em, mat, sub, cf.inSeq, cf.outSeq[startCol:], 1, span)

	return mat
}
