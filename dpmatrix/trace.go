package dpmatrix

import (
	"math"

	"github.com/wfstgo/wfst/evalmachine"
	"github.com/wfstgo/wfst/tokenseq"
)

// Candidate is one of the (up to four) ways a cell can be reached backward:
// via the incoming Transition, arriving from a forward cell whose combined
// score is Score.
type Candidate struct {
	Transition evalmachine.Transition
	SrcI, SrcO int
	Score      float64
}

// TransSelector picks one candidate index from a non-empty slice: arg_max
// for Viterbi, or a stochastic sampler for stochastic traces.
type TransSelector func(candidates []Candidate) int

// ArgMaxSelector deterministically selects the highest-scoring candidate.
func ArgMaxSelector(candidates []Candidate) int {
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score > candidates[best].Score {
			best = i
		}
	}

	return best
}

// TraceTerminator reports whether traceback should stop at (i, o, state)
// before consulting incoming transitions, independent of the (0,0,start)
// stopping condition.
type TraceTerminator func(i, o, state int) bool

// Traceback walks backward from (i, o, state) using fwd's scores to weigh
// candidates at each step, prepending the selected transition to the
// returned path, until (0,0,start) is reached or terminate fires. inSeq and
// outSeq are the actual committed tapes: a transition is only a candidate
// if the symbol it consumes matches the tape at that position.
// Complexity: O(path length * max in-degree).
func Traceback(em *evalmachine.EvaluatedMachine, fwd *Matrix, inSeq, outSeq []tokenseq.Token, i, o, state int, selector TransSelector, terminate TraceTerminator) ([]evalmachine.Transition, error) {
	var path []evalmachine.Transition
	for {
		if terminate != nil && terminate(i, o, state) {
			return path, nil
		}
		if i == 0 && o == 0 && state == em.Start {
			return path, nil
		}

		var candidates []Candidate
		for _, t := range em.IncomingTo(state) {
			srcI, srcO := i, o
			match := true
			if t.ConsumesInput() {
				srcI--
				if srcI < 0 || inSeq[srcI] != t.Input {
					match = false
				}
			}
			if match && t.ConsumesOutput() {
				srcO--
				if srcO < 0 || outSeq[srcO] != t.Output {
					match = false
				}
			}
			if !match {
				continue
			}
			base := fwd.Get(srcI, srcO, t.Src)
			if math.IsInf(base, -1) {
				continue
			}
			candidates = append(candidates, Candidate{
				Transition: t, SrcI: srcI, SrcO: srcO, Score: base + t.LogWeight,
			})
		}
		if len(candidates) == 0 {
			return nil, ErrNumeric
		}

		chosen := candidates[selector(candidates)]
		path = append([]evalmachine.Transition{chosen.Transition}, path...)
		i, o, state = chosen.SrcI, chosen.SrcO, chosen.Transition.Src
	}
}
