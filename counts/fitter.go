package counts

import (
	"math"

	"github.com/google/uuid"

	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/param"
	"github.com/wfstgo/wfst/tokenseq"
	"github.com/wfstgo/wfst/weight"
)

const (
	emMaxIterations         = 1000
	emRelativeLLImprovement = 1e-3
)

// FitResult reports the outcome of one Fit call. RunID identifies the
// run in logs independently of wall-clock time, so two fits started in the
// same second (or replayed from a log) are still distinguishable.
type FitResult struct {
	RunID         string
	Defs          *param.Defs
	LogLikelihood float64
	Iterations    int
}

// Fit runs the EM loop: repeat E-step (accumulate
// Forward/Backward counts) then M-step (BFGS over the reparameterised
// objective) until either emMaxIterations is reached or the relative
// log-likelihood improvement between iterations drops below
// emRelativeLLImprovement. On any mid-iteration failure, the previous
// iteration's parameters are returned instead of the failed candidate.
// Complexity: O(iterations * EStep cost).
func Fit(ctx *weight.Context, m *machine.Machine, in, out *tokenseq.Alphabet, pairs []tokenseq.SeqPair, envelopeOf EnvelopeFunc) (*FitResult, error) {
	cons := m.Cons
	if cons == nil {
		cons = param.NewConstraints()
	}

	best := m.Defs
	if best == nil {
		best = param.NewDefs()
	}
	bestLL := math.Inf(-1)
	runID := uuid.New().String()

	for iter := 1; iter <= emMaxIterations; iter++ {
		trial := machine.Machine{States: m.States, Defs: best, Cons: m.Cons}

		_, mc, err := EStep(ctx, &trial, weight.Env{}, in, out, pairs, envelopeOf)
		if err != nil {
			return &FitResult{RunID: runID, Defs: best, LogLikelihood: bestLL, Iterations: iter - 1}, err
		}

		fitted, err := MStep(ctx, &trial, cons, mc)
		if err != nil {
			return &FitResult{RunID: runID, Defs: best, LogLikelihood: bestLL, Iterations: iter - 1}, err
		}

		improvement := mc.LogLikelihood - bestLL
		relImprovement := math.Abs(improvement)
		if !math.IsInf(bestLL, -1) && bestLL != 0 {
			relImprovement = math.Abs(improvement / bestLL)
		}

		best = fitted
		bestLL = mc.LogLikelihood

		if iter > 1 && relImprovement < emRelativeLLImprovement {
			return &FitResult{RunID: runID, Defs: best, LogLikelihood: bestLL, Iterations: iter}, nil
		}
	}

	return &FitResult{RunID: runID, Defs: best, LogLikelihood: bestLL, Iterations: emMaxIterations}, nil
}
