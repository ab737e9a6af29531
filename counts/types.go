package counts

// MachineCounts accumulates expected per-transition counts and the total
// log-likelihood across a training set.
type MachineCounts struct {
	Transitions   []float64
	LogLikelihood float64
}

// NewMachineCounts returns a zeroed MachineCounts sized for numTransitions.
func NewMachineCounts(numTransitions int) *MachineCounts {
	return &MachineCounts{Transitions: make([]float64, numTransitions)}
}

// Accumulate folds one sequence pair's expected counts and log-likelihood
// into mc. fb must have the same length as mc.Transitions.
// Complexity: O(len(fb)).
func (mc *MachineCounts) Accumulate(fb []float64, ll float64) {
	for i, v := range fb {
		mc.Transitions[i] += v
	}
	mc.LogLikelihood += ll
}
