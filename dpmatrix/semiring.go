package dpmatrix

import "math"

// Semiring abstracts the DP recurrence's combine operator: Forward/Backward
// use the log-sum-exp semiring, Viterbi the max-plus semiring.
type Semiring interface {
	// Combine merges two partial scores arriving at the same cell.
	Combine(a, b float64) float64
	// Zero is the semiring's additive identity (the "nothing arrived here
	// yet" value): -Inf for both semirings used here.
	Zero() float64
}

// LogSemiring implements log-sum-exp combination.
type LogSemiring struct{}

// Combine returns log(exp(a)+exp(b)) computed stably via LogSumExp.
func (LogSemiring) Combine(a, b float64) float64 { return LogSumExp(a, b) }

// Zero returns -Inf.
func (LogSemiring) Zero() float64 { return math.Inf(-1) }

// MaxPlusSemiring implements Viterbi's max-plus combination.
type MaxPlusSemiring struct{}

// Combine returns the larger of a, b.
func (MaxPlusSemiring) Combine(a, b float64) float64 {
	if a > b {
		return a
	}

	return b
}

// Zero returns -Inf.
func (MaxPlusSemiring) Zero() float64 { return math.Inf(-1) }

// log1pExpNegTable holds log(1+exp(-x)) for x in [0,10] at 1e-4 spacing;
// outside this range the smaller term is dropped instead of computed.
var log1pExpNegTable []float64

const (
	log1pTableMax  = 10.0
	log1pTableStep = 1e-4
)

func init() {
	n := int(log1pTableMax/log1pTableStep) + 1
	log1pExpNegTable = make([]float64, n)
	for i := range log1pExpNegTable {
		x := float64(i) * log1pTableStep
		log1pExpNegTable[i] = math.Log1p(math.Exp(-x))
	}
}

func log1pExpNeg(x float64) float64 {
	if x < 0 || x > log1pTableMax {
		return 0
	}
	idx := int(x/log1pTableStep + 0.5)
	if idx >= len(log1pExpNegTable) {
		idx = len(log1pExpNegTable) - 1
	}

	return log1pExpNegTable[idx]
}

// LogSumExp returns log(exp(a)+exp(b)) using the max-plus-log1p form, with
// a==b special-cased to avoid Inf-Inf and values outside the lookup table's
// domain simply dropping the smaller term.
func LogSumExp(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a == b {
		return a + math.Ln2
	}
	hi, lo := a, b
	if b > a {
		hi, lo = b, a
	}
	diff := hi - lo
	if diff > log1pTableMax {
		return hi
	}

	return hi + log1pExpNeg(diff)
}
