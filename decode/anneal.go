package decode

import (
	"math"
	"math/rand"

	"github.com/wfstgo/wfst/dp"
	"github.com/wfstgo/wfst/dpmatrix"
	"github.com/wfstgo/wfst/evalmachine"
	"github.com/wfstgo/wfst/tokenseq"
)

// defaultSeed mirrors the corpus's deterministic-by-default RNG policy:
// seed==0 selects a fixed, arbitrary, stable seed rather than a time source.
const defaultSeed int64 = 1

func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// AnnealParams configures the simulated-annealing decoder.
type AnnealParams struct {
	Seed             int64   // 0 selects a deterministic default stream
	InitialLen       int     // <=0 defaults to len(outSeq)
	BurnInSteps      int     // <=0 defaults to 256
	BurnInBlock      int     // <=0 defaults to 32; acceptance is measured per block
	Iterations       int     // <=0 defaults to 4096
	TargetAcceptance float64 // <=0 defaults to 0.8
}

// Anneal searches for a high-scoring input sequence by proposing
// substitution/insertion/deletion edits to a current candidate and
// accepting by Metropolis-Hastings. The temperature is auto-calibrated during a burn-in phase to
// target an acceptance rate of ~0.8, then cooled geometrically over the
// main run. The best-scoring candidate seen across the whole run is
// returned, not merely the chain's final state.
func Anneal(em *evalmachine.EvaluatedMachine, inputAlphabet *tokenseq.Alphabet, outSeq []tokenseq.Token, params AnnealParams) ([]tokenseq.Token, float64, error) {
	if len(outSeq) == 0 {
		return nil, 0, ErrEmptyOutput
	}
	vocab := inputAlphabet.Size()
	initialLen := params.InitialLen
	if initialLen <= 0 {
		initialLen = len(outSeq)
	}
	burnInSteps := params.BurnInSteps
	if burnInSteps <= 0 {
		burnInSteps = 256
	}
	burnInBlock := params.BurnInBlock
	if burnInBlock <= 0 {
		burnInBlock = 32
	}
	iterations := params.Iterations
	if iterations <= 0 {
		iterations = 4096
	}
	target := params.TargetAcceptance
	if target <= 0 {
		target = 0.8
	}

	rng := rngFromSeed(params.Seed)
	cur := randomSeq(rng, vocab, initialLen)
	curScore := scoreSeq(em, outSeq, cur)

	best := append([]tokenseq.Token(nil), cur...)
	bestScore := curScore

	temp := 1.0
	for done := 0; done < burnInSteps; done += burnInBlock {
		accepted := 0
		steps := burnInBlock
		if done+steps > burnInSteps {
			steps = burnInSteps - done
		}
		for s := 0; s < steps; s++ {
			next := propose(rng, cur, vocab)
			nextScore := scoreSeq(em, outSeq, next)
			if accept(rng, curScore, nextScore, temp) {
				cur, curScore = next, nextScore
				accepted++
				if curScore > bestScore {
					best, bestScore = append([]tokenseq.Token(nil), cur...), curScore
				}
			}
		}
		rate := float64(accepted) / float64(steps)
		switch {
		case rate < target:
			temp *= 1.5
		case rate > target:
			temp /= 1.5
		}
	}

	cooling := math.Pow(1e-3/temp, 1.0/float64(iterations))
	if math.IsNaN(cooling) || math.IsInf(cooling, 0) {
		cooling = 1.0
	}
	for i := 0; i < iterations; i++ {
		next := propose(rng, cur, vocab)
		nextScore := scoreSeq(em, outSeq, next)
		if accept(rng, curScore, nextScore, temp) {
			cur, curScore = next, nextScore
			if curScore > bestScore {
				best, bestScore = append([]tokenseq.Token(nil), cur...), curScore
			}
		}
		temp *= cooling
	}

	if math.IsInf(bestScore, -1) {
		return nil, 0, ErrNoCompleteSequence
	}

	return best, bestScore, nil
}

// scoreSeq is the full log-likelihood of inSeq explaining outSeq, reusing
// the same Forward recurrence the fitter and prefix search use.
func scoreSeq(em *evalmachine.EvaluatedMachine, outSeq, inSeq []tokenseq.Token) float64 {
	env := tokenseq.NewFullEnvelope(len(inSeq), len(outSeq))
	fwd := dp.Forward(em, env, inSeq, outSeq, dpmatrix.LogSemiring{})

	return dp.LogLikelihood(em, fwd, len(inSeq), len(outSeq))
}

// accept implements Metropolis-Hastings: always accept an improving move,
// otherwise accept with probability exp((next-cur)/temp).
func accept(rng *rand.Rand, cur, next, temp float64) bool {
	if next >= cur {
		return true
	}
	if temp <= 0 {
		return false
	}

	return rng.Float64() < math.Exp((next-cur)/temp)
}

// propose returns a copy of cur with one random substitution, insertion, or
// deletion applied.
func propose(rng *rand.Rand, cur []tokenseq.Token, vocab int) []tokenseq.Token {
	n := len(cur)
	kind := rng.Intn(3)
	if n == 0 {
		kind = 1 // only insertion is applicable to an empty sequence
	}

	out := append([]tokenseq.Token(nil), cur...)
	switch kind {
	case 0: // substitution
		i := rng.Intn(n)
		out[i] = tokenseq.Token(rng.Intn(vocab))
	case 1: // insertion
		i := rng.Intn(n + 1)
		out = append(out[:i:i], append([]tokenseq.Token{tokenseq.Token(rng.Intn(vocab))}, out[i:]...)...)
	default: // deletion
		i := rng.Intn(n)
		out = append(out[:i], out[i+1:]...)
	}

	return out
}

func randomSeq(rng *rand.Rand, vocab, n int) []tokenseq.Token {
	seq := make([]tokenseq.Token, n)
	for i := range seq {
		seq[i] = tokenseq.Token(rng.Intn(vocab))
	}

	return seq
}
