package counts

import (
	"github.com/wfstgo/wfst/dp"
	"github.com/wfstgo/wfst/dpmatrix"
	"github.com/wfstgo/wfst/evalmachine"
	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/tokenseq"
	"github.com/wfstgo/wfst/weight"
)

// EnvelopeFunc builds the DP envelope for one training pair; callers
// typically supply tokenseq.NewFullEnvelope or a banded envelope derived
// from pair.Alignment.
type EnvelopeFunc func(pair tokenseq.SeqPair) (*tokenseq.Envelope, error)

// EStep evaluates m against env, runs Forward and Backward over every
// training pair, and accumulates their expected transition counts and
// log-likelihoods into one MachineCounts.
// Complexity: O(Σ |envelope_p| * numStates * max degree).
func EStep(ctx *weight.Context, m *machine.Machine, env weight.Env, in, out *tokenseq.Alphabet, pairs []tokenseq.SeqPair, envelopeOf EnvelopeFunc) (*evalmachine.EvaluatedMachine, *MachineCounts, error) {
	if len(pairs) == 0 {
		return nil, nil, ErrNoTrainingData
	}

	em, err := evalmachine.New(ctx, m, env, in, out)
	if err != nil {
		return nil, nil, err
	}

	mc := NewMachineCounts(len(em.Transitions))
	for _, pair := range pairs {
		pairEnv, err := envelopeOf(pair)
		if err != nil {
			return nil, nil, err
		}
		inSeq, outSeq := pair.Input.Seq, pair.Output.Seq
		inLen, outLen := len(inSeq), len(outSeq)

		fwd := dp.Forward(em, pairEnv, inSeq, outSeq, dpmatrix.LogSemiring{})
		bwd := dp.Backward(em, pairEnv, inSeq, outSeq, dpmatrix.LogSemiring{})
		ll := dp.LogLikelihood(em, fwd, inLen, outLen)

		fb := dp.ForwardBackwardCounts(em, pairEnv, inSeq, outSeq, fwd, bwd, ll)
		mc.Accumulate(fb, ll)
	}

	return em, mc, nil
}
