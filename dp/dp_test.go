package dp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfstgo/wfst/dp"
	"github.com/wfstgo/wfst/dpmatrix"
	"github.com/wfstgo/wfst/evalmachine"
	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/tokenseq"
	"github.com/wfstgo/wfst/weight"
)

// linearMachine builds a two-state machine consuming a single input symbol
// "a" and emitting output symbol "x", weight w.
func linearMachine(t *testing.T, ctx *weight.Context, w float64) (*evalmachine.EvaluatedMachine, *tokenseq.Alphabet, *tokenseq.Alphabet) {
	t.Helper()
	m := machine.New([]machine.MachineState{
		{Trans: []machine.MachineTransition{{Input: machine.Sym("a"), Output: machine.Sym("x"), Dest: 1, Weight: ctx.Double(w)}}},
		{},
	})
	in, err := tokenseq.NewAlphabet([]string{"a"})
	require.NoError(t, err)
	out, err := tokenseq.NewAlphabet([]string{"x"})
	require.NoError(t, err)
	em, err := evalmachine.New(ctx, m, weight.Env{}, in, out)
	require.NoError(t, err)

	return em, in, out
}

func TestForward_SingleTransition(t *testing.T) {
	ctx := weight.NewContext()
	em, _, _ := linearMachine(t, ctx, 0.25)

	env := tokenseq.NewFullEnvelope(1, 1)
	inSeq, outSeq := []tokenseq.Token{0}, []tokenseq.Token{0}
	fwd := dp.Forward(em, env, inSeq, outSeq, dpmatrix.LogSemiring{})
	ll := dp.LogLikelihood(em, fwd, 1, 1)
	assert.InDelta(t, math.Log(0.25), ll, 1e-9)
}

func TestForward_SymbolMismatchIsUnreachable(t *testing.T) {
	ctx := weight.NewContext()
	m := machine.New([]machine.MachineState{
		{Trans: []machine.MachineTransition{{Input: machine.Sym("a"), Output: machine.Sym("x"), Dest: 1, Weight: ctx.Double(0.5)}}},
		{},
	})
	in, err := tokenseq.NewAlphabet([]string{"a", "b"})
	require.NoError(t, err)
	out, err := tokenseq.NewAlphabet([]string{"x"})
	require.NoError(t, err)
	em, err := evalmachine.New(ctx, m, weight.Env{}, in, out)
	require.NoError(t, err)

	env := tokenseq.NewFullEnvelope(1, 1)
	// Token 1 is "b", which no transition consumes.
	fwd := dp.Forward(em, env, []tokenseq.Token{1}, []tokenseq.Token{0}, dpmatrix.LogSemiring{})
	assert.True(t, math.IsInf(dp.LogLikelihood(em, fwd, 1, 1), -1))
}

func TestForwardBackward_Agree(t *testing.T) {
	ctx := weight.NewContext()
	em, _, _ := linearMachine(t, ctx, 0.6)

	env := tokenseq.NewFullEnvelope(1, 1)
	inSeq, outSeq := []tokenseq.Token{0}, []tokenseq.Token{0}
	fwd := dp.Forward(em, env, inSeq, outSeq, dpmatrix.LogSemiring{})
	bwd := dp.Backward(em, env, inSeq, outSeq, dpmatrix.LogSemiring{})

	fwdLL := dp.LogLikelihood(em, fwd, 1, 1)
	bwdLL := bwd.Get(0, 0, em.Start)
	assert.NoError(t, dp.CheckAgreement(fwdLL, bwdLL, 1e-9))
}

func TestForwardBackward_Disagreement(t *testing.T) {
	assert.ErrorIs(t, dp.CheckAgreement(0, 1, 1e-9), dp.ErrDisagreement)
}

func TestViterbi_SingleTransition(t *testing.T) {
	ctx := weight.NewContext()
	em, _, _ := linearMachine(t, ctx, 0.5)
	env := tokenseq.NewFullEnvelope(1, 1)

	path, logWeight, err := dp.Viterbi(em, env, []tokenseq.Token{0}, []tokenseq.Token{0})
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.InDelta(t, math.Log(0.5), logWeight, 1e-9)
}

func TestViterbi_NoPath(t *testing.T) {
	ctx := weight.NewContext()
	em, _, _ := linearMachine(t, ctx, 0.5)
	env := tokenseq.NewFullEnvelope(2, 2)

	_, _, err := dp.Viterbi(em, env, []tokenseq.Token{0, 0}, []tokenseq.Token{0, 0})
	assert.ErrorIs(t, err, dpmatrix.ErrNumeric)
}

func TestForwardBackwardCounts_SingleTransition(t *testing.T) {
	ctx := weight.NewContext()
	em, _, _ := linearMachine(t, ctx, 0.5)
	env := tokenseq.NewFullEnvelope(1, 1)
	inSeq, outSeq := []tokenseq.Token{0}, []tokenseq.Token{0}

	fwd := dp.Forward(em, env, inSeq, outSeq, dpmatrix.LogSemiring{})
	bwd := dp.Backward(em, env, inSeq, outSeq, dpmatrix.LogSemiring{})
	ll := dp.LogLikelihood(em, fwd, 1, 1)

	counts := dp.ForwardBackwardCounts(em, env, inSeq, outSeq, fwd, bwd, ll)
	require.Len(t, counts, 1)
	assert.InDelta(t, 1.0, counts[0], 1e-9)
}

func TestCheckpointBlockSize(t *testing.T) {
	// M^2 >= 4T: exact formula.
	assert.Equal(t, 8, dp.CheckpointBlockSize(10, 16))
	// Degenerate: memory budget too small for the quadratic form.
	assert.Equal(t, 4, dp.CheckpointBlockSize(1, 16))
}

func TestForwardCheckpointed_MatchesLogLikelihood(t *testing.T) {
	ctx := weight.NewContext()
	em, _, _ := linearMachine(t, ctx, 0.3)
	env := tokenseq.NewFullEnvelope(1, 1)
	inSeq, outSeq := []tokenseq.Token{0}, []tokenseq.Token{0}

	full := dp.Forward(em, env, inSeq, outSeq, dpmatrix.LogSemiring{})
	wantLL := dp.LogLikelihood(em, full, 1, 1)

	cf := dp.ForwardCheckpointed(em, env, inSeq, outSeq, dpmatrix.LogSemiring{}, 4)
	assert.InDelta(t, wantLL, cf.LogLikelihood(1, 1), 1e-9)
	require.GreaterOrEqual(t, cf.NumBlocks(), 1)

	block := cf.RecomputeBlock(0)
	assert.InDelta(t, full.Get(1, 1, em.End), block.Get(1, cf.BoundaryCols[1]-cf.BoundaryCols[0], em.End), 1e-9)
}
