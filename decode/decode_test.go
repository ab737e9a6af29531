package decode_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfstgo/wfst/decode"
	"github.com/wfstgo/wfst/evalmachine"
	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/tokenseq"
	"github.com/wfstgo/wfst/weight"
)

func singleTransitionMachine(t *testing.T) (*evalmachine.EvaluatedMachine, *tokenseq.Alphabet, *tokenseq.Alphabet) {
	t.Helper()
	ctx := weight.NewContext()
	m := machine.New([]machine.MachineState{
		{Trans: []machine.MachineTransition{{Input: machine.Sym("a"), Output: machine.Sym("x"), Dest: 1, Weight: ctx.Double(0.5)}}},
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

func branchingInputMachine(t *testing.T) (*evalmachine.EvaluatedMachine, *tokenseq.Alphabet, *tokenseq.Alphabet) {
	t.Helper()
	ctx := weight.NewContext()
	m := machine.New([]machine.MachineState{
		{Trans: []machine.MachineTransition{
			{Input: machine.Sym("a"), Output: machine.Sym("x"), Dest: 1, Weight: ctx.Double(0.5)},
			{Input: machine.Sym("b"), Output: machine.Sym("x"), Dest: 1, Weight: ctx.Double(0.2)},
		}},
		{},
	})
	in, err := tokenseq.NewAlphabet([]string{"a", "b"})
	require.NoError(t, err)
	out, err := tokenseq.NewAlphabet([]string{"x"})
	require.NoError(t, err)
	em, err := evalmachine.New(ctx, m, weight.Env{}, in, out)
	require.NoError(t, err)

	return em, in, out
}

func TestPrefixSearch_SingleTransition(t *testing.T) {
	em, in, out := singleTransitionMachine(t)
	outSeq := []tokenseq.Token{mustToken(t, out, "x")}

	path, score, err := decode.PrefixSearch(em, in, outSeq, decode.PrefixBudget{})
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.Equal(t, "a", in.Symbol(path[0]))
	assert.InDelta(t, math.Log(0.5), score, 1e-9)
}

func TestPrefixSearch_PrefersHigherWeightBranch(t *testing.T) {
	em, in, out := branchingInputMachine(t)
	outSeq := []tokenseq.Token{mustToken(t, out, "x")}

	path, score, err := decode.PrefixSearch(em, in, outSeq, decode.PrefixBudget{})
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.Equal(t, "a", in.Symbol(path[0]))
	assert.InDelta(t, math.Log(0.5), score, 1e-9)
}

func TestPrefixSearch_EmptyOutput(t *testing.T) {
	em, in, _ := singleTransitionMachine(t)
	_, _, err := decode.PrefixSearch(em, in, nil, decode.PrefixBudget{})
	assert.ErrorIs(t, err, decode.ErrEmptyOutput)
}

func TestBeamSearch_PrefersHigherWeightBranch(t *testing.T) {
	em, in, out := branchingInputMachine(t)
	outSeq := []tokenseq.Token{mustToken(t, out, "x")}

	path, score, err := decode.BeamSearch(em, in, outSeq, decode.BeamParams{Width: 4})
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.Equal(t, "a", in.Symbol(path[0]))
	assert.InDelta(t, math.Log(0.5), score, 1e-9)
}

func TestAnneal_FindsSingleTransitionInput(t *testing.T) {
	em, in, out := singleTransitionMachine(t)
	outSeq := []tokenseq.Token{mustToken(t, out, "x")}

	path, score, err := decode.Anneal(em, in, outSeq, decode.AnnealParams{Seed: 7, InitialLen: 1, BurnInSteps: 32, Iterations: 256})
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.Equal(t, "a", in.Symbol(path[0]))
	assert.InDelta(t, math.Log(0.5), score, 1e-9)
}

func mustToken(t *testing.T, a *tokenseq.Alphabet, sym string) tokenseq.Token {
	t.Helper()
	tok, err := a.Token(sym)
	require.NoError(t, err)

	return tok
}
