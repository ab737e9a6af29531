package counts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfstgo/wfst/counts"
	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/param"
	"github.com/wfstgo/wfst/tokenseq"
	"github.com/wfstgo/wfst/weight"
)

func branchingMachine(ctx *weight.Context) *machine.Machine {
	defs := param.NewDefs()
	defs.Set("p1", ctx.Double(0.5))
	defs.Set("p2", ctx.Double(0.5))
	cons := &param.Constraints{Norm: [][]string{{"p1", "p2"}}}

	return &machine.Machine{
		States: []machine.MachineState{
			{Trans: []machine.MachineTransition{
				{Input: machine.Sym("a"), Output: machine.Sym("x"), Dest: 1, Weight: ctx.Param("p1")},
				{Input: machine.Sym("b"), Output: machine.Sym("y"), Dest: 1, Weight: ctx.Param("p2")},
			}},
			{},
		},
		Defs: defs,
		Cons: cons,
	}
}

func fullEnvelope(pair tokenseq.SeqPair) (*tokenseq.Envelope, error) {
	return tokenseq.NewFullEnvelope(pair.Input.Len(), pair.Output.Len()), nil
}

func TestEStep_AccumulatesCounts(t *testing.T) {
	ctx := weight.NewContext()
	m := branchingMachine(ctx)
	in, err := tokenseq.NewAlphabet([]string{"a", "b"})
	require.NoError(t, err)
	out, err := tokenseq.NewAlphabet([]string{"x", "y"})
	require.NoError(t, err)

	pairs := []tokenseq.SeqPair{{
		Input:  tokenseq.NamedSeq{Seq: []tokenseq.Token{0}},
		Output: tokenseq.NamedSeq{Seq: []tokenseq.Token{0}},
	}}

	_, mc, err := counts.EStep(ctx, m, weight.Env{}, in, out, pairs, fullEnvelope)
	require.NoError(t, err)
	require.Len(t, mc.Transitions, 2)
	assert.InDelta(t, 1.0, mc.Transitions[0], 1e-9)
	assert.InDelta(t, 0.0, mc.Transitions[1], 1e-9)
}

func TestEStep_NoPairs(t *testing.T) {
	ctx := weight.NewContext()
	m := branchingMachine(ctx)
	in, _ := tokenseq.NewAlphabet([]string{"a", "b"})
	out, _ := tokenseq.NewAlphabet([]string{"x", "y"})

	_, _, err := counts.EStep(ctx, m, weight.Env{}, in, out, nil, fullEnvelope)
	assert.ErrorIs(t, err, counts.ErrNoTrainingData)
}

func TestFit_PrefersTheObservedBranch(t *testing.T) {
	ctx := weight.NewContext()
	m := branchingMachine(ctx)
	in, err := tokenseq.NewAlphabet([]string{"a", "b"})
	require.NoError(t, err)
	out, err := tokenseq.NewAlphabet([]string{"x", "y"})
	require.NoError(t, err)

	pairs := []tokenseq.SeqPair{{
		Input:  tokenseq.NamedSeq{Seq: []tokenseq.Token{0}},
		Output: tokenseq.NamedSeq{Seq: []tokenseq.Token{0}},
	}}

	result, err := counts.Fit(ctx, m, in, out, pairs, fullEnvelope)
	require.NoError(t, err)
	require.NotNil(t, result.Defs)

	p1e, ok := result.Defs.Get("p1")
	require.True(t, ok)
	p2e, ok := result.Defs.Get("p2")
	require.True(t, ok)
	p1, err := weight.Eval(ctx, p1e, weight.Env{})
	require.NoError(t, err)
	p2, err := weight.Eval(ctx, p2e, weight.Env{})
	require.NoError(t, err)

	assert.Greater(t, p1, p2)
}
