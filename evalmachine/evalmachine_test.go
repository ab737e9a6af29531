package evalmachine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfstgo/wfst/evalmachine"
	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/tokenseq"
	"github.com/wfstgo/wfst/weight"
)

func TestNew_RejectsNonAdvancing(t *testing.T) {
	ctx := weight.NewContext()
	cyc := machine.New([]machine.MachineState{
		{Trans: []machine.MachineTransition{{Dest: 1, Weight: ctx.One()}}},
		{Trans: []machine.MachineTransition{{Dest: 0, Weight: ctx.One()}}},
	})
	in, _ := tokenseq.NewAlphabet([]string{"a"})
	out, _ := tokenseq.NewAlphabet([]string{"x"})
	_, err := evalmachine.New(ctx, cyc, weight.Env{}, in, out)
	assert.ErrorIs(t, err, evalmachine.ErrInvariant)
}

func TestNew_EvaluatesAndIndexes(t *testing.T) {
	ctx := weight.NewContext()
	m := machine.New([]machine.MachineState{
		{Trans: []machine.MachineTransition{
			{Input: machine.Sym("a"), Dest: 1, Weight: ctx.Param("p")},
		}},
		{},
	})
	in, _ := tokenseq.NewAlphabet([]string{"a"})
	out, _ := tokenseq.NewAlphabet([]string{"x"})
	em, err := evalmachine.New(ctx, m, weight.Env{"p": ctx.Double(0.5)}, in, out)
	require.NoError(t, err)
	require.Len(t, em.Transitions, 1)
	assert.InDelta(t, math.Log(0.5), em.Transitions[0].LogWeight, 1e-9)

	incoming := em.IncomingTo(1)
	require.Len(t, incoming, 1)
	assert.True(t, incoming[0].ConsumesInput())
	assert.False(t, incoming[0].ConsumesOutput())
}

func TestNew_LocalDefsTakePrecedence(t *testing.T) {
	ctx := weight.NewContext()
	m := machine.New([]machine.MachineState{
		{Trans: []machine.MachineTransition{{Dest: 1, Weight: ctx.Param("p")}}},
		{},
	})
	m.Defs.Set("p", ctx.Double(0.25))
	in, _ := tokenseq.NewAlphabet([]string{"a"})
	out, _ := tokenseq.NewAlphabet([]string{"x"})
	em, err := evalmachine.New(ctx, m, weight.Env{"p": ctx.Double(0.9)}, in, out)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(0.25), em.Transitions[0].LogWeight, 1e-9)
}
