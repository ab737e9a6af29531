package machine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/weight"
)

func linear(ctx *weight.Context) *machine.Machine {
	return machine.New([]machine.MachineState{
		{Name: "start", Trans: []machine.MachineTransition{
			{Input: machine.Sym("a"), Output: machine.Sym("x"), Dest: 1, Weight: ctx.One()},
		}},
		{Name: "mid", Trans: []machine.MachineTransition{
			{Input: machine.Sym("b"), Output: machine.Sym("y"), Dest: 2, Weight: ctx.One()},
		}},
		{Name: "end"},
	})
}

func TestMachine_StartEnd(t *testing.T) {
	ctx := weight.NewContext()
	m := linear(ctx)
	assert.Equal(t, 0, m.Start())
	assert.Equal(t, 2, m.End())
	assert.Equal(t, 3, m.NumStates())
}

func TestMachine_Validate(t *testing.T) {
	ctx := weight.NewContext()
	m := linear(ctx)
	require.NoError(t, m.Validate())

	empty := machine.New(nil)
	assert.ErrorIs(t, empty.Validate(), machine.ErrNoStates)

	bad := machine.New([]machine.MachineState{
		{Trans: []machine.MachineTransition{{Dest: 5, Weight: ctx.One()}}},
	})
	assert.ErrorIs(t, bad.Validate(), machine.ErrOutOfRange)
}

func TestMachine_Alphabets(t *testing.T) {
	ctx := weight.NewContext()
	m := linear(ctx)
	assert.Equal(t, []string{"a", "b"}, m.InputAlphabet())
	assert.Equal(t, []string{"x", "y"}, m.OutputAlphabet())
}

func TestMachine_IsErgodic(t *testing.T) {
	ctx := weight.NewContext()
	assert.False(t, linear(ctx).IsErgodic(), "a strictly linear chain is not ergodic")

	cyc := machine.New([]machine.MachineState{
		{Trans: []machine.MachineTransition{{Dest: 1, Weight: ctx.One()}}},
		{Trans: []machine.MachineTransition{{Dest: 0, Weight: ctx.One()}, {Dest: 0, Weight: ctx.One()}}},
	})
	assert.True(t, cyc.IsErgodic())
}

func TestMachine_IsWaiting(t *testing.T) {
	ctx := weight.NewContext()
	assert.True(t, linear(ctx).IsWaiting(), "every transition here consumes input")

	generator := machine.New([]machine.MachineState{
		{Trans: []machine.MachineTransition{
			{Output: machine.Sym("x"), Dest: 1, Weight: ctx.One()}, // output-only: a pure "continue" state
		}},
		{},
	})
	assert.True(t, generator.IsWaiting(), "a state whose transitions are all input-empty continues")

	mixed := machine.New([]machine.MachineState{
		{Trans: []machine.MachineTransition{
			{Output: machine.Sym("x"), Dest: 0, Weight: ctx.One()}, // input-empty
			{Input: machine.Sym("a"), Dest: 1, Weight: ctx.One()},  // input-consuming
		}},
		{},
	})
	assert.False(t, mixed.IsWaiting(), "mixing input-consuming and input-empty transitions is neither waits nor continues")
}

func TestMachine_IsAdvancing(t *testing.T) {
	ctx := weight.NewContext()
	assert.True(t, linear(ctx).IsAdvancing())

	backEdge := machine.New([]machine.MachineState{
		{Trans: []machine.MachineTransition{{Dest: 1, Weight: ctx.One()}}}, // silent
		{Trans: []machine.MachineTransition{{Dest: 0, Weight: ctx.One()}}}, // silent back-edge
	})
	assert.False(t, backEdge.IsAdvancing())
}

func TestMachine_HasSilentCycle(t *testing.T) {
	ctx := weight.NewContext()
	assert.False(t, linear(ctx).HasSilentCycle())

	cyc := machine.New([]machine.MachineState{
		{Trans: []machine.MachineTransition{{Dest: 1, Weight: ctx.One()}}},
		{Trans: []machine.MachineTransition{{Dest: 0, Weight: ctx.One()}}},
	})
	assert.True(t, cyc.HasSilentCycle())
}

func TestSymbol_Silent(t *testing.T) {
	assert.False(t, machine.Silent.Present())
	assert.Equal(t, "<eps>", machine.Silent.String())
	assert.True(t, machine.Sym("a").Present())
	assert.Equal(t, "a", machine.Sym("a").Name())
}

func TestMachine_Clone(t *testing.T) {
	ctx := weight.NewContext()
	m := linear(ctx)
	c := m.Clone()
	c.States[0].Trans[0].Dest = 2
	assert.Equal(t, 1, m.States[0].Trans[0].Dest, "mutating the clone's transition slice must not affect the original")
}
