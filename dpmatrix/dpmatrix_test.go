package dpmatrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfstgo/wfst/dpmatrix"
	"github.com/wfstgo/wfst/evalmachine"
	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/tokenseq"
	"github.com/wfstgo/wfst/weight"
)

func TestLogSumExp_Basic(t *testing.T) {
	assert.InDelta(t, math.Log(2), dpmatrix.LogSumExp(0, 0), 1e-9)
	assert.Equal(t, 5.0, dpmatrix.LogSumExp(math.Inf(-1), 5.0))
	assert.InDelta(t, math.Log(math.Exp(1)+math.Exp(2)), dpmatrix.LogSumExp(1, 2), 1e-6)
}

func TestMatrix_GetSetOutsideEnvelope(t *testing.T) {
	env := tokenseq.NewFullEnvelope(2, 1)
	m := dpmatrix.NewMatrix(env, 3, dpmatrix.LogSemiring{})
	assert.True(t, math.IsInf(m.Get(0, 0, 0), -1))
	m.Set(0, 0, 0, 1.5)
	assert.Equal(t, 1.5, m.Get(0, 0, 0))
	assert.True(t, math.IsInf(m.Get(10, 0, 0), -1), "out-of-envelope reads as -Inf")
}

func TestMatrix_Accumulate(t *testing.T) {
	env := tokenseq.NewFullEnvelope(1, 1)
	m := dpmatrix.NewMatrix(env, 1, dpmatrix.LogSemiring{})
	m.Accumulate(0, 0, 0, 0)
	m.Accumulate(0, 0, 0, 0)
	assert.InDelta(t, math.Log(2), m.Get(0, 0, 0), 1e-9)
}

func TestTraceback_SimplePath(t *testing.T) {
	ctx := weight.NewContext()
	m := machine.New([]machine.MachineState{
		{Trans: []machine.MachineTransition{{Input: machine.Sym("a"), Dest: 1, Weight: ctx.Double(math.Exp(-0.1))}}},
		{},
	})
	in, _ := tokenseq.NewAlphabet([]string{"a"})
	out, _ := tokenseq.NewAlphabet([]string{"x"})
	em, err := evalmachine.New(ctx, m, weight.Env{}, in, out)
	require.NoError(t, err)

	env := tokenseq.NewFullEnvelope(1, 0)
	fwd := dpmatrix.NewMatrix(env, 2, dpmatrix.LogSemiring{})
	fwd.Set(0, 0, 0, 0)
	path, traceErr := dpmatrix.Traceback(em, fwd, []tokenseq.Token{0}, nil, 1, 0, 1, dpmatrix.ArgMaxSelector, nil)
	require.NoError(t, traceErr)
	require.Len(t, path, 1)
	assert.Equal(t, 0, path[0].Src)
}
