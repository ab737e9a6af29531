package tokenseq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfstgo/wfst/tokenseq"
)

func TestAlphabet_TokenRoundTrip(t *testing.T) {
	a, err := tokenseq.NewAlphabet([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 3, a.Size())
	tok, err := a.Token("b")
	require.NoError(t, err)
	assert.Equal(t, "b", a.Symbol(tok))

	_, err = a.Token("z")
	assert.ErrorIs(t, err, tokenseq.ErrUnknownSymbol)
}

func TestAlphabet_EmptyRejected(t *testing.T) {
	_, err := tokenseq.NewAlphabet(nil)
	assert.ErrorIs(t, err, tokenseq.ErrEmptyAlphabet)
}

func TestFullEnvelope_Valid(t *testing.T) {
	env := tokenseq.NewFullEnvelope(3, 2)
	require.NoError(t, env.Validate(3, 2))
	assert.True(t, env.Contains(0, 0))
	assert.True(t, env.Contains(3, 2))
}

func TestEnvelope_RejectsNonDecreasing(t *testing.T) {
	env := &tokenseq.Envelope{InStart: []int{0, 2, 1}, InEnd: []int{4, 4, 4}}
	assert.ErrorIs(t, env.Validate(3, 2), tokenseq.ErrBadEnvelope)
}

func TestEnvelope_RejectsDisconnected(t *testing.T) {
	env := &tokenseq.Envelope{InStart: []int{0, 3}, InEnd: []int{1, 4}}
	assert.ErrorIs(t, env.Validate(3, 1), tokenseq.ErrBadEnvelope)
}

func TestNewBandEnvelope_CoversAlignment(t *testing.T) {
	path := tokenseq.AlignPath{
		{In: 0, Out: tokenseq.Silent},
		{In: 1, Out: 0},
		{In: tokenseq.Silent, Out: 1},
	}
	env, err := tokenseq.NewBandEnvelope(path, 2, 2, 0)
	require.NoError(t, err)
	require.NoError(t, env.Validate(2, 2))
}
