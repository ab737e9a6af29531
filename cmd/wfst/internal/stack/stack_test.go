package stack_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfstgo/wfst/cmd/wfst/internal/stack"
)

func TestRun_NullProducesOneStateMachine(t *testing.T) {
	e := stack.NewEngine(nil)
	out, err := e.Run([]string{"--null"})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	states, ok := doc["state"].([]any)
	require.True(t, ok)
	assert.Len(t, states, 1)
}

func TestRun_GenerateThenReverseThenSort(t *testing.T) {
	e := stack.NewEngine(nil)
	_, err := e.Run([]string{"--generate-chars", "a,b,c", "--reverse", "--sort"})
	require.NoError(t, err)
}

func TestRun_ConcatenateSymbol(t *testing.T) {
	e := stack.NewEngine(nil)
	_, err := e.Run([]string{"--generate-chars", "a", "--generate-chars", "b", "."})
	require.NoError(t, err)
}

func TestRun_UnaryOnEmptyStackErrors(t *testing.T) {
	e := stack.NewEngine(nil)
	_, err := e.Run([]string{"--reverse"})
	require.ErrorIs(t, err, stack.ErrEmptyStack)
}

func TestRun_UnknownTokenErrors(t *testing.T) {
	e := stack.NewEngine(nil)
	_, err := e.Run([]string{"--bogus"})
	require.ErrorIs(t, err, stack.ErrUnknownToken)
}

func TestRun_UnbalancedGroupErrors(t *testing.T) {
	e := stack.NewEngine(nil)
	_, err := e.Run([]string{"(", "--null"})
	require.ErrorIs(t, err, stack.ErrUnbalancedGroup)
}

func TestRun_BalancedGroupOK(t *testing.T) {
	e := stack.NewEngine(nil)
	_, err := e.Run([]string{"(", "--null", ")"})
	require.NoError(t, err)
}

func TestRun_WeightThenKleeneStar(t *testing.T) {
	e := stack.NewEngine(nil)
	_, err := e.Run([]string{"--weight", "0.5", "*"})
	require.NoError(t, err)
}

func TestRun_ComposeTwoMachines(t *testing.T) {
	e := stack.NewEngine(nil)
	_, err := e.Run([]string{"--generate-chars", "a,b", "--recognize-chars", "a,b", "=>"})
	require.NoError(t, err)
}

func TestRun_CondNormOnUnionSucceeds(t *testing.T) {
	e := stack.NewEngine(nil)
	_, err := e.Run([]string{
		"--weight", "p", "--weight", "q", "||", "--cond-norm",
	})
	require.NoError(t, err)
}

func TestRun_DataThenLoglike(t *testing.T) {
	dataFile := t.TempDir() + "/data.json"
	require.NoError(t, os.WriteFile(dataFile, []byte(`[{"input": {"seq": ["a"]}, "output": {"seq": []}}]`), 0o644))

	e := stack.NewEngine(nil)
	out, err := e.Run([]string{"--recognize-chars", "a", "--data", dataFile, "--loglike"})
	require.NoError(t, err)

	var doc map[string]float64
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Contains(t, doc, "log_likelihood")
}
