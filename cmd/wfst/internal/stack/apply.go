package stack

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/wfstgo/wfst/counts"
	"github.com/wfstgo/wfst/decode"
	"github.com/wfstgo/wfst/dp"
	"github.com/wfstgo/wfst/dpmatrix"
	"github.com/wfstgo/wfst/evalmachine"
	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/tokenseq"
	"github.com/wfstgo/wfst/weight"
	"github.com/wfstgo/wfst/wfstio"
)

// ErrNoData indicates an application operator that needs --data ran with
// none staged.
var ErrNoData = errors.New("stack: no training/inference data loaded (use --data)")

// EncodeMachine renders m as the canonical machine JSON, carrying
// freeParams through as the document's "params" field.
func EncodeMachine(ctx *weight.Context, m *machine.Machine, freeParams []string) (json.RawMessage, error) {
	return wfstio.EncodeMachine(ctx, &wfstio.MachineFile{Machine: m, FreeParams: freeParams})
}

func opSave(e *Engine, arg string) error {
	m, err := e.top()
	if err != nil {
		return err
	}
	raw, err := EncodeMachine(e.ctx, m, nil)
	if err != nil {
		return err
	}

	return os.WriteFile(arg, raw, 0o644)
}

func opParams(e *Engine, arg string) error {
	m, err := e.top()
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(arg)
	if err != nil {
		return err
	}
	defs, err := wfstio.DecodeParams(e.ctx, raw)
	if err != nil {
		return err
	}
	for _, name := range defs.Names() {
		v, _ := defs.Get(name)
		m.Defs.Set(name, v)
	}

	return nil
}

func opConstraints(e *Engine, arg string) error {
	m, err := e.top()
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(arg)
	if err != nil {
		return err
	}
	cons, err := wfstio.DecodeConstraints(raw)
	if err != nil {
		return err
	}
	m.Cons = cons

	return nil
}

// noSymbolsPlaceholder fills a tape's alphabet when a machine never
// advances it at all (a pure recognizer has no output symbols, a pure
// generator no input symbols): tokenseq.NewAlphabet rejects an empty list,
// but every SeqPair on that tape is empty too, so the placeholder is never
// actually referenced.
const noSymbolsPlaceholder = "\x00unused"

func (e *Engine) alphabets(m *machine.Machine) (*tokenseq.Alphabet, *tokenseq.Alphabet, error) {
	if e.inAlphabet != nil && e.outAlphabet != nil {
		return e.inAlphabet, e.outAlphabet, nil
	}
	in, err := naturalAlphabet(m.InputAlphabet())
	if err != nil {
		return nil, nil, err
	}
	out, err := naturalAlphabet(m.OutputAlphabet())
	if err != nil {
		return nil, nil, err
	}
	e.inAlphabet, e.outAlphabet = in, out

	return in, out, nil
}

func naturalAlphabet(syms []string) (*tokenseq.Alphabet, error) {
	if len(syms) == 0 {
		syms = []string{noSymbolsPlaceholder}
	}

	return tokenseq.NewAlphabet(syms)
}

func opData(e *Engine, arg string) error {
	m, err := e.top()
	if err != nil {
		return err
	}
	in, out, err := e.alphabets(m)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(arg)
	if err != nil {
		return err
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return err
	}
	for _, doc := range docs {
		pair, err := wfstio.DecodeSeqPair(doc, in, out)
		if err != nil {
			return err
		}
		e.stagedData = append(e.stagedData, pair)
	}

	return nil
}

func fullEnvelope(pair tokenseq.SeqPair) (*tokenseq.Envelope, error) {
	return tokenseq.NewFullEnvelope(len(pair.Input.Seq), len(pair.Output.Seq)), nil
}

func opTrain(e *Engine, _ string) error {
	m, err := e.top()
	if err != nil {
		return err
	}
	if len(e.stagedData) == 0 {
		return ErrNoData
	}
	in, out, err := e.alphabets(m)
	if err != nil {
		return err
	}
	result, err := counts.Fit(e.ctx, m, in, out, e.stagedData, fullEnvelope)
	if err != nil {
		return err
	}
	m.Defs = result.Defs

	params, err := wfstio.EncodeParams(e.ctx, result.Defs)
	if err != nil {
		return err
	}
	e.result, err = json.Marshal(map[string]json.RawMessage{
		"run_id":         mustMarshal(result.RunID),
		"params":         params,
		"log_likelihood": mustMarshal(result.LogLikelihood),
		"iterations":     mustMarshal(result.Iterations),
	})

	return err
}

func mustMarshal(v any) json.RawMessage {
	raw, _ := json.Marshal(v)

	return raw
}

func opLoglike(e *Engine, _ string) error {
	m, err := e.top()
	if err != nil {
		return err
	}
	if len(e.stagedData) == 0 {
		return ErrNoData
	}
	in, out, err := e.alphabets(m)
	if err != nil {
		return err
	}
	em, err := evalmachine.New(e.ctx, m, nil, in, out)
	if err != nil {
		return err
	}

	total := 0.0
	for _, pair := range e.stagedData {
		env, _ := fullEnvelope(pair)
		fwd := dp.Forward(em, env, pair.Input.Seq, pair.Output.Seq, dpmatrix.LogSemiring{})
		total += dp.LogLikelihood(em, fwd, len(pair.Input.Seq), len(pair.Output.Seq))
	}
	e.result, err = json.Marshal(map[string]float64{"log_likelihood": total})

	return err
}

func opCounts(e *Engine, _ string) error {
	m, err := e.top()
	if err != nil {
		return err
	}
	if len(e.stagedData) == 0 {
		return ErrNoData
	}
	in, out, err := e.alphabets(m)
	if err != nil {
		return err
	}
	_, mc, err := counts.EStep(e.ctx, m, nil, in, out, e.stagedData, fullEnvelope)
	if err != nil {
		return err
	}
	e.result, err = json.Marshal(map[string]any{
		"transitions":    mc.Transitions,
		"log_likelihood": mc.LogLikelihood,
	})

	return err
}

func opAlign(e *Engine, _ string) error {
	m, err := e.top()
	if err != nil {
		return err
	}
	if len(e.stagedData) == 0 {
		return ErrNoData
	}
	in, out, err := e.alphabets(m)
	if err != nil {
		return err
	}
	em, err := evalmachine.New(e.ctx, m, nil, in, out)
	if err != nil {
		return err
	}

	pair := e.stagedData[0]
	env, _ := fullEnvelope(pair)
	path, logWeight, err := dp.Viterbi(em, env, pair.Input.Seq, pair.Output.Seq)
	if err != nil {
		return err
	}

	type column struct {
		In, Out string `json:"in,omitempty"`
	}
	cols := make([]column, len(path))
	for i, t := range path {
		c := column{}
		if t.ConsumesInput() {
			c.In = in.Symbol(t.Input)
		}
		if t.ConsumesOutput() {
			c.Out = out.Symbol(t.Output)
		}
		cols[i] = c
	}
	e.result, err = json.Marshal(map[string]any{
		"alignment":  cols,
		"log_weight": logWeight,
	})

	return err
}

func decodeTarget(e *Engine, m *machine.Machine) (*evalmachine.EvaluatedMachine, *tokenseq.Alphabet, []tokenseq.Token, error) {
	if len(e.stagedData) == 0 {
		return nil, nil, nil, ErrNoData
	}
	in, out, err := e.alphabets(m)
	if err != nil {
		return nil, nil, nil, err
	}
	em, err := evalmachine.New(e.ctx, m, nil, in, out)
	if err != nil {
		return nil, nil, nil, err
	}

	return em, in, e.stagedData[0].Output.Seq, nil
}

func opBeamDecode(e *Engine, _ string) error {
	m, err := e.top()
	if err != nil {
		return err
	}
	em, in, outSeq, err := decodeTarget(e, m)
	if err != nil {
		return err
	}
	best, score, err := decode.BeamSearch(em, in, outSeq, decode.BeamParams{})
	if err != nil {
		return err
	}
	e.result, err = json.Marshal(map[string]any{
		"input": symbolNames(in, best),
		"score": score,
	})

	return err
}

func opPrefixDecode(e *Engine, _ string) error {
	m, err := e.top()
	if err != nil {
		return err
	}
	em, in, outSeq, err := decodeTarget(e, m)
	if err != nil {
		return err
	}
	best, score, err := decode.PrefixSearch(em, in, outSeq, decode.PrefixBudget{})
	if err != nil {
		return err
	}
	e.result, err = json.Marshal(map[string]any{
		"input": symbolNames(in, best),
		"score": score,
	})

	return err
}

func symbolNames(alpha *tokenseq.Alphabet, seq []tokenseq.Token) []string {
	names := make([]string, len(seq))
	for i, t := range seq {
		names[i] = alpha.Symbol(t)
	}

	return names
}
