package wfstio

import (
	"encoding/json"
	"fmt"

	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/weight"
)

type transitionJSON struct {
	To     json.RawMessage `json:"to"`
	In     *string         `json:"in,omitempty"`
	Out    *string         `json:"out,omitempty"`
	Weight json.RawMessage `json:"weight,omitempty"`
}

type stateJSON struct {
	N     *int             `json:"n,omitempty"`
	ID    json.RawMessage  `json:"id,omitempty"`
	Trans []transitionJSON `json:"trans,omitempty"`
}

type machineJSON struct {
	State  []stateJSON                `json:"state"`
	Defs   map[string]json.RawMessage `json:"defs,omitempty"`
	Cons   json.RawMessage            `json:"cons,omitempty"`
	Params []string                   `json:"params,omitempty"`
}

// MachineFile is the decoded result of a machine JSON document: the
// Machine itself, plus the "params" field's free-parameter names carried separately since
// machine.Machine has no slot for display-only metadata.
type MachineFile struct {
	Machine    *machine.Machine
	FreeParams []string
}

// DecodeMachine parses raw into a MachineFile. "to" resolves either as a state index or as a forward or
// backward reference to another state's "id"; "in"/"out" absent means
// silent; "weight" absent means 1.
// Complexity: O(states + transitions + size of every weight expression).
func DecodeMachine(ctx *weight.Context, raw json.RawMessage) (*MachineFile, error) {
	var doc machineJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if len(doc.State) == 0 {
		return nil, fmt.Errorf("%w: machine has no states", ErrSchema)
	}

	idIndex := make(map[string]int, len(doc.State))
	indexOf := make([]int, len(doc.State))
	for pos, s := range doc.State {
		idx := pos
		if s.N != nil {
			idx = *s.N
		}
		indexOf[pos] = idx
		if len(s.ID) > 0 {
			idIndex[string(s.ID)] = idx
		}
	}

	n := len(doc.State)
	states := make([]machine.MachineState, n)
	for pos, s := range doc.State {
		idx := indexOf[pos]
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: state index %d out of range", ErrSchema, idx)
		}
		var name any
		if len(s.ID) > 0 {
			if err := json.Unmarshal(s.ID, &name); err != nil {
				return nil, fmt.Errorf("%w: state id: %v", ErrSchema, err)
			}
		}

		trans := make([]machine.MachineTransition, len(s.Trans))
		for ti, t := range s.Trans {
			dest, err := resolveTo(t.To, idIndex)
			if err != nil {
				return nil, err
			}

			w := ctx.One()
			if len(t.Weight) > 0 {
				w, err = weight.FromJSON(ctx, t.Weight)
				if err != nil {
					return nil, err
				}
			}

			in, out := machine.Silent, machine.Silent
			if t.In != nil {
				in = machine.Sym(*t.In)
			}
			if t.Out != nil {
				out = machine.Sym(*t.Out)
			}

			trans[ti] = machine.MachineTransition{Input: in, Output: out, Dest: dest, Weight: w}
		}

		states[idx] = machine.MachineState{Name: name, Trans: trans}
	}

	m := machine.New(states)
	for name, raw := range doc.Defs {
		e, err := weight.FromJSON(ctx, raw)
		if err != nil {
			return nil, err
		}
		m.Defs.Set(name, e)
	}
	if len(doc.Cons) > 0 {
		cons, err := DecodeConstraints(doc.Cons)
		if err != nil {
			return nil, err
		}
		m.Cons = cons
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &MachineFile{Machine: m, FreeParams: doc.Params}, nil
}

// resolveTo decodes a "to" field as either a bare state index or a
// reference to another state's "id".
func resolveTo(raw json.RawMessage, idIndex map[string]int) (int, error) {
	var asIndex int
	if err := json.Unmarshal(raw, &asIndex); err == nil {
		return asIndex, nil
	}
	if idx, ok := idIndex[string(raw)]; ok {
		return idx, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrReference, string(raw))
}

// EncodeMachine renders f as the canonical machine JSON document. State
// ids are emitted only for states with a non-nil Name; "to" is always
// emitted as a bare index (round-tripping through id references is not
// required for correctness, only for the on-disk id-linking convenience
// DecodeMachine accepts).
func EncodeMachine(ctx *weight.Context, f *MachineFile) (json.RawMessage, error) {
	doc := machineJSON{State: make([]stateJSON, len(f.Machine.States)), Params: f.FreeParams}
	for i, s := range f.Machine.States {
		sj := stateJSON{N: &i}
		if s.Name != nil {
			id, err := json.Marshal(s.Name)
			if err != nil {
				return nil, fmt.Errorf("%w: state name: %v", ErrSchema, err)
			}
			sj.ID = id
		}
		sj.Trans = make([]transitionJSON, len(s.Trans))
		for ti, t := range s.Trans {
			to, _ := json.Marshal(t.Dest)
			tj := transitionJSON{To: to}
			if t.Input.Present() {
				name := t.Input.Name()
				tj.In = &name
			}
			if t.Output.Present() {
				name := t.Output.Name()
				tj.Out = &name
			}
			w, err := weight.ToJSON(ctx, t.Weight)
			if err != nil {
				return nil, err
			}
			tj.Weight = w
			sj.Trans[ti] = tj
		}
		doc.State[i] = sj
	}

	if f.Machine.Defs.Len() > 0 {
		doc.Defs = make(map[string]json.RawMessage, f.Machine.Defs.Len())
		for _, name := range f.Machine.Defs.Names() {
			e, _ := f.Machine.Defs.Get(name)
			raw, err := weight.ToJSON(ctx, e)
			if err != nil {
				return nil, err
			}
			doc.Defs[name] = raw
		}
	}
	if f.Machine.Cons != nil && (len(f.Machine.Cons.Norm) > 0 || len(f.Machine.Cons.Rate) > 0) {
		cons, err := EncodeConstraints(f.Machine.Cons)
		if err != nil {
			return nil, err
		}
		doc.Cons = cons
	}

	return json.Marshal(doc)
}
