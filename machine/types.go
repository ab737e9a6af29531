package machine

import (
	"errors"

	"github.com/wfstgo/wfst/param"
	"github.com/wfstgo/wfst/weight"
)

// Sentinel errors for the machine package.
var (
	// ErrOutOfRange indicates a transition references a destination state
	// index outside [0, len(states)).
	ErrOutOfRange = errors.New("machine: state index out of range")

	// ErrNoStates indicates a Machine with zero states (start/end are
	// undefined).
	ErrNoStates = errors.New("machine: machine has no states")

	// ErrNotDirected is reserved for future use by collaborators that build
	// Machine from directed-graph sources; unused by the core today but
	// kept so wfstio can report a consistent error kind.
	ErrNotDirected = errors.New("machine: source graph must be directed")
)

// Symbol is a single alphabet token. The zero value Symbol{} is the
// distinguished "silent" value; Present reports whether a Symbol
// carries an actual token, so the zero value stays meaningful instead of
// overloading the empty string (which may legitimately be a token some
// caller chose for their alphabet).
type Symbol struct {
	name    string
	present bool
}

// Sym wraps s as a present Symbol.
func Sym(s string) Symbol { return Symbol{name: s, present: true} }

// Silent is the distinguished "no symbol" value.
var Silent = Symbol{}

// Present reports whether sym carries an actual alphabet token.
func (sym Symbol) Present() bool { return sym.present }

// Name returns the underlying token. Only meaningful when Present() is true.
func (sym Symbol) Name() string { return sym.name }

// String renders sym for debugging: the token itself, or "<eps>" when
// silent.
func (sym Symbol) String() string {
	if !sym.present {
		return "<eps>"
	}

	return sym.name
}

// StateName is an opaque, JSON-like debugging label with no semantic role:
// nil, a string, or a nested []any/map[string]any.
type StateName = any

// MachineTransition is one outgoing edge of a MachineState: it consumes
// Input (if Present), emits Output (if Present), moves to Dest, and carries
// Weight, a symbolic weight.Expr evaluated against the owning Machine's Defs
// (and any caller-supplied outer environment).
type MachineTransition struct {
	Input  Symbol
	Output Symbol
	Dest   int
	Weight weight.Expr
}

// IsSilent reports whether the transition consumes neither input nor output.
func (t MachineTransition) IsSilent() bool { return !t.Input.Present() && !t.Output.Present() }

// ConsumesInput reports whether the transition advances the input tape.
func (t MachineTransition) ConsumesInput() bool { return t.Input.Present() }

// ConsumesOutput reports whether the transition advances the output tape.
func (t MachineTransition) ConsumesOutput() bool { return t.Output.Present() }

// MachineState is one node of a Machine: a debug Name and its outgoing
// transitions.
type MachineState struct {
	Name  StateName
	Trans []MachineTransition
}

// Machine is the core WFST structure: an indexed state list plus the local
// parameter definitions and constraints carried alongside it.
// States[0] is the start state; States[len(States)-1] is the end state.
type Machine struct {
	States []MachineState
	Defs   *param.Defs
	Cons   *param.Constraints
}

// New returns an empty-defs/constraints Machine wrapping states. Callers
// that don't need local definitions or constraints may pass nil for either
// and New fills in empty instances, so Machine.Defs/Cons are never nil on a
// value built this way.
func New(states []MachineState) *Machine {
	return &Machine{
		States: states,
		Defs:   param.NewDefs(),
		Cons:   param.NewConstraints(),
	}
}

// Start returns the index of the start state (always 0).
func (m *Machine) Start() int { return 0 }

// End returns the index of the end state (always len(States)-1).
// Callers must first check NumStates() > 0.
func (m *Machine) End() int { return len(m.States) - 1 }

// NumStates returns the number of states.
func (m *Machine) NumStates() int { return len(m.States) }

// Validate checks the structural invariants: at least one state, and every
// transition's Dest within range.
// Complexity: O(states + transitions).
func (m *Machine) Validate() error {
	if len(m.States) == 0 {
		return ErrNoStates
	}
	n := len(m.States)
	for _, s := range m.States {
		for _, t := range s.Trans {
			if t.Dest < 0 || t.Dest >= n {
				return ErrOutOfRange
			}
		}
	}

	return nil
}

// Clone returns a deep-enough copy: state/transition slices are copied so
// appending to the clone never aliases the original, but weight.Expr values
// (interned ids) and StateName values are shared, matching core.Graph's
// Clone contract for immutable payloads.
func (m *Machine) Clone() *Machine {
	states := make([]MachineState, len(m.States))
	for i, s := range m.States {
		states[i] = MachineState{
			Name:  s.Name,
			Trans: append([]MachineTransition(nil), s.Trans...),
		}
	}

	return &Machine{States: states, Defs: m.Defs.Clone(), Cons: m.Cons}
}
