package combinator

import (
	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/weight"
)

// Null returns the single-state machine accepting only the empty string with
// weight 1.
// Complexity: O(1).
func Null() *machine.Machine {
	return machine.New([]machine.MachineState{{Name: "null"}})
}

// SingleTransition returns the two-state machine with one silent transition
// of weight w from start to end.
// Complexity: O(1).
func SingleTransition(w weight.Expr) *machine.Machine {
	return machine.New([]machine.MachineState{
		{Name: "start", Trans: []machine.MachineTransition{
			{Dest: 1, Weight: w},
		}},
		{Name: "end"},
	})
}

// Generator returns the |seq|+1-state machine whose state i transitions to
// i+1 emitting seq[i] on output only, weight 1.
// Complexity: O(len(seq)).
func Generator(ctx *weight.Context, seq []string) *machine.Machine {
	return sequenceMachine(ctx, seq, false)
}

// Recognizer returns the same shape as Generator but consumes seq on input
// instead of emitting it on output.
// Complexity: O(len(seq)).
func Recognizer(ctx *weight.Context, seq []string) *machine.Machine {
	return sequenceMachine(ctx, seq, true)
}

func sequenceMachine(ctx *weight.Context, seq []string, input bool) *machine.Machine {
	states := make([]machine.MachineState, len(seq)+1)
	for i, tok := range seq {
		t := machine.MachineTransition{Dest: i + 1, Weight: ctx.One()}
		if input {
			t.Input = machine.Sym(tok)
		} else {
			t.Output = machine.Sym(tok)
		}
		states[i] = machine.MachineState{Trans: []machine.MachineTransition{t}}
	}
	states[len(seq)] = machine.MachineState{}

	return machine.New(states)
}

// WildGenerator returns the single-state machine with one self-loop per
// symbol in alphabet, each weight 1, emitting that symbol on output.
// Complexity: O(len(alphabet)).
func WildGenerator(ctx *weight.Context, alphabet []string) *machine.Machine {
	return wildMachine(ctx, alphabet, false)
}

// WildRecognizer is WildGenerator's input-consuming counterpart.
// Complexity: O(len(alphabet)).
func WildRecognizer(ctx *weight.Context, alphabet []string) *machine.Machine {
	return wildMachine(ctx, alphabet, true)
}

func wildMachine(ctx *weight.Context, alphabet []string, input bool) *machine.Machine {
	trans := make([]machine.MachineTransition, len(alphabet))
	for i, tok := range alphabet {
		t := machine.MachineTransition{Dest: 0, Weight: ctx.One()}
		if input {
			t.Input = machine.Sym(tok)
		} else {
			t.Output = machine.Sym(tok)
		}
		trans[i] = t
	}

	return machine.New([]machine.MachineState{{Trans: trans}})
}
