// Package stack implements a postfix/infix operator-stack interpreter:
// tokens are read left to right from the command line, constructors push
// new machines, unary operators transform the top of stack in place, binary
// operators combine the top two, and application operators
// (save/train/align/...) consume the top machine to produce
// output JSON.
package stack

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wfstgo/wfst/machine"
	"github.com/wfstgo/wfst/tokenseq"
	"github.com/wfstgo/wfst/weight"
	"github.com/wfstgo/wfst/wfstlog"
)

// Sentinel errors for the stack package.
var (
	// ErrEmptyStack indicates an operator needed a machine that wasn't
	// there (unary needs 1, binary needs 2).
	ErrEmptyStack = errors.New("stack: operator needs more machines on the stack")

	// ErrUnknownToken indicates a command-line token matched neither a
	// long-form flag nor a short symbol.
	ErrUnknownToken = errors.New("stack: unrecognised token")

	// ErrMissingArgument indicates a token that requires a following
	// argument (e.g. --load FILE) ran out of tokens.
	ErrMissingArgument = errors.New("stack: token requires an argument")

	// ErrUnbalancedGroup indicates --end without a matching --begin, or a
	// --begin/--end pair whose contents didn't reduce to exactly one
	// machine.
	ErrUnbalancedGroup = errors.New("stack: unbalanced grouping")

	// ErrNoResult indicates the interpreter finished with an empty stack
	// and no application operator ever ran, so there's nothing to report.
	ErrNoResult = errors.New("stack: no machine left to report")
)

// Engine holds the left-to-right interpreter's state: the machine stack,
// the weight arena tokens are evaluated against, and whatever a prior
// --data token staged for the next application operator (--params and
// --constraints, by contrast, mutate the top-of-stack machine directly).
type Engine struct {
	ctx   *weight.Context
	log   *wfstlog.Reporter
	stack []*machine.Machine

	groupStarts []int

	stagedData  []tokenseq.SeqPair
	inAlphabet  *tokenseq.Alphabet
	outAlphabet *tokenseq.Alphabet

	result json.RawMessage
}

// NewEngine returns a ready-to-use Engine. log may be nil.
func NewEngine(log *wfstlog.Reporter) *Engine {
	if log == nil {
		log = wfstlog.NewReporter(wfstlog.Nop(), nil)
	}

	return &Engine{ctx: weight.NewContext(), log: log}
}

func (e *Engine) push(m *machine.Machine) { e.stack = append(e.stack, m) }

func (e *Engine) pop() (*machine.Machine, error) {
	if len(e.stack) == 0 {
		return nil, ErrEmptyStack
	}
	m := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]

	return m, nil
}

func (e *Engine) top() (*machine.Machine, error) {
	if len(e.stack) == 0 {
		return nil, ErrEmptyStack
	}

	return e.stack[len(e.stack)-1], nil
}

// Run interprets args left to right and returns whatever the last
// application operator produced. If no application operator ran, the
// top-of-stack machine is encoded and returned instead.
func (e *Engine) Run(args []string) (json.RawMessage, error) {
	i := 0
	for i < len(args) {
		tok := args[i]
		h, ok := lookup(tok)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownToken, tok)
		}

		var arg string
		if h.takesArg {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%w: %q", ErrMissingArgument, tok)
			}
			arg = args[i+1]
			i++
		}
		i++

		if err := h.run(e, arg); err != nil {
			return nil, fmt.Errorf("%s: %w", tok, err)
		}
		e.log.Report(float64(i)/float64(len(args)), "processed "+tok)
	}

	if len(e.groupStarts) != 0 {
		return nil, ErrUnbalancedGroup
	}

	if e.result != nil {
		return e.result, nil
	}

	m, err := e.top()
	if err != nil {
		return nil, ErrNoResult
	}

	return EncodeMachine(e.ctx, m, nil)
}
