package evalmachine

import "errors"

// ErrInvariant indicates New was given a non-advancing
// machine, violating EvaluatedMachine's precondition.
var ErrInvariant = errors.New("evalmachine: machine must be advancing")
