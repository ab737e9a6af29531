package topology

import "errors"

// ErrCycleDetected indicates EliminateSilentTransitions was asked to run on
// a machine that is not advancing (it has a silent cycle), which would make
// the elimination walk non-terminating.
var ErrCycleDetected = errors.New("topology: silent cycle present, call ToAdvancing first")
