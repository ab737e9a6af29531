package counts

import "errors"

// ErrNoTrainingData indicates EStep was called with zero sequence pairs.
var ErrNoTrainingData = errors.New("counts: no training sequence pairs")

// ErrOptimize wraps a failure from the BFGS M-step optimiser.
var ErrOptimize = errors.New("counts: m-step optimisation failed")
