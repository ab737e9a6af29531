package dp

import "errors"

// ErrDisagreement indicates Forward and Backward log-likelihoods diverge by
// more than the caller's tolerance.
var ErrDisagreement = errors.New("dp: forward/backward log-likelihood disagreement")
