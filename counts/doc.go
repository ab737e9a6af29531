// Package counts implements the EM parameter fitter:
// the E-step accumulates expected per-transition counts across a training
// set via dp.Forward/dp.Backward, and the M-step assembles the
// counts-weighted log-likelihood as a symbolic weight.Expr, reparameterised
// onto an unconstrained domain by param.Reparam, and maximises it with
// gonum's BFGS.
package counts
