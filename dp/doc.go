// Package dp fills Forward, Backward, and Viterbi matrices over an
// EvaluatedMachine and a sequence pair, reports log-likelihoods, and
// accumulates Forward-Backward expected transition counts for the EM
// fitter.
//
// Cells are addressed (inputPos, outputPos, state) and filled in the fixed
// order the machine's advancing property demands: output position outer,
// input position inner, state index innermost (increasing for Forward,
// decreasing for Backward).
package dp
