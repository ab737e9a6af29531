// Package dpmatrix provides the semiring-generic DP cell storage and
// traceback driver shared by Forward, Backward and Viterbi:
// cells are packed within a tokenseq.Envelope so memory scales with
// |envelope| x |states| rather than the full input x output grid. Matrix's
// fill-and-backtrace shape is grounded on dtw.DTW's row-storage/backtrack
// split; the underlying array layout follows matrix/dense.go.
package dpmatrix
