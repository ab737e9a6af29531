// Package tokenseq provides the token-level view the DP engine works over:
// Token, a per-sequence Alphabet mapping symbols to tokens, SeqPair (an
// input/output pair of named token sequences, plus an optional alignment),
// and Envelope (the connected input-range-per-output-position shape the DP
// matrix is packed into). Validation follows tsp.types.go's sentinel-error,
// explicit-invariant idiom.
package tokenseq
