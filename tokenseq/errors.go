package tokenseq

import "errors"

// Validation / input-shape errors.
var (
	// ErrEmptyAlphabet indicates NewAlphabet was given zero symbols.
	ErrEmptyAlphabet = errors.New("tokenseq: empty alphabet")

	// ErrUnknownSymbol indicates Token was asked to map a symbol absent from
	// the alphabet.
	ErrUnknownSymbol = errors.New("tokenseq: unknown symbol")

	// ErrBadEnvelope indicates an Envelope fails its monotonicity or
	// connectivity invariants.
	ErrBadEnvelope = errors.New("tokenseq: malformed envelope")

	// ErrLengthMismatch indicates an Envelope's length doesn't match the
	// SeqPair's output length it is meant to cover.
	ErrLengthMismatch = errors.New("tokenseq: envelope/sequence length mismatch")
)
