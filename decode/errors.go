package decode

import "errors"

// ErrNoCompleteSequence is returned when a search exhausts its budget
// without ever reaching a prefix whose seqCell accounts for the full
// output sequence.
var ErrNoCompleteSequence = errors.New("decode: no complete input sequence found")

// ErrEmptyOutput is returned when the target output sequence is empty;
// decoding an empty output is not a meaningful search.
var ErrEmptyOutput = errors.New("decode: empty output sequence")
