package wfstio

import "errors"

// ErrSchema indicates JSON that is malformed or violates the documented
// shape.
var ErrSchema = errors.New("wfstio: malformed or non-conforming JSON")

// ErrReference indicates a "to" field names a state id that was never
// declared.
var ErrReference = errors.New("wfstio: unresolved state reference")
