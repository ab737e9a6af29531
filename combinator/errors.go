// SPDX-License-Identifier: omitted (no upstream header to preserve)
package combinator

import "errors"

// ErrShape indicates an operand's shape makes the requested combinator
// ill-defined (e.g. a compose/intersect operand with no states, or an
// intersect operand with a non-empty output alphabet).
var ErrShape = errors.New("combinator: invalid operand shape")

// ErrEmptyUnion indicates take_union was asked to combine zero machines.
var ErrEmptyUnion = errors.New("combinator: union requires at least one operand")
