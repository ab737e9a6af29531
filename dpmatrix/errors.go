package dpmatrix

import "errors"

// ErrNumeric indicates a traceback was attempted from a cell with no finite
// incoming score.
var ErrNumeric = errors.New("dpmatrix: no finite path into cell")
