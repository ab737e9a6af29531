package param

import (
	"errors"

	"github.com/wfstgo/wfst/weight"
)

// Sentinel errors for the param package.
var (
	// ErrUnknownParam indicates an operation referenced a name absent from
	// a Defs.
	ErrUnknownParam = errors.New("param: unknown parameter")

	// ErrEmptyGroup indicates a normalisation group with zero members.
	ErrEmptyGroup = errors.New("param: empty normalisation group")

	// ErrDuplicateInGroup indicates the same parameter name appears twice
	// within one normalisation group, or across groups/rate constraints.
	ErrDuplicateInGroup = errors.New("param: duplicate parameter across constraints")
)

// Defs is an ordered name -> weight.Expr environment. The zero value is not
// usable; construct with NewDefs.
type Defs struct {
	order []string
	m     map[string]weight.Expr
}

// NewDefs returns an empty, ready-to-use Defs.
// Complexity: O(1).
func NewDefs() *Defs {
	return &Defs{m: make(map[string]weight.Expr)}
}

// Set binds name to e, appending name to the iteration order the first time
// it is seen and overwriting the binding (in place) on subsequent calls.
// Complexity: O(1) amortized.
func (d *Defs) Set(name string, e weight.Expr) {
	if _, exists := d.m[name]; !exists {
		d.order = append(d.order, name)
	}
	d.m[name] = e
}

// Get returns the Expr bound to name.
// Complexity: O(1).
func (d *Defs) Get(name string) (weight.Expr, bool) {
	e, ok := d.m[name]

	return e, ok
}

// Resolve implements weight.Resolver.
func (d *Defs) Resolve(name string) (weight.Expr, bool) { return d.Get(name) }

// Names returns the bound parameter names in insertion order.
// Complexity: O(1) (returns the backing slice's length; callers must not
// mutate the returned slice).
func (d *Defs) Names() []string { return d.order }

// Len returns the number of bound names.
func (d *Defs) Len() int { return len(d.order) }

// Clone returns a shallow copy (Exprs are immutable, so sharing them across
// the clone is safe).
func (d *Defs) Clone() *Defs {
	out := NewDefs()
	out.order = append([]string(nil), d.order...)
	out.m = make(map[string]weight.Expr, len(d.m))
	for k, v := range d.m {
		out.m[k] = v
	}

	return out
}

// Constraints holds the two constraint collections: probability-simplex
// normalisation groups and strictly-positive rate parameters.
type Constraints struct {
	// Norm is a list of simplex groups; members of each inner slice must
	// sum to 1 and be individually >= 0.
	Norm [][]string
	// Rate lists parameters constrained to be strictly positive.
	Rate []string
}

// NewConstraints returns an empty Constraints value (no constraints).
func NewConstraints() *Constraints {
	return &Constraints{}
}

// Validate checks structural well-formedness: no empty groups, and no
// parameter name appearing in more than one constraint (two norm groups, or
// a norm group and the rate list), since that would over-determine the
// reparameterisation in §4.4.
// Complexity: O(total number of constrained names).
func (c *Constraints) Validate() error {
	seen := make(map[string]bool)
	for _, group := range c.Norm {
		if len(group) == 0 {
			return ErrEmptyGroup
		}
		for _, name := range group {
			if seen[name] {
				return ErrDuplicateInGroup
			}
			seen[name] = true
		}
	}
	for _, name := range c.Rate {
		if seen[name] {
			return ErrDuplicateInGroup
		}
		seen[name] = true
	}

	return nil
}

// Constrained reports whether name is governed by any constraint.
func (c *Constraints) Constrained(name string) bool {
	for _, group := range c.Norm {
		for _, n := range group {
			if n == name {
				return true
			}
		}
	}
	for _, n := range c.Rate {
		if n == name {
			return true
		}
	}

	return false
}
