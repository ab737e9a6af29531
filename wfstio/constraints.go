package wfstio

import (
	"encoding/json"
	"fmt"

	"github.com/wfstgo/wfst/param"
)

type constraintsJSON struct {
	Norm [][]string `json:"norm,omitempty"`
	Rate []string   `json:"rate,omitempty"`
	Prob []string   `json:"prob,omitempty"`
}

// probComplementName is the synthetic second member of the 2-element norm
// group a lone "prob" entry is lowered into.
func probComplementName(name string) string { return "__complement_" + name }

// DecodeConstraints parses the constraints JSON shape. A
// "prob" entry names a single parameter free to range over (0,1); since
// param.Reparam treats a singleton norm group as the constant 1 (there is
// no free variable to size a 1-element simplex), each "prob" name is
// lowered into a 2-element norm group paired with a synthetic complement
// parameter that no transition ever references.
func DecodeConstraints(raw json.RawMessage) (*param.Constraints, error) {
	var doc constraintsJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	cons := param.NewConstraints()
	cons.Norm = append(cons.Norm, doc.Norm...)
	cons.Rate = append(cons.Rate, doc.Rate...)
	for _, name := range doc.Prob {
		cons.Norm = append(cons.Norm, []string{name, probComplementName(name)})
	}
	if err := cons.Validate(); err != nil {
		return nil, err
	}

	return cons, nil
}

// EncodeConstraints renders cons as the constraints JSON shape. Norm groups
// introduced by a "prob" entry during decoding are not reconstructed (the
// synthetic complement name is lost once merged into Norm); they round-trip
// as ordinary 2-element norm groups instead.
func EncodeConstraints(cons *param.Constraints) (json.RawMessage, error) {
	return json.Marshal(constraintsJSON{Norm: cons.Norm, Rate: cons.Rate})
}
