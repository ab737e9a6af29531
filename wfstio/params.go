package wfstio

import (
	"encoding/json"
	"fmt"

	"github.com/wfstgo/wfst/param"
	"github.com/wfstgo/wfst/weight"
)

// DecodeParams parses the flat parameters JSON object: name -> numeric value or expression.
func DecodeParams(ctx *weight.Context, raw json.RawMessage) (*param.Defs, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	defs := param.NewDefs()
	for name, v := range fields {
		e, err := weight.FromJSON(ctx, v)
		if err != nil {
			return nil, err
		}
		defs.Set(name, e)
	}

	return defs, nil
}

// EncodeParams renders defs as the flat parameters JSON object, with keys
// in sorted order (encoding/json sorts map keys).
func EncodeParams(ctx *weight.Context, defs *param.Defs) (json.RawMessage, error) {
	fields := make(map[string]json.RawMessage, defs.Len())
	for _, name := range defs.Names() {
		e, _ := defs.Get(name)
		raw, err := weight.ToJSON(ctx, e)
		if err != nil {
			return nil, err
		}
		fields[name] = raw
	}

	return json.Marshal(fields)
}
