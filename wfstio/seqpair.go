package wfstio

import (
	"encoding/json"
	"fmt"

	"github.com/wfstgo/wfst/tokenseq"
)

type namedSeqJSON struct {
	Name string   `json:"name,omitempty"`
	Seq  []string `json:"seq"`
}

type alignColumnJSON [2]*string // [in, out]; nil element means silent

type seqPairJSON struct {
	Input     namedSeqJSON      `json:"input"`
	Output    namedSeqJSON      `json:"output"`
	Alignment []alignColumnJSON `json:"alignment,omitempty"`
}

// DecodeSeqPair parses the SeqPair JSON shape, tokenising
// input/output symbols against the supplied alphabets.
func DecodeSeqPair(raw json.RawMessage, inAlpha, outAlpha *tokenseq.Alphabet) (tokenseq.SeqPair, error) {
	var doc seqPairJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return tokenseq.SeqPair{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	inSeq, err := tokenizeAll(inAlpha, doc.Input.Seq)
	if err != nil {
		return tokenseq.SeqPair{}, err
	}
	outSeq, err := tokenizeAll(outAlpha, doc.Output.Seq)
	if err != nil {
		return tokenseq.SeqPair{}, err
	}

	var path tokenseq.AlignPath
	if len(doc.Alignment) > 0 {
		path = make(tokenseq.AlignPath, len(doc.Alignment))
		for i, col := range doc.Alignment {
			in, out := tokenseq.Silent, tokenseq.Silent
			if col[0] != nil {
				in, err = inAlpha.Token(*col[0])
				if err != nil {
					return tokenseq.SeqPair{}, fmt.Errorf("%w: %v", ErrReference, err)
				}
			}
			if col[1] != nil {
				out, err = outAlpha.Token(*col[1])
				if err != nil {
					return tokenseq.SeqPair{}, fmt.Errorf("%w: %v", ErrReference, err)
				}
			}
			path[i] = tokenseq.AlignColumn{In: in, Out: out}
		}
	}

	return tokenseq.SeqPair{
		Input:     tokenseq.NamedSeq{Name: doc.Input.Name, Seq: inSeq},
		Output:    tokenseq.NamedSeq{Name: doc.Output.Name, Seq: outSeq},
		Alignment: path,
	}, nil
}

func tokenizeAll(alpha *tokenseq.Alphabet, syms []string) ([]tokenseq.Token, error) {
	seq := make([]tokenseq.Token, len(syms))
	for i, s := range syms {
		tok, err := alpha.Token(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReference, err)
		}
		seq[i] = tok
	}

	return seq, nil
}

// EncodeSeqPair renders pair as the SeqPair JSON shape, rendering tokens
// back to their symbols via inAlpha/outAlpha.
func EncodeSeqPair(pair tokenseq.SeqPair, inAlpha, outAlpha *tokenseq.Alphabet) (json.RawMessage, error) {
	doc := seqPairJSON{
		Input:  namedSeqJSON{Name: pair.Input.Name, Seq: symbolsOf(inAlpha, pair.Input.Seq)},
		Output: namedSeqJSON{Name: pair.Output.Name, Seq: symbolsOf(outAlpha, pair.Output.Seq)},
	}
	if len(pair.Alignment) > 0 {
		doc.Alignment = make([]alignColumnJSON, len(pair.Alignment))
		for i, col := range pair.Alignment {
			var cj alignColumnJSON
			if col.In != tokenseq.Silent {
				s := inAlpha.Symbol(col.In)
				cj[0] = &s
			}
			if col.Out != tokenseq.Silent {
				s := outAlpha.Symbol(col.Out)
				cj[1] = &s
			}
			doc.Alignment[i] = cj
		}
	}

	return json.Marshal(doc)
}

func symbolsOf(alpha *tokenseq.Alphabet, seq []tokenseq.Token) []string {
	syms := make([]string, len(seq))
	for i, t := range seq {
		syms[i] = alpha.Symbol(t)
	}

	return syms
}
