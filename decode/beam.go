package decode

import (
	"math"
	"sort"

	"github.com/wfstgo/wfst/evalmachine"
	"github.com/wfstgo/wfst/tokenseq"
)

// BeamParams bounds the beam search: Width is how many prefixes survive
// each expansion round; Rounds is the number of symbol-extension rounds (a
// hard cap in place of the prefix search's score-crossing termination,
// since a fixed-width beam can keep discovering new candidates
// indefinitely otherwise).
type BeamParams struct {
	Width  int
	Rounds int
}

// BeamSearch is the fixed-width approximation to PrefixSearch: at each
// round every surviving prefix is extended by every input symbol, and only
// the top Width candidates are kept for the next round.
func BeamSearch(em *evalmachine.EvaluatedMachine, inputAlphabet *tokenseq.Alphabet, outSeq []tokenseq.Token, params BeamParams) ([]tokenseq.Token, float64, error) {
	if len(outSeq) == 0 {
		return nil, 0, ErrEmptyOutput
	}
	width, rounds := params.Width, params.Rounds
	if width <= 0 {
		width = 1
	}
	if rounds <= 0 {
		rounds = len(outSeq) + 1
	}

	beam := []*node{newNode(em, outSeq, nil)}
	bestScore := math.Inf(-1)
	var bestPrefix []tokenseq.Token

	for round := 0; round < rounds; round++ {
		var candidates []*node
		for _, n := range beam {
			if v, complete := n.complete(em); complete && v > bestScore {
				bestScore, bestPrefix = v, n.prefix
			}
			for sym := tokenseq.Token(0); int(sym) < inputAlphabet.Size(); sym++ {
				child := append(append([]tokenseq.Token(nil), n.prefix...), sym)
				candidates = append(candidates, newNode(em, outSeq, child))
			}
		}
		if len(candidates) == 0 {
			break
		}
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].score(em) > candidates[j].score(em)
		})
		if len(candidates) > width {
			candidates = candidates[:width]
		}
		beam = candidates
	}

	for _, n := range beam {
		if v, complete := n.complete(em); complete && v > bestScore {
			bestScore, bestPrefix = v, n.prefix
		}
	}

	if bestPrefix == nil {
		return nil, 0, ErrNoCompleteSequence
	}

	return bestPrefix, bestScore, nil
}
