package decode

import (
	"math"

	"github.com/emirpasic/gods/v2/trees/binaryheap"

	"github.com/wfstgo/wfst/evalmachine"
	"github.com/wfstgo/wfst/tokenseq"
)

// PrefixBudget bounds an otherwise-unbounded best-first search (the input
// vocabulary times arbitrary depth is infinite in principle).
type PrefixBudget struct {
	MaxExpansions int // <=0 means use defaultMaxExpansions
}

const defaultMaxExpansions = 100000

// PrefixSearch finds the input sequence of maximum marginal log-probability
// for outSeq, by best-first search over input prefixes: a
// priority queue ordered by prefixCell's best-achievable score, expanding
// the most promising prefix one input symbol at a time until the frontier's
// best score falls below the best complete sequence found so far.
func PrefixSearch(em *evalmachine.EvaluatedMachine, inputAlphabet *tokenseq.Alphabet, outSeq []tokenseq.Token, budget PrefixBudget) ([]tokenseq.Token, float64, error) {
	if len(outSeq) == 0 {
		return nil, 0, ErrEmptyOutput
	}
	maxExpansions := budget.MaxExpansions
	if maxExpansions <= 0 {
		maxExpansions = defaultMaxExpansions
	}

	frontier := binaryheap.NewWith(func(a, b *node) int {
		switch sa, sb := a.score(em), b.score(em); {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		default:
			return 0
		}
	})
	frontier.Push(newNode(em, outSeq, nil))

	var bestPrefix []tokenseq.Token
	bestScore := math.Inf(-1)

	for expansions := 0; expansions < maxExpansions; expansions++ {
		top, ok := frontier.Pop()
		if !ok {
			break
		}
		if top.score(em) <= bestScore {
			break
		}
		if v, complete := top.complete(em); complete && v > bestScore {
			bestScore, bestPrefix = v, top.prefix
		}
		for sym := tokenseq.Token(0); int(sym) < inputAlphabet.Size(); sym++ {
			child := append(append([]tokenseq.Token(nil), top.prefix...), sym)
			next := newNode(em, outSeq, child)
			if next.score(em) > bestScore {
				frontier.Push(next)
			}
		}
	}

	if bestPrefix == nil {
		return nil, 0, ErrNoCompleteSequence
	}

	return bestPrefix, bestScore, nil
}
