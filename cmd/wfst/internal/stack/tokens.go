package stack

type handler struct {
	takesArg bool
	run      func(e *Engine, arg string) error
}

var table = buildTable()

func lookup(tok string) (handler, bool) {
	h, ok := table[tok]

	return h, ok
}

func buildTable() map[string]handler {
	t := make(map[string]handler)
	add := func(h handler, names ...string) {
		for _, n := range names {
			t[n] = h
		}
	}

	// Constructors.
	add(handler{takesArg: true, run: opLoad}, "--load")
	add(handler{takesArg: true, run: opPreset}, "--preset")
	add(handler{takesArg: true, run: opGenerateChars}, "--generate-chars", "<<")
	add(handler{takesArg: true, run: opRecognizeChars}, "--recognize-chars", ">>")
	add(handler{takesArg: true, run: opGenerateFasta}, "--generate-fasta")
	add(handler{takesArg: true, run: opWeight}, "--weight", "#")
	add(handler{run: opNull}, "--null")

	// Unary.
	add(handler{run: opReverse}, "--reverse")
	add(handler{run: opRevcomp}, "--revcomp", "~")
	add(handler{run: opTranspose}, "--transpose")
	add(handler{run: opZeroOrOne}, "--zero-or-one", "?")
	add(handler{run: opKleeneStar}, "--kleene-star", "*")
	add(handler{run: opKleenePlus}, "--kleene-plus", "+")
	add(handler{takesArg: true, run: opRepeat}, "--repeat")
	add(handler{run: opEliminate}, "--eliminate")
	add(handler{run: opSort}, "--sort")
	add(handler{run: opCondNorm}, "--cond-norm")
	add(handler{run: opJointNorm}, "--joint-norm")
	add(handler{run: opReciprocal}, "--reciprocal")
	add(handler{takesArg: true, run: opWeightInput}, "--weight-input")
	add(handler{takesArg: true, run: opWeightOutput}, "--weight-output")

	// Binary.
	add(handler{run: opCompose}, "--compose", "=>")
	add(handler{run: opConcatenate}, "--concatenate", ".")
	add(handler{run: opIntersect}, "--intersect", "&&")
	add(handler{run: opUnion}, "--union", "||")
	add(handler{run: opLoop}, "--loop", "?+")

	// Grouping.
	add(handler{run: opBegin}, "--begin", "(")
	add(handler{run: opEnd}, "--end", ")")

	// Application.
	add(handler{takesArg: true, run: opSave}, "--save")
	add(handler{takesArg: true, run: opParams}, "--params")
	add(handler{takesArg: true, run: opConstraints}, "--constraints")
	add(handler{takesArg: true, run: opData}, "--data")
	add(handler{run: opTrain}, "--train")
	add(handler{run: opAlign}, "--align")
	add(handler{run: opLoglike}, "--loglike")
	add(handler{run: opCounts}, "--counts")
	add(handler{run: opBeamDecode}, "--beam-decode")
	add(handler{run: opPrefixDecode}, "--prefix-decode")

	return t
}
