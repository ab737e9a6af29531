package tokenseq

// Envelope restricts the DP matrix to a connected band of input positions
// per output position: for output index o, only input positions in
// [InStart[o], InEnd[o]) are allocated; cells outside read as -Inf
//.
type Envelope struct {
	InStart []int // length outLen+1, non-decreasing
	InEnd   []int // length outLen+1, non-decreasing
}

// NewFullEnvelope returns the envelope covering every (input, output) cell:
// InStart[o]=0, InEnd[o]=inLen+1 for every o.
// Complexity: O(outLen).
func NewFullEnvelope(inLen, outLen int) *Envelope {
	env := &Envelope{InStart: make([]int, outLen+1), InEnd: make([]int, outLen+1)}
	for o := range env.InEnd {
		env.InEnd[o] = inLen + 1
	}

	return env
}

// NewBandEnvelope builds an envelope covering the given alignment path
// widened by band cells on either side of the diagonal it traces, clamped
// to [0, inLen+1].
// Complexity: O(len(path) + outLen).
func NewBandEnvelope(path AlignPath, inLen, outLen, band int) (*Envelope, error) {
	env := &Envelope{InStart: make([]int, outLen+1), InEnd: make([]int, outLen+1)}
	for o := range env.InStart {
		env.InStart[o] = inLen + 1
		env.InEnd[o] = -1
	}

	i, o := 0, 0
	widen := func(oo, ii int) {
		lo, hi := ii-band, ii+band+1
		if lo < 0 {
			lo = 0
		}
		if hi > inLen+1 {
			hi = inLen + 1
		}
		if lo < env.InStart[oo] {
			env.InStart[oo] = lo
		}
		if hi > env.InEnd[oo] {
			env.InEnd[oo] = hi
		}
	}
	widen(0, 0)
	for _, col := range path {
		if col.In != Silent {
			i++
		}
		if col.Out != Silent {
			o++
		}
		widen(o, i)
	}
	widen(outLen, inLen)

	// Fill any output position the path skipped by widening from its
	// nearest already-widened neighbour, so InStart/InEnd stay fully
	// populated and monotone.
	for oIdx := 1; oIdx <= outLen; oIdx++ {
		if env.InEnd[oIdx] < 0 {
			env.InStart[oIdx] = env.InStart[oIdx-1]
			env.InEnd[oIdx] = env.InEnd[oIdx-1]
		}
	}

	if err := env.Validate(inLen, outLen); err != nil {
		return nil, err
	}

	return env, nil
}

// Contains reports whether (i, o) falls within the envelope.
func (e *Envelope) Contains(i, o int) bool {
	if o < 0 || o >= len(e.InStart) {
		return false
	}

	return i >= e.InStart[o] && i < e.InEnd[o]
}

// Validate checks the invariants: InStart/InEnd have length outLen+1, both
// are non-decreasing, InStart[0]=0, InEnd[outLen]=inLen+1, and consecutive
// output columns are connected: read as closed ranges [InStart, InEnd],
// they share at least one cell.
// Complexity: O(outLen).
func (e *Envelope) Validate(inLen, outLen int) error {
	if len(e.InStart) != outLen+1 || len(e.InEnd) != outLen+1 {
		return ErrLengthMismatch
	}
	if e.InStart[0] != 0 {
		return ErrBadEnvelope
	}
	if e.InEnd[outLen] != inLen+1 {
		return ErrBadEnvelope
	}
	for o := 0; o <= outLen; o++ {
		if e.InStart[o] > e.InEnd[o] {
			return ErrBadEnvelope
		}
		if o > 0 {
			if e.InStart[o] < e.InStart[o-1] || e.InEnd[o] < e.InEnd[o-1] {
				return ErrBadEnvelope
			}
			// Closed ranges share a cell: max(start) <= min(end).
			lo := e.InStart[o]
			if e.InStart[o-1] > lo {
				lo = e.InStart[o-1]
			}
			hi := e.InEnd[o]
			if e.InEnd[o-1] < hi {
				hi = e.InEnd[o-1]
			}
			if lo > hi {
				return ErrBadEnvelope
			}
		}
	}

	return nil
}
