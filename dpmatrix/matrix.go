package dpmatrix

import "github.com/wfstgo/wfst/tokenseq"

// Matrix holds DP cell scores for every (inputPos, outputPos, state) triple
// within an Envelope, using sr.Zero() as the implicit value for cells
// outside the envelope.
type Matrix struct {
	env       *tokenseq.Envelope
	numStates int
	sr        Semiring
	cells     [][]float64 // cells[o] has length (InEnd[o]-InStart[o])*numStates
}

// NewMatrix allocates a Matrix over env with numStates states per cell,
// initialised to sr.Zero().
// Complexity: O(|envelope| * numStates).
func NewMatrix(env *tokenseq.Envelope, numStates int, sr Semiring) *Matrix {
	m := &Matrix{env: env, numStates: numStates, sr: sr, cells: make([][]float64, len(env.InStart))}
	for o := range m.cells {
		width := env.InEnd[o] - env.InStart[o]
		row := make([]float64, width*numStates)
		zero := sr.Zero()
		for i := range row {
			row[i] = zero
		}
		m.cells[o] = row
	}

	return m
}

// Envelope returns the envelope m is shaped over.
func (m *Matrix) Envelope() *tokenseq.Envelope { return m.env }

func (m *Matrix) offset(i, o, state int) (row []float64, idx int, ok bool) {
	if o < 0 || o >= len(m.cells) || !m.env.Contains(i, o) {
		return nil, 0, false
	}
	local := i - m.env.InStart[o]

	return m.cells[o], local*m.numStates + state, true
}

// Get returns the score at (i, o, state), or sr.Zero() if the cell lies
// outside the envelope.
// Complexity: O(1).
func (m *Matrix) Get(i, o, state int) float64 {
	row, idx, ok := m.offset(i, o, state)
	if !ok {
		return m.sr.Zero()
	}

	return row[idx]
}

// Set overwrites the score at (i, o, state). It is a no-op if the cell lies
// outside the envelope (defensive: callers should only ever address cells
// the envelope admits).
// Complexity: O(1).
func (m *Matrix) Set(i, o, state int, v float64) {
	row, idx, ok := m.offset(i, o, state)
	if !ok {
		return
	}
	row[idx] = v
}

// Accumulate combines v into the existing score at (i, o, state) via the
// matrix's semiring.
// Complexity: O(1).
func (m *Matrix) Accumulate(i, o, state int, v float64) {
	row, idx, ok := m.offset(i, o, state)
	if !ok {
		return
	}
	row[idx] = m.sr.Combine(row[idx], v)
}
