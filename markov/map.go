package markov

import "github.com/AdrienHorgnies/bcqueue/rng"

// rowSumTolerance bounds the allowed deviation of a generator row's sum from
// zero, to absorb floating point error in hand-authored or CSV-parsed
// matrices.
const rowSumTolerance = 1e-6

// MAP is a Markovian Arrival Process: a CTMC on n
// phases with generator C+D, where transitions via D coincide with arrival
// emissions. MAP answers queries about the current row's rates; it does not
// generate events on its own — the composing scheduler (package queue)
// advances it.
type MAP struct {
	StatefulProcess
	C, D [][]float64
}

// NewMAP validates C, D and omega (the stationary vector) and builds a MAP
// with its initial state drawn from omega.
//
// Invariants checked: len(C) == len(D) == len(omega); for every
// row i, (C+D)[i][i] <= 0; off-diagonal entries of C+D are >= 0; every row of
// C+D sums to ~0; omega is a valid probability vector.
func NewMAP(stream *rng.Stream, C, D [][]float64, omega []float64) (*MAP, error) {
	n := len(omega)
	if len(C) != n || len(D) != n {
		return nil, ErrDimensionMismatch
	}
	for i := 0; i < n; i++ {
		if len(C[i]) != n || len(D[i]) != n {
			return nil, ErrDimensionMismatch
		}
		var rowsum float64
		for j := 0; j < n; j++ {
			g := C[i][j] + D[i][j]
			if i == j {
				if g > rowSumTolerance {
					return nil, ErrDimensionMismatch
				}
			} else if g < -rowSumTolerance {
				return nil, ErrDimensionMismatch
			}
			rowsum += g
		}
		if rowsum > rowSumTolerance || rowsum < -rowSumTolerance {
			return nil, ErrDimensionMismatch
		}
	}

	sp, err := newStatefulProcess(stream, omega)
	if err != nil {
		return nil, err
	}
	return &MAP{StatefulProcess: sp, C: C, D: D}, nil
}

// Dim returns the number of phases n.
func (m *MAP) Dim() int {
	return len(m.C)
}
