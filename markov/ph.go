package markov

import "github.com/AdrienHorgnies/bcqueue/rng"

// Label identifies which service phase a PH process represents.
type Label string

const (
	// Selection is the "choose up to b transactions" service phase.
	Selection Label = "selection"
	// Mining is the block-mining phase.
	Mining Label = "mining"
)

// PH is a Phase-Type process: a CTMC on m transient
// phases with sub-generator M, terminating by absorption. Absorption
// probabilities are precomputed as absorb[i] = -rowsum(M[i]).
type PH struct {
	StatefulProcess
	M      [][]float64
	Absorb []float64
	Label  Label
}

// NewPH validates M (dimension m) and beta (the stationary/initial vector,
// also length m) and builds a PH with its initial state drawn from beta.
//
// Invariants checked: len(M) == len(beta); M's diagonal <= 0;
// M's off-diagonal entries >= 0; every row of M sums to <= 0 (so
// Absorb[i] >= 0); beta is a valid probability vector.
func NewPH(stream *rng.Stream, M [][]float64, beta []float64, label Label) (*PH, error) {
	m := len(beta)
	if len(M) != m {
		return nil, ErrDimensionMismatch
	}
	absorb := make([]float64, m)
	for i := 0; i < m; i++ {
		if len(M[i]) != m {
			return nil, ErrDimensionMismatch
		}
		var rowsum float64
		for j := 0; j < m; j++ {
			v := M[i][j]
			if i == j {
				if v > rowSumTolerance {
					return nil, ErrDimensionMismatch
				}
			} else if v < -rowSumTolerance {
				return nil, ErrDimensionMismatch
			}
			rowsum += v
		}
		absorb[i] = -rowsum
		if absorb[i] < -rowSumTolerance {
			return nil, ErrDimensionMismatch
		}
		if absorb[i] < 0 {
			absorb[i] = 0
		}
	}

	sp, err := newStatefulProcess(stream, beta)
	if err != nil {
		return nil, err
	}
	return &PH{StatefulProcess: sp, M: M, Absorb: absorb, Label: label}, nil
}

// Dim returns the number of transient phases m.
func (p *PH) Dim() int {
	return len(p.M)
}
