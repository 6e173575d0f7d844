package queue

import (
	"github.com/AdrienHorgnies/bcqueue/markov"
	"github.com/AdrienHorgnies/bcqueue/rng"
)

// MapDoublePH jointly evolves a MAP and one of two alternating PH processes
// (selection and mining) using a competing-risk next-jump construction, and
// reports the realized event each time the jump is externally visible (an
// arrival or an absorption).
type MapDoublePH struct {
	t        float64
	m        *markov.MAP
	active   *markov.PH
	inactive *markov.PH
	stream   *rng.Stream

	// weights caches the normalized weight vector for a given (active
	// label, MAP state, active PH state) triple. The cache is safe without
	// invalidation: label disambiguates which PH's M matrix is in play (so
	// a swap never collides with a stale entry for the other PH), and C, D
	// and M never change after construction.
	weights map[weightKey][]float64
}

type weightKey struct {
	label    markov.Label
	mapState int
	phState  int
}

// NewMapDoublePH builds a scheduler over MAP (C, D, omega) and two PH
// processes: S/beta for selection and T/alpha for mining. The simulation
// begins with selection active.
func NewMapDoublePH(stream *rng.Stream, mapStream, selStream, mineStream *rng.Stream,
	C, D [][]float64, omega []float64,
	S [][]float64, beta []float64,
	T [][]float64, alpha []float64) (*MapDoublePH, error) {

	m, err := markov.NewMAP(mapStream, C, D, omega)
	if err != nil {
		return nil, err
	}
	sel, err := markov.NewPH(selStream, S, beta, markov.Selection)
	if err != nil {
		return nil, err
	}
	mine, err := markov.NewPH(mineStream, T, alpha, markov.Mining)
	if err != nil {
		return nil, err
	}

	return &MapDoublePH{
		m:        m,
		active:   sel,
		inactive: mine,
		stream:   stream,
		weights:  make(map[weightKey][]float64),
	}, nil
}

// T returns the current simulated time.
func (s *MapDoublePH) T() float64 {
	return s.t
}

// Next advances the joint MAP/PH chain until an externally visible event
// (arrival, selection or mining) is produced. Hidden transitions are looped
// over rather than recursed on, so stack growth stays bounded no matter how
// many of them occur between visible events.
func (s *MapDoublePH) Next() (Event, error) {
	n := s.m.Dim()
	for {
		i, k := s.m.State(), s.active.State()
		rate := -(s.m.C[i][i]) - s.active.M[k][k]
		if rate == 0 {
			return "", ErrZeroRate
		}

		dt := s.stream.Exponential(1 / rate)
		s.t += dt

		weights, err := s.weightVector(i, k, n)
		if err != nil {
			return "", err
		}

		j, err := s.stream.Choice(weights)
		if err != nil {
			return "", err
		}

		m := s.active.Dim()
		switch {
		case j < n:
			s.m.SetState(j)
			continue
		case j < 2*n:
			s.m.SetState(j - n)
			return Arrival, nil
		case j < 2*n+m:
			s.active.SetState(j - (n + n))
			continue
		default:
			event := Event(s.active.Label)
			if err := s.active.Reset(); err != nil {
				return "", err
			}
			s.active, s.inactive = s.inactive, s.active
			return event, nil
		}
	}
}

// weightVector returns the normalized probability vector for (active label,
// mapState i, ph state k), computing and caching it on first use.
func (s *MapDoublePH) weightVector(i, k, n int) ([]float64, error) {
	key := weightKey{label: s.active.Label, mapState: i, phState: k}
	if w, ok := s.weights[key]; ok {
		return w, nil
	}

	m := s.active.Dim()
	w := make([]float64, n+n+m+1)

	copy(w[0:n], s.m.C[i])
	copy(w[n:2*n], s.m.D[i])
	copy(w[2*n:2*n+m], s.active.M[k])
	w[2*n+m] = s.active.Absorb[k]

	var sum float64
	for idx, v := range w {
		if v < 0 {
			w[idx] = 0
			v = 0
		}
		sum += v
	}
	if sum == 0 {
		return nil, ErrDegenerateGenerator
	}
	for idx := range w {
		w[idx] /= sum
	}

	s.weights[key] = w
	return w, nil
}
