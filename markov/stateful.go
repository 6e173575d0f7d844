package markov

import "github.com/AdrienHorgnies/bcqueue/rng"

// StatefulProcess holds a current integer state drawn from a stationary
// distribution, and can re-sample that state on demand.
type StatefulProcess struct {
	stream *rng.Stream
	dist   []float64
	state  int
}

// newStatefulProcess validates dist (must sum to 1 within tolerance) and
// draws the initial state from it.
func newStatefulProcess(stream *rng.Stream, dist []float64) (StatefulProcess, error) {
	if err := rng.CheckDistribution(dist); err != nil {
		return StatefulProcess{}, ErrInvalidDistribution
	}
	state, err := stream.Choice(dist)
	if err != nil {
		return StatefulProcess{}, err
	}
	return StatefulProcess{stream: stream, dist: dist, state: state}, nil
}

// State returns the current state index.
func (p *StatefulProcess) State() int {
	return p.state
}

// SetState forcibly sets the current state. Used by composing schedulers
// when a hidden transition changes phase without absorption.
func (p *StatefulProcess) SetState(i int) {
	p.state = i
}

// Reset re-samples the state from the stationary distribution.
func (p *StatefulProcess) Reset() error {
	state, err := p.stream.Choice(p.dist)
	if err != nil {
		return err
	}
	p.state = state
	return nil
}
