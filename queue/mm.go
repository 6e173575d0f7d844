package queue

import (
	"math"

	"github.com/AdrienHorgnies/bcqueue/rng"
)

// MDoubleM is the exponential analogue of MapDoublePH, with three competing
// exponential clocks (arrival, selection, mining) tracked in a planning
// table. Selection and mining are mutually exclusive: exactly one of them is
// pending (the other is +Inf) at any time.
type MDoubleM struct {
	t float64

	lambda, mu1, mu2 float64

	arrivalStream, selectionStream, miningStream *rng.Stream

	arrival, selection, mining float64
}

// NewMDoubleM builds a scheduler with mean inter-arrival time lambda, mean
// selection duration mu1 and mean mining duration mu2. Selection starts
// scheduled and mining starts inactive (+Inf), so the server begins by
// choosing a block.
func NewMDoubleM(arrivalStream, selectionStream, miningStream *rng.Stream, lambda, mu1, mu2 float64) *MDoubleM {
	s := &MDoubleM{
		lambda:          lambda,
		mu1:             mu1,
		mu2:             mu2,
		arrivalStream:   arrivalStream,
		selectionStream: selectionStream,
		miningStream:    miningStream,
		mining:          math.Inf(1),
	}
	s.arrival = s.nextArrival()
	s.selection = s.nextSelection()
	return s
}

// T returns the current simulated time.
func (s *MDoubleM) T() float64 {
	return s.t
}

func (s *MDoubleM) nextArrival() float64 {
	return s.t + s.arrivalStream.Exponential(s.lambda)
}

func (s *MDoubleM) nextSelection() float64 {
	return s.t + s.selectionStream.Exponential(s.mu1)
}

func (s *MDoubleM) nextMining() float64 {
	return s.t + s.miningStream.Exponential(s.mu2)
}

// Next advances t to the earliest pending event and returns its name. Ties
// (measure zero under continuous distributions) are broken by a fixed
// priority order (arrival, selection, mining) rather than map iteration,
// which in Go is randomized and would break replay reproducibility.
func (s *MDoubleM) Next() (Event, error) {
	event, when := s.earliest()
	s.t = when

	switch event {
	case Arrival:
		s.arrival = s.nextArrival()
	case Selection:
		s.selection = math.Inf(1)
		s.mining = s.nextMining()
	case Mining:
		s.mining = math.Inf(1)
		s.selection = s.nextSelection()
	}
	return event, nil
}

func (s *MDoubleM) earliest() (Event, float64) {
	event, when := Arrival, s.arrival
	if s.selection < when {
		event, when = Selection, s.selection
	}
	if s.mining < when {
		event, when = Mining, s.mining
	}
	return event, when
}
