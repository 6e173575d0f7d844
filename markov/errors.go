// Package markov implements the stateful process, MAP and PH base types:
// small continuous-time Markov building blocks that the queue package
// composes into schedulers.
package markov

import (
	"errors"

	"github.com/AdrienHorgnies/bcqueue/rng"
)

// ErrInvalidDistribution is returned when a stationary probability vector
// does not sum to 1 within tolerance. It is the same sentinel the rng
// package uses for Choice, since the failure mode is identical.
var ErrInvalidDistribution = rng.ErrInvalidDistribution

// ErrDimensionMismatch is returned when matrix/vector sizes disagree, e.g. a
// MAP's C and D matrices have different dimensions.
var ErrDimensionMismatch = errors.New("dimension mismatch")
