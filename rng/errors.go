package rng

import "errors"

// ErrInvalidDistribution is returned when a probability vector does not sum
// to 1 within tolerance, or contains a negative entry.
var ErrInvalidDistribution = errors.New("invalid distribution: probabilities must be non-negative and sum to 1")
