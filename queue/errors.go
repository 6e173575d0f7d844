// Package queue implements the two competing-risk event schedulers: the
// MAP+double-PH scheduler and its exponential analogue, the M+double-M
// scheduler. Both expose the same small Scheduler interface to package
// chain's queue simulator.
package queue

import "errors"

// ErrDegenerateGenerator is returned when every entry of a scheduler's
// weight vector clamps to zero, so no transition can be chosen.
var ErrDegenerateGenerator = errors.New("degenerate generator: no outgoing transition has positive weight")

// ErrZeroRate is returned when the combined diagonal rate of the current
// joint state is zero, so the time to the next jump would be undefined.
var ErrZeroRate = errors.New("zero rate: current state has no outgoing transition")
