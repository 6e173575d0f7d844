package queue

// Event names the externally visible event a scheduler's Next returns.
type Event string

const (
	Arrival   Event = "arrival"
	Selection Event = "selection"
	Mining    Event = "mining"
)

// Scheduler produces a stream of time-stamped events. T reports the current
// simulated time; Next advances it and returns the next realized event.
type Scheduler interface {
	T() float64
	Next() (Event, error)
}
