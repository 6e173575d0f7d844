// Package chain implements the blockchain queue simulator: it consumes
// events from a queue.Scheduler, maintains the mempool, assembles blocks, and
// records per-transaction and per-block timestamps inside a warm-up/recording
// /cool-down window.
package chain

// Transaction is created on every arrival event and carries the timestamps
// of its lifecycle. Selection and Mining are nil until set.
type Transaction struct {
	Fee       float64
	Arrival   float64
	Selection *float64
	Mining    *float64
}

// Block is created at a selection event; Mining is set at the subsequent
// mining event.
type Block struct {
	Selection float64
	Size      int
	Mining    *float64
}

// RoomState samples the mempool size immediately after a recorded arrival or
// selection event.
type RoomState struct {
	T    float64
	Size int
}

func ptr(v float64) *float64 {
	return &v
}
