package batch

import "errors"

// ErrStopped is returned for a replication that never started because Stop
// was called first.
var ErrStopped = errors.New("batch: stopped before replication started")
