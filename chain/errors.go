package chain

import "errors"

// ErrNoFeeSource is returned when a simulator is configured with fees
// enabled but no FeeSource was supplied.
var ErrNoFeeSource = errors.New("fees enabled but no fee source configured")
