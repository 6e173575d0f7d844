// Package params loads and validates a directory of one-CSV-per-name
// simulation parameters: an explicit configuration struct filled by named
// converters, followed by an enumerated validation pass.
package params

import "errors"

// ParameterParseError reports a CSV file that could not be parsed as its
// required type.
type ParameterParseError struct {
	Name string
	Err  error
}

func (e *ParameterParseError) Error() string {
	return "parameter " + e.Name + ": " + e.Err.Error()
}

func (e *ParameterParseError) Unwrap() error { return e.Err }

// MissingParameter reports a required name with no corresponding CSV file.
type MissingParameter struct {
	Name string
}

func (e *MissingParameter) Error() string {
	return "missing parameter: " + e.Name
}

// ExtraneousParameter reports a CSV file whose name is not a recognized
// parameter.
type ExtraneousParameter struct {
	Name string
}

func (e *ExtraneousParameter) Error() string {
	return "extraneous parameter: " + e.Name
}

// ErrNoFeeModel is returned when the directory contains neither a ratios
// file nor any of the fee_min/fee_loc/fee_max/fee_scale files, whether or
// not fees are enabled for the run.
var ErrNoFeeModel = errors.New("no fee model: provide either ratios or fee_min/fee_loc/fee_max/fee_scale")

// ErrInvalidRule reports a validation rule failure (dimension mismatch,
// non-positive rate, out-of-order window bounds, bad probability vector).
type ErrInvalidRule struct {
	Rule string
}

func (e *ErrInvalidRule) Error() string {
	return "validation rule failed: " + e.Rule
}

var (
	errNotScalar = errors.New("expected a single-cell CSV")
	errNotVector = errors.New("expected a single-row CSV")
	errNotSquare = errors.New("expected a square CSV")
)
