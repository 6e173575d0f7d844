package chain

import "github.com/AdrienHorgnies/bcqueue/rng"

// FeeSource samples the fee of a newly arriving transaction.
type FeeSource interface {
	Sample(stream *rng.Stream) float64
}

// RatioFeeSource draws a fee from a small discrete set of fee/weight ratios
// with probability proportional to each ratio's weight, via a cumulative
// weight index and a binary search.
type RatioFeeSource struct {
	ratios []float64
	index  []float64 // cumulative, normalized weights
}

// NewRatioFeeSource builds a fee source over ratios, each drawn with
// probability proportional to weights[i]. len(ratios) must equal
// len(weights) and both must be non-empty.
func NewRatioFeeSource(ratios []float64, weights []float64) *RatioFeeSource {
	index := make([]float64, len(weights))
	var total float64
	for i, w := range weights {
		total += w
		index[i] = total
	}
	for i := range index {
		index[i] /= total
	}
	return &RatioFeeSource{ratios: ratios, index: index}
}

func (s *RatioFeeSource) Sample(stream *rng.Stream) float64 {
	u := stream.Uniform()
	pos := searchFloat64s(s.index, u)
	if pos >= len(s.ratios) {
		pos = len(s.ratios) - 1
	}
	return s.ratios[pos]
}

// searchFloat64s returns the smallest index i such that a[i] >= x.
func searchFloat64s(a []float64, x float64) int {
	i, j := 0, len(a)
	for i < j {
		h := i + (j-i)/2
		if a[h] < x {
			i = h + 1
		} else {
			j = h
		}
	}
	return i
}

// TruncatedNormalFeeSource draws fees from a Normal(loc, scale) distribution
// truncated to [min, max] via rejection sampling.
type TruncatedNormalFeeSource struct {
	min, loc, max, scale float64
}

// NewTruncatedNormalFeeSource builds a fee source; min <= loc <= max is
// expected but not enforced, here or by package params.
func NewTruncatedNormalFeeSource(min, loc, max, scale float64) *TruncatedNormalFeeSource {
	return &TruncatedNormalFeeSource{min: min, loc: loc, max: max, scale: scale}
}

func (s *TruncatedNormalFeeSource) Sample(stream *rng.Stream) float64 {
	for {
		v := stream.Normal(s.loc, s.scale)
		if v >= s.min && v <= s.max {
			return v
		}
	}
}
