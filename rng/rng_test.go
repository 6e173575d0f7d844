package rng

import (
	"math"
	"testing"
)

func TestSpawnIndependentAndReproducible(t *testing.T) {
	f1 := NewFacade(42)
	s1 := f1.Spawn(3)

	f2 := NewFacade(42)
	s2 := f2.Spawn(3)

	for i := range s1 {
		a := s1[i].Uniform()
		b := s2[i].Uniform()
		if a != b {
			t.Fatalf("stream %d: same seed produced different draws: %v != %v", i, a, b)
		}
	}
}

func TestSpawnStreamsDiffer(t *testing.T) {
	f := NewFacade(7)
	streams := f.Spawn(4)
	seen := make(map[float64]bool)
	for _, s := range streams {
		u := s.Uniform()
		if seen[u] {
			t.Fatalf("two independent streams produced the identical draw %v", u)
		}
		seen[u] = true
	}
}

func TestExponentialUsesMean(t *testing.T) {
	f := NewFacade(1)
	s := f.Spawn(1)[0]

	const mean = 10.0
	const n = 200000
	var sum float64
	for i := 0; i < n; i++ {
		sum += s.Exponential(mean)
	}
	got := sum / n
	if math.Abs(got-mean)/mean > 0.05 {
		t.Fatalf("mean exponential draw = %v, want close to %v", got, mean)
	}
}

func TestChoiceRejectsBadDistribution(t *testing.T) {
	f := NewFacade(1)
	s := f.Spawn(1)[0]

	if _, err := s.Choice([]float64{0.5, 0.6}); err != ErrInvalidDistribution {
		t.Fatalf("expected ErrInvalidDistribution, got %v", err)
	}
	if _, err := s.Choice([]float64{0.5, -0.5, 1}); err != ErrInvalidDistribution {
		t.Fatalf("expected ErrInvalidDistribution for negative weight, got %v", err)
	}
}

func TestChoiceDistributionWithinTolerance(t *testing.T) {
	f := NewFacade(1)
	s := f.Spawn(1)[0]

	// Sums to 0.9999999999999999 in float64: 1 only within tolerance.
	p := []float64{0.7, 0.2, 0.1}
	if _, err := s.Choice(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestChoiceRespectsWeights(t *testing.T) {
	f := NewFacade(99)
	s := f.Spawn(1)[0]

	p := []float64{0, 1, 0}
	for i := 0; i < 100; i++ {
		idx, err := s.Choice(p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if idx != 1 {
			t.Fatalf("Choice picked index %d, want 1 (only nonzero weight)", idx)
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	f := NewFacade(3)
	s := f.Spawn(1)[0]

	xs := []int{0, 1, 2, 3, 4, 5, 6, 7}
	orig := append([]int(nil), xs...)
	s.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })

	seen := make(map[int]bool)
	for _, x := range xs {
		seen[x] = true
	}
	for _, x := range orig {
		if !seen[x] {
			t.Fatalf("shuffle lost element %d", x)
		}
	}
}
