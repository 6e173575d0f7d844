package queue

import (
	"math"
	"testing"

	"github.com/AdrienHorgnies/bcqueue/rng"
)

func newTestScheduler(t *testing.T) *MapDoublePH {
	t.Helper()
	f := rng.NewFacade(7)
	streams := f.Spawn(4)

	C := [][]float64{{-1.3, 0.3}, {0.5, -1.5}}
	D := [][]float64{{0.05, 0.95}, {0.15, 0.85}}
	omega := []float64{0.3, 0.7}

	S := [][]float64{{-0.1, 0.08}, {0.06, -0.1}}
	beta := []float64{0.2, 0.8}

	T := [][]float64{{-0.001, 0}, {0, -0.001}}
	alpha := []float64{0.1, 0.9}

	sched, err := NewMapDoublePH(streams[0], streams[1], streams[2], streams[3],
		C, D, omega, S, beta, T, alpha)
	if err != nil {
		t.Fatalf("NewMapDoublePH: %v", err)
	}
	return sched
}

func normalize(w []float64) []float64 {
	out := make([]float64, len(w))
	var sum float64
	for _, v := range w {
		sum += v
	}
	for i, v := range w {
		out[i] = v / sum
	}
	return out
}

func assertClose(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-10 {
			t.Fatalf("index %d: got %v, want %v (full got=%v want=%v)", i, got[i], want[i], got, want)
		}
	}
}

// TestWeightVectorCorrectness checks the composed weight vector against
// hand-computed values: row i of C, row i of D, row k of S, absorb[k],
// with the two diagonal self-entries clamped to zero, then normalized.
func TestWeightVectorCorrectness(t *testing.T) {
	sched := newTestScheduler(t)
	n := sched.m.Dim()

	cases := []struct {
		mapState, phState int
		want              []float64
	}{
		{0, 0, []float64{0, 0.3, 0.05, 0.95, 0, 0.08, 0.02}},
		{1, 0, []float64{0.5, 0, 0.15, 0.85, 0, 0.08, 0.02}},
		{0, 1, []float64{0, 0.3, 0.05, 0.95, 0.06, 0, 0.04}},
		{1, 1, []float64{0.5, 0, 0.15, 0.85, 0.06, 0, 0.04}},
	}

	for _, c := range cases {
		got, err := sched.weightVector(c.mapState, c.phState, n)
		if err != nil {
			t.Fatalf("weightVector(%d,%d): %v", c.mapState, c.phState, err)
		}
		assertClose(t, got, normalize(c.want))
	}
}

func TestWeightVectorIsCached(t *testing.T) {
	sched := newTestScheduler(t)
	n := sched.m.Dim()

	first, err := sched.weightVector(0, 0, n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := sched.weightVector(0, 0, n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if &first[0] != &second[0] {
		t.Fatalf("expected weightVector to return the cached slice, got distinct allocations")
	}
}

func TestNextAlternatesSelectionAndMining(t *testing.T) {
	sched := newTestScheduler(t)

	var lastServiceEvent Event
	arrivals := 0
	serviceEvents := 0
	prevT := sched.T()

	for i := 0; i < 2000; i++ {
		ev, err := sched.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if sched.T() < prevT {
			t.Fatalf("time went backwards: %v -> %v", prevT, sched.T())
		}
		prevT = sched.T()

		switch ev {
		case Arrival:
			arrivals++
		case Selection, Mining:
			if serviceEvents > 0 && ev == lastServiceEvent {
				t.Fatalf("selection/mining did not alternate: got %v twice in a row", ev)
			}
			lastServiceEvent = ev
			serviceEvents++
		default:
			t.Fatalf("unexpected event %q", ev)
		}
	}

	if arrivals == 0 {
		t.Fatalf("expected at least one arrival event")
	}
}

func TestDegenerateGeneratorFails(t *testing.T) {
	f := rng.NewFacade(1)
	streams := f.Spawn(4)

	// Zero MAP, zero PH: the combined diagonal rate -C[0][0]-S[0][0] is
	// zero, so Next fails with ErrZeroRate before any weight vector is
	// built.
	C := [][]float64{{0}}
	D := [][]float64{{0}}
	omega := []float64{1}
	S := [][]float64{{0}}
	beta := []float64{1}
	Tm := [][]float64{{0}}
	alpha := []float64{1}

	sched, err := NewMapDoublePH(streams[0], streams[1], streams[2], streams[3],
		C, D, omega, S, beta, Tm, alpha)
	if err != nil {
		t.Fatalf("NewMapDoublePH: %v", err)
	}

	if _, err := sched.Next(); err != ErrZeroRate {
		t.Fatalf("expected ErrZeroRate, got %v", err)
	}
}
