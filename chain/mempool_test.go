package chain

import (
	"testing"

	"github.com/AdrienHorgnies/bcqueue/rng"
)

func TestMempoolFeeSelectTakesHighestFees(t *testing.T) {
	p := NewMempool(true)
	fees := []float64{1, 5, 3, 9, 2, 7}
	for _, f := range fees {
		p.Add(&Transaction{Fee: f})
	}

	batch := p.Select(3, nil)
	if len(batch) != 3 {
		t.Fatalf("expected batch of 3, got %d", len(batch))
	}
	for _, tx := range batch {
		if tx.Fee != 9 && tx.Fee != 7 && tx.Fee != 5 {
			t.Fatalf("unexpected fee %v in top-3 batch", tx.Fee)
		}
	}
	if p.Len() != 3 {
		t.Fatalf("expected 3 remaining, got %d", p.Len())
	}
}

func TestMempoolFeeSelectTakesWholeMempoolWhenSmall(t *testing.T) {
	p := NewMempool(true)
	p.Add(&Transaction{Fee: 1})
	p.Add(&Transaction{Fee: 2})

	batch := p.Select(10, nil)
	if len(batch) != 2 {
		t.Fatalf("expected whole mempool of 2, got %d", len(batch))
	}
	if p.Len() != 0 {
		t.Fatalf("expected mempool empty after taking everything, got %d", p.Len())
	}
}

func TestMempoolRandomSelectTakesWholeMempoolWhenSmall(t *testing.T) {
	p := NewMempool(false)
	p.Add(&Transaction{Fee: 0})
	p.Add(&Transaction{Fee: 0})

	stream := rng.NewFacade(1).Spawn(1)[0]
	batch := p.Select(10, stream)
	if len(batch) != 2 {
		t.Fatalf("expected whole mempool of 2, got %d", len(batch))
	}
}

func TestMempoolRandomSelectRespectsSize(t *testing.T) {
	p := NewMempool(false)
	for i := 0; i < 10; i++ {
		p.Add(&Transaction{})
	}
	stream := rng.NewFacade(1).Spawn(1)[0]
	batch := p.Select(4, stream)
	if len(batch) != 4 {
		t.Fatalf("expected batch of 4, got %d", len(batch))
	}
	if p.Len() != 6 {
		t.Fatalf("expected 6 remaining, got %d", p.Len())
	}
}

func TestMempoolAddIncreasesLen(t *testing.T) {
	p := NewMempool(false)
	if p.Len() != 0 {
		t.Fatalf("expected empty mempool, got %d", p.Len())
	}
	p.Add(&Transaction{})
	if p.Len() != 1 {
		t.Fatalf("expected len 1, got %d", p.Len())
	}
}
