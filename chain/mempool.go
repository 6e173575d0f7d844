package chain

import "github.com/AdrienHorgnies/bcqueue/rng"

// Mempool holds pending transactions in one of two orderings:
// FIFO-with-random-selection (a plain slice, selection draws a uniform
// random subset) or fee-ordered (a max-heap by fee, selection takes the
// top-b).
type Mempool struct {
	fees bool
	fifo []*Transaction
	heap feeHeap
}

// NewMempool builds an empty mempool in fee-priority mode (fees=true) or
// FIFO-random mode (fees=false).
func NewMempool(fees bool) *Mempool {
	return &Mempool{fees: fees}
}

// Len reports the number of pending transactions.
func (p *Mempool) Len() int {
	if p.fees {
		return len(p.heap)
	}
	return len(p.fifo)
}

// Add appends a newly arrived transaction.
func (p *Mempool) Add(tx *Transaction) {
	if p.fees {
		p.heap.push(tx)
	} else {
		p.fifo = append(p.fifo, tx)
	}
}

// Select removes up to b transactions from the mempool and returns them as
// the next server batch:
//   - if the mempool holds ≤ b transactions, the whole mempool is taken
//     without reordering (correct regardless of container order, since every
//     pending transaction is selected anyway);
//   - otherwise, under fee priority the b highest-fee transactions are
//     popped from the heap; under FIFO-random, the pool is shuffled and the
//     first b are taken.
func (p *Mempool) Select(b int, shuffleStream *rng.Stream) []*Transaction {
	if p.fees {
		return p.selectFees(b)
	}
	return p.selectRandom(b, shuffleStream)
}

func (p *Mempool) selectFees(b int) []*Transaction {
	if len(p.heap) <= b {
		batch := []*Transaction(p.heap)
		p.heap = nil
		return batch
	}
	batch := make([]*Transaction, b)
	for i := range batch {
		batch[i] = p.heap.pop()
	}
	return batch
}

func (p *Mempool) selectRandom(b int, shuffleStream *rng.Stream) []*Transaction {
	if len(p.fifo) <= b {
		batch := p.fifo
		p.fifo = nil
		return batch
	}
	shuffleStream.Shuffle(len(p.fifo), func(i, j int) {
		p.fifo[i], p.fifo[j] = p.fifo[j], p.fifo[i]
	})
	batch := make([]*Transaction, b)
	copy(batch, p.fifo[:b])
	p.fifo = p.fifo[b:]
	return batch
}
