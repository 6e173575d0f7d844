// Custom heap implementation, modified from container/heap.

// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chain

// feeHeap is a max-heap of mempool transactions ordered by fee: pop always
// returns the highest-fee transaction. Used when a simulation run has fees
// enabled.
type feeHeap []*Transaction

func (q *feeHeap) push(tx *Transaction) {
	*q = append(*q, tx)
	q.up(len(*q) - 1)
}

func (q *feeHeap) pop() *Transaction {
	h := *q
	n := len(h) - 1
	h[0], h[n] = h[n], h[0]
	h.down(0, n)
	v := h[n]
	*q = h[:n]
	return v
}

func (q feeHeap) up(j int) {
	for {
		i := (j - 1) / 2
		if i == j || q[j].Fee <= q[i].Fee {
			break
		}
		q[i], q[j] = q[j], q[i]
		j = i
	}
}

func (q feeHeap) down(i, n int) {
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 {
			break
		}
		j := j1
		if j2 := j1 + 1; j2 < n && q[j1].Fee <= q[j2].Fee {
			j = j2
		}
		if q[j].Fee <= q[i].Fee {
			break
		}
		q[i], q[j] = q[j], q[i]
		i = j
	}
}
