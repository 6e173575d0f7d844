// Package stats aggregates a completed simulation run's recorded
// transactions, blocks and room states into summary measures.
package stats

import (
	"log"
	"math"

	"github.com/AdrienHorgnies/bcqueue/chain"
)

// Summary holds the aggregate measures of one recorded run.
type Summary struct {
	NumTransactions int
	NumBlocks       int

	PctUnselected float64
	PctUnmined    float64

	AvgSojournDuration float64
	AvgWaitingDuration float64
	AvgServiceDuration float64

	AvgInterArrivalTime float64
	AvgInterBlockTime   float64
	AvgBlockSize        float64
	AvgRoomSize         float64
}

// Summarize computes a Summary from a run's recorded lists. Transactions
// whose Selection or Mining is still nil (because they arrived too close to
// τ+υ to complete) are excluded from the duration averages but counted
// toward the unselected/unmined percentages.
func Summarize(transactions []*chain.Transaction, blocks []*chain.Block, rooms []*chain.RoomState) Summary {
	var s Summary
	s.NumTransactions = len(transactions)

	var unselected, unmined int
	var sojournSum, waitingSum, serviceSum float64
	var sojournN, waitingN, serviceN int

	for _, tx := range transactions {
		if tx.Selection == nil {
			unselected++
		} else {
			waitingSum += *tx.Selection - tx.Arrival
			waitingN++
		}
		if tx.Mining == nil {
			unmined++
		} else {
			sojournSum += *tx.Mining - tx.Arrival
			sojournN++
			if tx.Selection != nil {
				serviceSum += *tx.Mining - *tx.Selection
				serviceN++
			}
		}
	}
	if s.NumTransactions > 0 {
		s.PctUnselected = float64(unselected) / float64(s.NumTransactions)
		s.PctUnmined = float64(unmined) / float64(s.NumTransactions)
	}
	s.AvgSojournDuration = average(sojournSum, sojournN)
	s.AvgWaitingDuration = average(waitingSum, waitingN)
	s.AvgServiceDuration = average(serviceSum, serviceN)

	if len(transactions) > 1 {
		var sum float64
		for i := 1; i < len(transactions); i++ {
			sum += transactions[i].Arrival - transactions[i-1].Arrival
		}
		s.AvgInterArrivalTime = sum / float64(len(transactions)-1)
	}

	// Ignore a trailing block whose mining wasn't recorded yet.
	complete := blocks
	if n := len(complete); n > 0 && complete[n-1].Mining == nil {
		complete = complete[:n-1]
	}
	s.NumBlocks = len(blocks)
	if len(complete) > 1 {
		var sum float64
		for i := 1; i < len(complete); i++ {
			sum += *complete[i].Mining - *complete[i-1].Mining
		}
		s.AvgInterBlockTime = sum / float64(len(complete)-1)
	}
	if len(blocks) > 0 {
		var sum int
		for _, b := range blocks {
			sum += b.Size
		}
		s.AvgBlockSize = float64(sum) / float64(len(blocks))
	}

	if len(rooms) > 0 {
		var sum int
		for _, r := range rooms {
			sum += r.Size
		}
		s.AvgRoomSize = float64(sum) / float64(len(rooms))
	}

	return s
}

// Aggregate averages summaries element-wise across independent replications.
// NaN fields (a replication where no transaction completed a given stage)
// are skipped rather than poisoning the mean.
func Aggregate(summaries []Summary) Summary {
	var agg Summary
	if len(summaries) == 0 {
		return agg
	}

	var txs, blocks int
	for _, s := range summaries {
		txs += s.NumTransactions
		blocks += s.NumBlocks
	}
	n := float64(len(summaries))
	agg.NumTransactions = int(float64(txs)/n + 0.5)
	agg.NumBlocks = int(float64(blocks)/n + 0.5)

	fields := []struct {
		dst *float64
		get func(Summary) float64
	}{
		{&agg.PctUnselected, func(s Summary) float64 { return s.PctUnselected }},
		{&agg.PctUnmined, func(s Summary) float64 { return s.PctUnmined }},
		{&agg.AvgSojournDuration, func(s Summary) float64 { return s.AvgSojournDuration }},
		{&agg.AvgWaitingDuration, func(s Summary) float64 { return s.AvgWaitingDuration }},
		{&agg.AvgServiceDuration, func(s Summary) float64 { return s.AvgServiceDuration }},
		{&agg.AvgInterArrivalTime, func(s Summary) float64 { return s.AvgInterArrivalTime }},
		{&agg.AvgInterBlockTime, func(s Summary) float64 { return s.AvgInterBlockTime }},
		{&agg.AvgBlockSize, func(s Summary) float64 { return s.AvgBlockSize }},
		{&agg.AvgRoomSize, func(s Summary) float64 { return s.AvgRoomSize }},
	}
	for _, fld := range fields {
		var sum float64
		var count int
		for _, s := range summaries {
			v := fld.get(s)
			if math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
		*fld.dst = average(sum, count)
	}
	return agg
}

func average(sum float64, n int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Print writes the summary through logger, so output routes through the
// caller's log filtering rather than straight to stdout.
func Print(logger *log.Logger, s Summary) {
	logger.Printf("Number of transactions: %d", s.NumTransactions)
	logger.Printf("Number of blocks: %d", s.NumBlocks)
	logger.Printf("Percentage of non-selected transactions: %.3f%%", s.PctUnselected*100)
	logger.Printf("Percentage of non-mined transactions: %.3f%%", s.PctUnmined*100)
	logger.Printf("Average sojourn duration: %.0f", s.AvgSojournDuration)
	logger.Printf("Average waiting duration: %.0f", s.AvgWaitingDuration)
	logger.Printf("Average service duration: %.0f", s.AvgServiceDuration)
	logger.Printf("Average inter-arrival time: %.3f", s.AvgInterArrivalTime)
	logger.Printf("Average inter-block time: %.0f", s.AvgInterBlockTime)
	logger.Printf("Average block size: %.0f", s.AvgBlockSize)
	logger.Printf("Average waiting room size: %.0f", s.AvgRoomSize)
}
