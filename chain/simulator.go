package chain

import (
	"log"

	"github.com/AdrienHorgnies/bcqueue/queue"
	"github.com/AdrienHorgnies/bcqueue/rng"
)

// Config holds the queue simulator's tunables.
type Config struct {
	B       int     // maximum transactions per block
	Sigma   float64 // warm-up threshold
	Tau     float64 // end of new-measure recording
	Upsilon float64 // cool-down
	Fees    bool
}

// Simulator drives a queue.Scheduler, maintains the mempool, assembles
// blocks, and records Transactions, Blocks and RoomStates observed in
// [σ, τ).
type Simulator struct {
	scheduler     queue.Scheduler
	mempool       *Mempool
	feeSource     FeeSource
	shuffleStream *rng.Stream
	cfg           Config
	metrics       *Metrics
	logger        *log.Logger

	batch        []*Transaction
	currentBlock *Block

	Transactions []*Transaction
	Blocks       []*Block
	RoomStates   []*RoomState
}

// NewSimulator builds a simulator. feeSource may be nil only if cfg.Fees is
// false; shuffleStream is the simulator's own stream, distinct from any
// stream owned by the scheduler, used for both random-selection shuffles and
// fee sampling. m and logger may be nil.
func NewSimulator(scheduler queue.Scheduler, cfg Config, feeSource FeeSource, shuffleStream *rng.Stream, m *Metrics, logger *log.Logger) (*Simulator, error) {
	if cfg.Fees && feeSource == nil {
		return nil, ErrNoFeeSource
	}
	return &Simulator{
		scheduler:     scheduler,
		mempool:       NewMempool(cfg.Fees),
		feeSource:     feeSource,
		shuffleStream: shuffleStream,
		cfg:           cfg,
		metrics:       m,
		logger:        logger,
	}, nil
}

// Run drives the scheduler until t ≥ τ + υ. The loop keeps going past τ so
// that a block selected just before τ can still have its mining recorded
// through the shared Transaction and Block references.
func (s *Simulator) Run() error {
	end := s.cfg.Tau + s.cfg.Upsilon
	for s.scheduler.T() < end {
		event, err := s.scheduler.Next()
		if err != nil {
			return err
		}
		switch event {
		case queue.Arrival:
			s.onArrival()
		case queue.Selection:
			s.onSelection()
		case queue.Mining:
			s.onMining()
		}
	}
	return nil
}

func (s *Simulator) inWindow(t float64) bool {
	return s.cfg.Sigma <= t && t < s.cfg.Tau
}

func (s *Simulator) recordRoom(t float64) {
	s.RoomStates = append(s.RoomStates, &RoomState{T: t, Size: s.mempool.Len()})
}

func (s *Simulator) onArrival() {
	t := s.scheduler.T()
	var fee float64
	if s.cfg.Fees {
		fee = s.feeSource.Sample(s.shuffleStream)
	}
	tx := &Transaction{Fee: fee, Arrival: t}
	s.mempool.Add(tx)

	if s.metrics != nil {
		s.metrics.Arrivals.Mark(1)
		s.metrics.MempoolSize.Update(int64(s.mempool.Len()))
	}

	if s.inWindow(t) {
		s.Transactions = append(s.Transactions, tx)
		s.recordRoom(t)
	}
}

func (s *Simulator) onSelection() {
	t := s.scheduler.T()
	batch := s.mempool.Select(s.cfg.B, s.shuffleStream)
	for _, tx := range batch {
		tx.Selection = ptr(t)
	}
	block := &Block{Selection: t, Size: len(batch)}
	s.batch = batch
	s.currentBlock = block

	if s.metrics != nil {
		s.metrics.Selections.Mark(1)
		s.metrics.BlockSize.Update(int64(len(batch)))
		s.metrics.MempoolSize.Update(int64(s.mempool.Len()))
	}
	if s.logger != nil {
		s.logger.Printf("[DEBUG] selection at t=%.4f: block size=%d", t, len(batch))
	}

	if s.inWindow(t) {
		s.Blocks = append(s.Blocks, block)
		s.recordRoom(t)
	}
}

func (s *Simulator) onMining() {
	t := s.scheduler.T()
	if s.currentBlock == nil {
		return
	}
	s.currentBlock.Mining = ptr(t)
	for _, tx := range s.batch {
		tx.Mining = ptr(t)
	}

	if s.metrics != nil {
		s.metrics.Minings.Mark(1)
		for _, tx := range s.batch {
			s.metrics.Sojourn.Update(int64(t - tx.Arrival))
		}
	}

	s.batch = nil
	s.currentBlock = nil
}
