package main

import (
	"fmt"
	"log"
	"sync"

	"github.com/rcrowley/go-metrics"

	"github.com/AdrienHorgnies/bcqueue/batch"
	"github.com/AdrienHorgnies/bcqueue/chain"
	"github.com/AdrienHorgnies/bcqueue/control"
	"github.com/AdrienHorgnies/bcqueue/params"
	"github.com/AdrienHorgnies/bcqueue/queue"
	"github.com/AdrienHorgnies/bcqueue/rng"
	"github.com/AdrienHorgnies/bcqueue/stats"
	"github.com/AdrienHorgnies/bcqueue/store"
)

// Each run spawns ten streams from the root seed; the layout follows the
// rng package doc. Stream 4 is reserved and unused.
const numStreams = 10

const (
	streamMMArrival   = 0
	streamMMSelection = 1
	streamMMMining    = 2
	streamMMSim       = 3
	streamMAP         = 5
	streamSelPH       = 6
	streamMinePH      = 7
	streamMapPHSim    = 8
	streamMapPHNext   = 9
)

// queueRun is one discipline's simulation run: n independent replications,
// each with its own block of spawned streams.
type queueRun struct {
	name         string // "mm1" | "mapph1", metric prefix
	label        string // "M/M/1" | "MAP/PH/1", printed
	p            *params.Params
	seed         int64
	fees         bool
	replications int
	registry     metrics.Registry
	storePath    string
	logger       *log.Logger
}

// run executes all replications and prints the first replication's summary,
// plus the mean across replications when there is more than one. The first
// replication's recorded lists are persisted when storePath is set.
func (r *queueRun) run(sess *session) error {
	f := rng.NewFacade(r.seed)
	streams := make([][]*rng.Stream, r.replications)
	for i := range streams {
		streams[i] = f.Spawn(numStreams)
	}

	m := chain.NewMetrics(r.registry, r.name)
	sims := make([]*chain.Simulator, r.replications)
	var mux sync.Mutex
	b := batch.New(r.replications, func(i int) (*chain.Simulator, error) {
		var sm *chain.Metrics
		if i == 0 {
			sm = m
		}
		s, err := newSimulator(r.name, r.p, r.fees, streams[i], sm, r.logger)
		if err != nil {
			return nil, err
		}
		mux.Lock()
		sims[i] = s
		mux.Unlock()
		return s, nil
	})

	if sess != nil {
		sess.set(b)
		defer sess.set(nil)
	}

	r.logger.Printf("%s: running %d replication(s) with seed %d", r.label, r.replications, r.seed)
	results := b.Run()

	summaries := make([]stats.Summary, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			return fmt.Errorf("%s replication %d: %v", r.label, res.Index, res.Err)
		}
		summaries = append(summaries, res.Summary)
	}

	r.logger.Printf("%s results:", r.label)
	stats.Print(r.logger, summaries[0])
	if len(summaries) > 1 {
		r.logger.Printf("%s mean over %d replications:", r.label, len(summaries))
		stats.Print(r.logger, stats.Aggregate(summaries))
	}

	if r.storePath != "" {
		st, err := store.Open(r.storePath)
		if err != nil {
			return fmt.Errorf("store.Open: %v", err)
		}
		defer st.Close()
		s := sims[0]
		if err := st.SaveRun(r.label, s.Transactions, s.Blocks, s.RoomStates); err != nil {
			return fmt.Errorf("store.SaveRun: %v", err)
		}
		r.logger.Printf("%s: recorded measures saved to %s", r.label, r.storePath)
	}
	return nil
}

// newSimulator wires one replication's scheduler, fee source and simulator
// out of its block of ten streams.
func newSimulator(name string, p *params.Params, fees bool, streams []*rng.Stream, m *chain.Metrics, logger *log.Logger) (*chain.Simulator, error) {
	var (
		sched     queue.Scheduler
		simStream *rng.Stream
	)
	switch name {
	case "mm1":
		sched = queue.NewMDoubleM(
			streams[streamMMArrival], streams[streamMMSelection], streams[streamMMMining],
			p.Lambda, p.Mu1, p.Mu2)
		simStream = streams[streamMMSim]
	case "mapph1":
		var err error
		sched, err = queue.NewMapDoublePH(
			streams[streamMapPHNext],
			streams[streamMAP], streams[streamSelPH], streams[streamMinePH],
			p.C, p.D, p.Omega, p.S, p.Beta, p.T, p.Alpha)
		if err != nil {
			return nil, err
		}
		simStream = streams[streamMapPHSim]
	default:
		return nil, fmt.Errorf("unknown queue %q", name)
	}

	var fs chain.FeeSource
	if fees {
		fs = newFeeSource(p)
	}
	cfg := chain.Config{B: p.B, Sigma: p.Sigma, Tau: p.Tau, Upsilon: p.Upsilon, Fees: fees}
	return chain.NewSimulator(sched, cfg, fs, simStream, m, logger)
}

func newFeeSource(p *params.Params) chain.FeeSource {
	if p.HasRatios {
		weights := make([]float64, len(p.Ratios))
		for i := range weights {
			weights[i] = 1
		}
		return chain.NewRatioFeeSource(p.Ratios, weights)
	}
	return chain.NewTruncatedNormalFeeSource(p.FeeMin, p.FeeLoc, p.FeeMax, p.FeeScale)
}

// session makes a sequence of batches controllable as one unit over the
// control service: Status, Pause and Stop are forwarded to whichever batch is
// currently running.
type session struct {
	mux sync.Mutex
	cur control.Controllable
}

func (s *session) set(c control.Controllable) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.cur = c
}

func (s *session) get() control.Controllable {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.cur
}

func (s *session) Status() map[string]string {
	if c := s.get(); c != nil {
		return c.Status()
	}
	return map[string]string{"state": "idle"}
}

func (s *session) Pause(paused bool) {
	if c := s.get(); c != nil {
		c.Pause(paused)
	}
}

func (s *session) Stop() {
	if c := s.get(); c != nil {
		c.Stop()
	}
}
