package chain

import "github.com/rcrowley/go-metrics"

// Metrics wires the queue simulator's event counts and distributions into a
// go-metrics registry, adapted from the same library's use for the
// transient-sim timers: meters for arrival/selection/mining event rates, a
// histogram of block sizes, a histogram of transaction sojourn times, and a
// gauge tracking the current mempool size.
type Metrics struct {
	Arrivals    metrics.Meter
	Selections  metrics.Meter
	Minings     metrics.Meter
	BlockSize   metrics.Histogram
	Sojourn     metrics.Histogram
	MempoolSize metrics.Gauge
}

// NewMetrics registers a fresh set of metrics under prefix in registry.
func NewMetrics(registry metrics.Registry, prefix string) *Metrics {
	m := &Metrics{
		Arrivals:    metrics.NewMeter(),
		Selections:  metrics.NewMeter(),
		Minings:     metrics.NewMeter(),
		BlockSize:   metrics.NewHistogram(metrics.NewExpDecaySample(1028, 0.015)),
		Sojourn:     metrics.NewHistogram(metrics.NewExpDecaySample(1028, 0.015)),
		MempoolSize: metrics.NewGauge(),
	}
	registry.Register(prefix+".arrivals", m.Arrivals)
	registry.Register(prefix+".selections", m.Selections)
	registry.Register(prefix+".minings", m.Minings)
	registry.Register(prefix+".blocksize", m.BlockSize)
	registry.Register(prefix+".sojourn", m.Sojourn)
	registry.Register(prefix+".mempoolsize", m.MempoolSize)
	return m
}
