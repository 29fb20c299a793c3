package metrics

import (
	"context"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	coremetrics "github.com/typemux/typemux/core/metrics"
	"github.com/typemux/typemux/infra/logger"
)

// LatencySummary accumulates dispatch latencies and periodically logs an
// aggregate view (mean, standard deviation, p95). It implements MetricsSink
// so it can be composed with other sinks through MultiSink.
type LatencySummary struct {
	mu      sync.Mutex
	samples []float64
	log     logger.Logger
}

// NewLatencySummary creates a summary that logs through log.
func NewLatencySummary(log logger.Logger) *LatencySummary {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &LatencySummary{log: log}
}

// RecordDispatch adds the latency of one routed message to the window.
func (s *LatencySummary) RecordDispatch(rec coremetrics.DispatchRecord) error {
	s.mu.Lock()
	s.samples = append(s.samples, rec.Latency.Seconds())
	s.mu.Unlock()
	return nil
}

// Run logs and resets the window every interval until ctx is canceled.
func (s *LatencySummary) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.flush()
		}
	}
}

func (s *LatencySummary) flush() {
	s.mu.Lock()
	window := s.samples
	s.samples = nil
	s.mu.Unlock()
	if len(window) == 0 {
		return
	}

	sort.Float64s(window)
	mean, std := stat.MeanStdDev(window, nil)
	p95 := stat.Quantile(0.95, stat.Empirical, window, nil)
	s.log.Infof("dispatch latency: n=%d mean=%.6fs std=%.6fs p95=%.6fs", len(window), mean, std, p95)
}
