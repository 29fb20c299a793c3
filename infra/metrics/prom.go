package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/typemux/typemux/core/metrics"
)

// PromSink records routing activity in Prometheus metrics.
type PromSink struct {
	dispatches *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	registry   *prometheus.CounterVec
	ingests    *prometheus.CounterVec
}

// NewPromSink registers routing metrics on the provided Prometheus registerer.
// If reg is nil, the default registerer is used. If the collectors are already
// registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "typemux_dispatch_total",
		Help: "Total number of dispatched messages",
	}, []string{"message_type", "handled"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "typemux_dispatch_latency_seconds",
		Help:    "Time spent routing one message",
		Buckets: prometheus.DefBuckets,
	}, []string{"message_type"})
	registry := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "typemux_registry_changes_total",
		Help: "Handler registration changes",
	}, []string{"message_type", "action"})
	ingests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "typemux_ingest_total",
		Help: "Messages pulled in by bridge sources",
	}, []string{"topic", "result"})

	collectors := []prometheus.Collector{dispatches, latency, registry, ingests}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	return &PromSink{
		dispatches: collectors[0].(*prometheus.CounterVec),
		latency:    collectors[1].(*prometheus.HistogramVec),
		registry:   collectors[2].(*prometheus.CounterVec),
		ingests:    collectors[3].(*prometheus.CounterVec),
	}, nil
}

// RecordDispatch increments the dispatch counter and observes its latency.
func (s *PromSink) RecordDispatch(rec coremetrics.DispatchRecord) error {
	s.dispatches.WithLabelValues(rec.MessageType, strconv.FormatBool(rec.Handled)).Inc()
	s.latency.WithLabelValues(rec.MessageType).Observe(rec.Latency.Seconds())
	return nil
}

// RecordRegistry counts handler registration changes.
func (s *PromSink) RecordRegistry(rec coremetrics.RegistryRecord) error {
	s.registry.WithLabelValues(rec.MessageType, rec.Action).Inc()
	return nil
}

// RecordIngest counts bridge ingestion results.
func (s *PromSink) RecordIngest(rec coremetrics.IngestRecord) error {
	result := "ok"
	if rec.Error != "" {
		result = "error"
	}
	s.ingests.WithLabelValues(rec.Topic, result).Inc()
	return nil
}
