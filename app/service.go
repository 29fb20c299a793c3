package app

import (
	"context"
	"fmt"
	"time"

	"github.com/typemux/typemux/config"
	"github.com/typemux/typemux/core/message"
	coremetrics "github.com/typemux/typemux/core/metrics"
	"github.com/typemux/typemux/core/router"
	"github.com/typemux/typemux/infra/logger"
	"github.com/typemux/typemux/infra/metrics"
	"github.com/typemux/typemux/infra/mqtt"
	"github.com/typemux/typemux/internal/eventbus"
)

// Service orchestrates the router, the MQTT source and the metrics sinks.
type Service struct {
	Router *router.Router

	bus     *eventbus.Bus
	log     logger.Logger
	source  *mqtt.Source
	sink    coremetrics.MetricsSink
	summary *metrics.LatencySummary

	promEnabled     bool
	promPort        string
	summaryInterval time.Duration
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, err
	}

	logg := logger.New("service")
	bus := eventbus.New()

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var summary *metrics.LatencySummary
	if cfg.Metrics.LatencySummaryInterval > 0 {
		summary = metrics.NewLatencySummary(logger.New("latency"))
		sinks = append(sinks, summary)
	}
	var sink coremetrics.MetricsSink
	switch len(sinks) {
	case 0:
		sink = coremetrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	rt := router.New(bus, logger.New("router"))

	svc := &Service{
		Router:          rt,
		bus:             bus,
		log:             logg,
		sink:            sink,
		summary:         summary,
		promEnabled:     cfg.Metrics.PrometheusEnabled,
		promPort:        cfg.Metrics.PrometheusPort,
		summaryInterval: time.Duration(cfg.Metrics.LatencySummaryInterval) * time.Second,
	}

	router.Handle(rt, func(raw message.Raw) {
		logg.Debugw("raw message", map[string]any{"topic": raw.Topic, "bytes": len(raw.Payload)})
	})
	router.Handle(rt, func(hb message.Heartbeat) {
		logg.Debugf("heartbeat from %s", hb.Source)
	})

	if cfg.MQTT.Broker != "" {
		source, err := mqtt.NewSource(cfg.MQTT, rt, bus)
		if err != nil {
			return nil, fmt.Errorf("mqtt source: %w", err)
		}
		svc.source = source
	}
	return svc, nil
}

// Source returns the MQTT source, or nil when no broker is configured.
// Topic bindings must be added before Run.
func (s *Service) Source() *mqtt.Source { return s.source }

// Run starts the service and blocks until the context is cancelled or a
// message.Shutdown is dispatched.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	router.Handle(s.Router, func(msg message.Shutdown) {
		s.log.Infof("shutdown requested: %s", msg.Reason)
		cancel()
	})

	metrics.StartEventCollector(ctx, s.bus, s.sink, s.log)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.summary != nil {
		go s.summary.Run(ctx, s.summaryInterval)
	}
	if s.source != nil {
		if err := s.source.Start(ctx); err != nil {
			return fmt.Errorf("mqtt source: %w", err)
		}
	}
	<-ctx.Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.source != nil {
		s.source.Close()
	}
	s.Router.Close()
	s.bus.Close()
	return nil
}
