package metrics

import (
	"context"
	"time"

	"github.com/typemux/typemux/core/events"
	coremetrics "github.com/typemux/typemux/core/metrics"
	"github.com/typemux/typemux/infra/logger"
	"github.com/typemux/typemux/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// routing events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink, log logger.Logger) {
	if bus == nil || sink == nil {
		return
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				record(sink, log, ev)
			}
		}
	}()
}

func record(sink coremetrics.MetricsSink, log logger.Logger, ev eventbus.Event) {
	now := time.Now()
	switch e := ev.(type) {
	case events.DispatchEvent:
		if err := sink.RecordDispatch(coremetrics.DispatchRecord{
			MessageType: e.MessageType,
			Handled:     e.Handled,
			Latency:     e.Latency,
			Time:        now,
		}); err != nil {
			log.Errorf("record dispatch: %v", err)
		}
	case events.RegistryEvent:
		if r, ok := sink.(coremetrics.RegistryRecorder); ok {
			if err := r.RecordRegistry(coremetrics.RegistryRecord{
				MessageType: e.MessageType,
				Action:      e.Action,
				Time:        now,
			}); err != nil {
				log.Errorf("record registry: %v", err)
			}
		}
	case events.IngestEvent:
		if r, ok := sink.(coremetrics.IngestRecorder); ok {
			errStr := ""
			if e.Err != nil {
				errStr = e.Err.Error()
			}
			if err := r.RecordIngest(coremetrics.IngestRecord{
				Topic:       e.Topic,
				MessageType: e.MessageType,
				Error:       errStr,
				Time:        now,
			}); err != nil {
				log.Errorf("record ingest: %v", err)
			}
		}
	}
}
