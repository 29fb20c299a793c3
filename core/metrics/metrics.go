package metrics

import "time"

// DispatchRecord describes one routed message for observability purposes.
type DispatchRecord struct {
	MessageType string
	Handled     bool
	Latency     time.Duration
	Time        time.Time
}

// MetricsSink records dispatch outcomes. Additional event kinds are
// supported through the optional recorder interfaces below.
type MetricsSink interface {
	RecordDispatch(rec DispatchRecord) error
}

// RegistryRecord describes a handler registration change.
type RegistryRecord struct {
	MessageType string
	Action      string
	Time        time.Time
}

// RegistryRecorder records handler registration changes.
type RegistryRecorder interface {
	RecordRegistry(rec RegistryRecord) error
}

// IngestRecord describes one message pulled in by a bridge source.
type IngestRecord struct {
	Topic       string
	MessageType string
	Error       string
	Time        time.Time
}

// IngestRecorder records bridge ingestion results.
type IngestRecorder interface {
	RecordIngest(rec IngestRecord) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordDispatch(DispatchRecord) error { return nil }
func (NopSink) RecordRegistry(RegistryRecord) error { return nil }
func (NopSink) RecordIngest(IngestRecord) error     { return nil }
