package metrics

import coremetrics "github.com/typemux/typemux/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDispatch forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordDispatch(rec coremetrics.DispatchRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordDispatch(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordRegistry forwards registration changes to sinks that record them.
func (m *MultiSink) RecordRegistry(rec coremetrics.RegistryRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(coremetrics.RegistryRecorder); ok {
			if err := r.RecordRegistry(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordIngest forwards ingestion results to sinks that record them.
func (m *MultiSink) RecordIngest(rec coremetrics.IngestRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(coremetrics.IngestRecorder); ok {
			if err := r.RecordIngest(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
