package metrics

import (
	"testing"

	coremetrics "github.com/typemux/typemux/core/metrics"
)

type recordSink struct {
	dispatches int
	registries int
	ingests    int
}

func (r *recordSink) RecordDispatch(coremetrics.DispatchRecord) error {
	r.dispatches++
	return nil
}

func (r *recordSink) RecordRegistry(coremetrics.RegistryRecord) error {
	r.registries++
	return nil
}

func (r *recordSink) RecordIngest(coremetrics.IngestRecord) error {
	r.ingests++
	return nil
}

// dispatchOnly implements MetricsSink but none of the recorder extensions.
type dispatchOnly struct{ dispatches int }

func (d *dispatchOnly) RecordDispatch(coremetrics.DispatchRecord) error {
	d.dispatches++
	return nil
}

func TestMultiSinkFanout(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordDispatch(coremetrics.DispatchRecord{}); err != nil {
		t.Fatalf("record dispatch: %v", err)
	}
	if err := m.RecordRegistry(coremetrics.RegistryRecord{}); err != nil {
		t.Fatalf("record registry: %v", err)
	}
	if err := m.RecordIngest(coremetrics.IngestRecord{}); err != nil {
		t.Fatalf("record ingest: %v", err)
	}
	for i, s := range []*recordSink{s1, s2} {
		if s.dispatches != 1 || s.registries != 1 || s.ingests != 1 {
			t.Errorf("sink %d: got %d/%d/%d, want 1/1/1", i, s.dispatches, s.registries, s.ingests)
		}
	}
}

func TestMultiSinkSkipsMissingRecorders(t *testing.T) {
	d := &dispatchOnly{}
	m := NewMultiSink(d)
	if err := m.RecordRegistry(coremetrics.RegistryRecord{}); err != nil {
		t.Fatalf("record registry: %v", err)
	}
	if err := m.RecordDispatch(coremetrics.DispatchRecord{}); err != nil {
		t.Fatalf("record dispatch: %v", err)
	}
	if d.dispatches != 1 {
		t.Errorf("dispatches=%d, want 1", d.dispatches)
	}
}
