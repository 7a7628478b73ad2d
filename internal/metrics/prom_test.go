package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromSink_RecordMutation(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	sink.RecordMutation(3, 1)
	sink.RecordMutation(0, 0)

	expected := `
# HELP zapravka_mutation_batches_total Number of applied mutation batches
# TYPE zapravka_mutation_batches_total counter
zapravka_mutation_batches_total 2
`
	if err := testutil.CollectAndCompare(sink.batches, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if got := testutil.ToFloat64(sink.changed); got != 3 {
		t.Errorf("Expected 3 changed stations, got %v", got)
	}
	if got := testutil.ToFloat64(sink.priceMoves); got != 1 {
		t.Errorf("Expected 1 price move, got %v", got)
	}
}

func TestPromSink_RecordQuery(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	sink.RecordQuery("petrol", 12, 3*time.Millisecond)
	sink.RecordQuery("petrol", 0, time.Millisecond)
	sink.RecordQuery("electric", 4, time.Millisecond)

	expected := `
# HELP zapravka_queries_total Number of station queries by category
# TYPE zapravka_queries_total counter
zapravka_queries_total{category="electric"} 1
zapravka_queries_total{category="petrol"} 2
`
	if err := testutil.CollectAndCompare(sink.queries, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if c := testutil.CollectAndCount(sink.latency); c != 2 {
		t.Errorf("Expected 2 latency series, got %d", c)
	}
}

func TestPromSink_RecordFleet(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink.RecordFleet(2119, 7)

	expected := `
# HELP zapravka_fleet_stations Number of stations in the fleet
# TYPE zapravka_fleet_stations gauge
zapravka_fleet_stations 2119
`
	if err := testutil.CollectAndCompare(sink.stations, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected fleet metric: %v", err)
	}
	if got := testutil.ToFloat64(sink.version); got != 7 {
		t.Errorf("Expected version 7, got %v", got)
	}
}

func TestNewPromSinkWithRegistry_ReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	b, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second sink: %v", err)
	}

	a.RecordMutation(1, 0)
	b.RecordMutation(1, 0)
	if got := testutil.ToFloat64(a.batches); got != 2 {
		t.Errorf("Expected shared counter at 2, got %v", got)
	}
}

func TestNopSink(t *testing.T) {
	var s Sink = NopSink{}
	s.RecordMutation(1, 1)
	s.RecordQuery("all", 1, time.Second)
	s.RecordFleet(1, 1)
}
