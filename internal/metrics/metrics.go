// Package metrics exposes fleet, mutation and query activity.
package metrics

import "time"

// Sink receives events from the mutation engine and the service layer.
type Sink interface {
	RecordMutation(changed, priceMoves int)
	RecordQuery(category string, results int, took time.Duration)
	RecordFleet(stations int, version uint64)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordMutation(int, int) {}
func (NopSink) RecordQuery(string, int, time.Duration) {}
func (NopSink) RecordFleet(int, uint64) {}
