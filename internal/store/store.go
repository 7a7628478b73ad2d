// Package store holds the canonical fleet state. Every read returns a deep
// copy and every write goes through ApplyMutation.
package store

import (
	"sync"

	"github.com/rubiojr/zapravka/pkg/api"
)

// FleetStore owns the stations and market rates. It is safe for concurrent
// use.
type FleetStore struct {
	mu       sync.RWMutex
	stations []api.Station
	rates    []api.MarketRate
	version  uint64
}

// New creates a store from the given collections. The input is copied.
func New(stations []api.Station, rates []api.MarketRate) *FleetStore {
	return &FleetStore{
		stations: api.CloneStations(stations),
		rates:    append([]api.MarketRate(nil), rates...),
	}
}

// SnapshotStations returns a deep copy of every station.
func (s *FleetStore) SnapshotStations() []api.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return api.CloneStations(s.stations)
}

// SnapshotRates returns a copy of the market rates.
func (s *FleetStore) SnapshotRates() []api.MarketRate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.MarketRate(nil), s.rates...)
}

// Snapshot returns stations, rates and the version as one consistent view.
func (s *FleetStore) Snapshot() api.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return api.Snapshot{
		Version:  s.version,
		Stations: api.CloneStations(s.stations),
		Rates:    append([]api.MarketRate(nil), s.rates...),
	}
}

// ApplyMutation runs fn with exclusive access to the stations and bumps the
// version once fn returns. fn may modify elements in place but the slice
// header it receives is not retained, so growing it has no effect.
func (s *FleetStore) ApplyMutation(fn func(stations []api.Station)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.stations)
	s.version++
}

// Version returns the number of mutation batches applied so far.
func (s *FleetStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len returns the number of stations.
func (s *FleetStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stations)
}
