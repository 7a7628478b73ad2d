package mutation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/zapravka/internal/fleet"
	"github.com/rubiojr/zapravka/internal/metrics"
	"github.com/rubiojr/zapravka/internal/store"
	"github.com/rubiojr/zapravka/pkg/api"
)

var start = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type countingSink struct {
	metrics.NopSink
	mu      sync.Mutex
	batches int
	changed int
}

func (s *countingSink) RecordMutation(changed, _ int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches++
	s.changed += changed
}

func newFleetStore() *store.FleetStore {
	return store.New(fleet.New(3, start).Generate(), fleet.DefaultRates(start))
}

func TestCycle_Bounds(t *testing.T) {
	s := newFleetStore()
	c := &clock{t: start}
	e := New(s, 11, WithClock(c.Now))

	for i := 0; i < 500; i++ {
		rep := e.Cycle()
		require.GreaterOrEqual(t, rep.Considered, 1)
		require.LessOrEqual(t, rep.Considered, 4)
		require.LessOrEqual(t, rep.Changed, rep.Considered)
		require.LessOrEqual(t, rep.PriceMoves, 2*rep.Changed)
	}
	assert.Equal(t, uint64(500), s.Version())
}

func TestCycle_PreservesInvariants(t *testing.T) {
	s := newFleetStore()
	before := s.SnapshotStations()
	c := &clock{t: start}
	e := New(s, 12, WithClock(c.Now))

	for i := 0; i < 2000; i++ {
		e.Cycle()
	}
	after := s.SnapshotStations()
	require.NoError(t, fleet.ValidateFleet(after))
	require.Len(t, after, len(before))

	changed := 0
	for i := range after {
		b, a := before[i], after[i]
		// identity and static attributes never move
		assert.Equal(t, b.ID, a.ID)
		assert.Equal(t, b.Location, a.Location)
		assert.Equal(t, b.Amenities, a.Amenities)
		assert.Equal(t, b.IsOpen, a.IsOpen)
		assert.False(t, a.LastUpdated.Before(b.LastUpdated), a.ID)
		require.Len(t, a.Fuels, len(b.Fuels))
		for j := range a.Fuels {
			assert.Equal(t, b.Fuels[j].Kind, a.Fuels[j].Kind)
			if a.Fuels[j].Price != b.Fuels[j].Price {
				assert.Contains(t, []api.FuelKind{api.Benzi92, api.Benzi95}, a.Fuels[j].Kind)
				assert.Zero(t, (a.Fuels[j].Price-b.Fuels[j].Price)%100)
			}
		}
		if a.LastUpdated.After(b.LastUpdated) {
			changed++
		}
	}
	assert.Positive(t, changed)
}

func TestCycle_NeverRewindsLastUpdated(t *testing.T) {
	future := start.Add(24 * time.Hour)
	st := fleet.Anchors(future)
	s := store.New(st, nil)
	e := New(s, 1, WithClock(func() time.Time { return start }))

	for i := 0; i < 100; i++ {
		e.Cycle()
	}
	for _, st := range s.SnapshotStations() {
		assert.Equal(t, future, st.LastUpdated, st.ID)
	}
}

func TestCycle_EmptyFleet(t *testing.T) {
	s := store.New(nil, nil)
	rep := New(s, 1).Cycle()
	assert.Zero(t, rep.Considered)
	assert.Equal(t, uint64(1), s.Version())
}

func TestCycle_Deterministic(t *testing.T) {
	run := func() []api.Station {
		s := newFleetStore()
		c := &clock{t: start}
		e := New(s, 77, WithClock(c.Now))
		for i := 0; i < 50; i++ {
			e.Cycle()
		}
		return s.SnapshotStations()
	}
	assert.Equal(t, run(), run())
}

func TestCycle_ConcurrentCallers(t *testing.T) {
	s := newFleetStore()
	sink := &countingSink{}
	c := &clock{t: start}
	e := New(s, 5, WithClock(c.Now), WithSink(sink))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				e.Cycle()
				_ = s.SnapshotStations()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(400), s.Version())
	assert.Equal(t, 400, sink.batches)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := newFleetStore()
	e := New(s, 9)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		e.Run(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return s.Version() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	v := s.Version()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, v, s.Version())
}
