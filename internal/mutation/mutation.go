// Package mutation perturbs the live fleet over time: queue lengths change,
// petrol prices drift and the touched stations get a fresh timestamp.
package mutation

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/rubiojr/zapravka/internal/metrics"
	"github.com/rubiojr/zapravka/internal/store"
	"github.com/rubiojr/zapravka/pkg/api"
)

const (
	maxPicks        = 4
	changeChance    = 0.7
	priceMoveChance = 0.1
	priceStep       = 100
)

// Report summarizes one mutation cycle.
type Report struct {
	Considered int
	Changed    int
	PriceMoves int
	At         time.Time
}

// Engine applies random mutation batches to a FleetStore. The random source
// is only used while the store's write lock is held, so a single Engine may
// be driven from several goroutines.
type Engine struct {
	store *store.FleetStore
	rng   *rand.Rand
	now   func() time.Time
	log   *slog.Logger
	sink  metrics.Sink
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for LastUpdated.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets the logger. Cycles are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.log = logger
	}
}

// WithSink reports every cycle to sink.
func WithSink(sink metrics.Sink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// New creates an engine mutating s. Its random stream is derived from seed
// but differs from the generator's.
func New(s *store.FleetStore, seed uint64, opts ...Option) *Engine {
	e := &Engine{
		store: s,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:   time.Now,
		log:   slog.New(slog.DiscardHandler),
		sink:  metrics.NopSink{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cycle applies one batch: between one and four stations are picked (with
// replacement) and each is changed with probability 0.7.
func (e *Engine) Cycle() Report {
	var rep Report
	e.store.ApplyMutation(func(stations []api.Station) {
		rep.At = e.now()
		if len(stations) == 0 {
			return
		}
		picks := 1 + e.rng.IntN(maxPicks)
		for range picks {
			rep.Considered++
			st := &stations[e.rng.IntN(len(stations))]
			if e.rng.Float64() >= changeChance {
				continue
			}
			rep.Changed++
			st.QueueStatus = api.QueueStatuses[e.rng.IntN(len(api.QueueStatuses))]
			rep.PriceMoves += e.movePrices(st)
			if rep.At.After(st.LastUpdated) {
				st.LastUpdated = rep.At
			}
		}
	})

	e.sink.RecordMutation(rep.Changed, rep.PriceMoves)
	e.log.Debug("mutation cycle applied", "considered", rep.Considered, "changed", rep.Changed, "price_moves", rep.PriceMoves)
	return rep
}

func (e *Engine) movePrices(st *api.Station) int {
	moves := 0
	for i := range st.Fuels {
		f := &st.Fuels[i]
		if f.Kind != api.Benzi92 && f.Kind != api.Benzi95 {
			continue
		}
		if e.rng.Float64() >= priceMoveChance {
			continue
		}
		delta := int64(priceStep)
		if e.rng.IntN(2) == 0 {
			delta = -delta
		}
		if f.Price+delta <= 0 {
			continue
		}
		f.Price += delta
		moves++
	}
	return moves
}

// Run applies a cycle every interval until ctx is cancelled.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.log.Info("mutation loop started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			e.log.Info("mutation loop stopped")
			return
		case <-ticker.C:
			e.Cycle()
		}
	}
}
