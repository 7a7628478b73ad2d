package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records fleet activity in Prometheus metrics.
type PromSink struct {
	batches    prometheus.Counter
	changed    prometheus.Counter
	priceMoves prometheus.Counter
	queries    *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	results    *prometheus.HistogramVec
	stations   prometheus.Gauge
	version    prometheus.Gauge
}

// NewPromSink registers the collectors on the default registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers the collectors on reg. Collectors that
// are already registered are reused, so several sinks can share a registry.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zapravka_mutation_batches_total",
			Help: "Number of applied mutation batches",
		}),
		changed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zapravka_mutation_stations_changed_total",
			Help: "Number of station changes applied by the mutation engine",
		}),
		priceMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zapravka_mutation_price_moves_total",
			Help: "Number of fuel price moves applied by the mutation engine",
		}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zapravka_queries_total",
			Help: "Number of station queries by category",
		}, []string{"category"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zapravka_query_duration_seconds",
			Help:    "Time spent filtering and ranking stations",
			Buckets: prometheus.DefBuckets,
		}, []string{"category"}),
		results: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zapravka_query_results",
			Help:    "Number of stations returned per query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 7),
		}, []string{"category"}),
		stations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zapravka_fleet_stations",
			Help: "Number of stations in the fleet",
		}),
		version: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zapravka_fleet_version",
			Help: "Current fleet version",
		}),
	}

	var err error
	if s.batches, err = register(reg, s.batches); err != nil {
		return nil, err
	}
	if s.changed, err = register(reg, s.changed); err != nil {
		return nil, err
	}
	if s.priceMoves, err = register(reg, s.priceMoves); err != nil {
		return nil, err
	}
	if s.queries, err = register(reg, s.queries); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, s.latency); err != nil {
		return nil, err
	}
	if s.results, err = register(reg, s.results); err != nil {
		return nil, err
	}
	if s.stations, err = register(reg, s.stations); err != nil {
		return nil, err
	}
	if s.version, err = register(reg, s.version); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (s *PromSink) RecordMutation(changed, priceMoves int) {
	s.batches.Inc()
	s.changed.Add(float64(changed))
	s.priceMoves.Add(float64(priceMoves))
}

func (s *PromSink) RecordQuery(category string, results int, took time.Duration) {
	s.queries.WithLabelValues(category).Inc()
	s.latency.WithLabelValues(category).Observe(took.Seconds())
	s.results.WithLabelValues(category).Observe(float64(results))
}

func (s *PromSink) RecordFleet(stations int, version uint64) {
	s.stations.Set(float64(stations))
	s.version.Set(float64(version))
}
