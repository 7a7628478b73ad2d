// Package server exposes the fleet service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/httprate"

	"github.com/rubiojr/zapravka/internal/query"
	"github.com/rubiojr/zapravka/internal/service"
	"github.com/rubiojr/zapravka/internal/trip"
	"github.com/rubiojr/zapravka/pkg/api"
)

const (
	defaultPopularLimit = 50
	shutdownTimeout     = 5 * time.Second
)

// Options tunes the router.
type Options struct {
	// RateLimitPerMinute caps requests per client IP. Zero disables it.
	RateLimitPerMinute int
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

type handler struct {
	svc *service.Service
	log *slog.Logger
}

// NewLogger builds the request logger shared by the server and the service.
func NewLogger(level slog.Level, jsonOutput bool) *httplog.Logger {
	return httplog.NewLogger("zapravka", httplog.Options{
		JSON:            jsonOutput,
		LogLevel:        level,
		Concise:         true,
		QuietDownPeriod: 10 * time.Second,
	})
}

// New returns the HTTP router for svc.
func New(svc *service.Service, logger *httplog.Logger, opts Options) http.Handler {
	h := &handler{svc: svc, log: logger.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	if opts.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimitPerMinute, time.Minute))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/stations", h.fetchAll)
		r.Get("/stations/latest", h.pollLatest)
		r.Get("/rates", h.fetchRates)
		r.Get("/search", h.search)
		r.Get("/stats", h.stats)
		r.Get("/trip", h.tripCost)
		r.Get("/popular", h.popular)
	})
	return r
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *handler) fetchAll(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.FetchAll(r.Context())
	if err != nil {
		h.fail(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *handler) pollLatest(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.PollLatest(r.Context())
	if err != nil {
		h.fail(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *handler) fetchRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.svc.FetchRates(r.Context())
	if err != nil {
		h.fail(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearch(r)
	if err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.svc.Search(r.Context(), req)
	switch {
	case errors.Is(err, query.ErrInvalidCriteria):
		h.fail(w, http.StatusBadRequest, err)
		return
	case err != nil:
		h.fail(w, http.StatusServiceUnavailable, err)
		return
	}

	writeJSON(w, http.StatusOK, api.SearchResponse{
		Viewer:   res.Viewer,
		Warning:  res.Warning,
		Version:  res.Version,
		Count:    len(res.Stations),
		Stations: res.Stations,
	})
}

func parseSearch(r *http.Request) (service.SearchRequest, error) {
	q := r.URL.Query()
	req := service.SearchRequest{
		Criteria: query.Criteria{
			SearchText: strings.TrimSpace(q.Get("q")),
			Region:     q.Get("region"),
			Category:   query.Category(q.Get("category")),
			Sort:       query.SortKey(q.Get("sort")),
		},
		Place: strings.TrimSpace(q.Get("location")),
	}

	if v := q.Get("open"); v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			return req, errors.New("invalid open value")
		}
		req.Criteria.OpenOnly = open
	}
	for _, a := range q["amenity"] {
		req.Criteria.RequiredAmenities = append(req.Criteria.RequiredAmenities, api.Amenity(a))
	}
	if v := q.Get("radius"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, errors.New("invalid radius value")
		}
		req.Criteria.RadiusKm = radius
	}

	lat, lng := q.Get("lat"), q.Get("lng")
	if lat != "" || lng != "" {
		viewer, err := api.ParseCoordinate(lat, lng)
		if err != nil {
			return req, err
		}
		req.Viewer = &viewer
	}
	return req, nil
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.Stats(r.Context())
	if err != nil {
		h.fail(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *handler) tripCost(w http.ResponseWriter, r *http.Request) {
	distance, err := trip.ParseAmount(r.URL.Query().Get("distance"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	consumption, err := trip.ParseAmount(r.URL.Query().Get("consumption"))
	if err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}

	costs, err := h.svc.TripCost(r.Context(), distance, consumption)
	switch {
	case errors.Is(err, trip.ErrInvalidTrip):
		h.fail(w, http.StatusBadRequest, err)
		return
	case err != nil:
		h.fail(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, costs)
}

func (h *handler) popular(w http.ResponseWriter, r *http.Request) {
	limit := defaultPopularLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.fail(w, http.StatusBadRequest, errors.New("invalid limit value"))
			return
		}
		limit = n
	}

	locs, err := h.svc.PopularLocations(r.Context(), limit)
	switch {
	case errors.Is(err, service.ErrSearchLogDisabled):
		h.fail(w, http.StatusNotFound, err)
		return
	case err != nil:
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, locs)
}

func (h *handler) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON encodes v before touching the response, so an encoding failure
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"error encoding response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
