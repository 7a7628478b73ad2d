package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/rubiojr/zapravka/internal/config"
	"github.com/rubiojr/zapravka/internal/fleet"
	"github.com/rubiojr/zapravka/internal/geocode"
	"github.com/rubiojr/zapravka/internal/metrics"
	"github.com/rubiojr/zapravka/internal/mutation"
	"github.com/rubiojr/zapravka/internal/searchlog"
	"github.com/rubiojr/zapravka/internal/server"
	"github.com/rubiojr/zapravka/internal/service"
	"github.com/rubiojr/zapravka/internal/store"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the station simulation and its HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Configuration file (yaml or json)",
			},
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address to listen on",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Simulation seed, 0 derives one from the clock",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Mutation mode: poll or timer",
			},
			verboseFlag,
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("listen") {
		cfg.Listen = c.String("listen")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Uint64("seed")
	}
	if c.IsSet("mode") {
		cfg.Mutation.Mode = c.String("mode")
	}
	if c.Bool("verbose") {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := server.NewLogger(cfg.Logging.SlogLevel(), cfg.Logging.JSON)
	log := logger.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := resolveSeed(cfg.Seed)
	now := time.Now()
	st := store.New(fleet.New(seed, now).Generate(), fleet.DefaultRates(now))
	log.Info("fleet generated", "stations", st.Len(), "seed", seed)

	sink, err := metrics.NewPromSink()
	if err != nil {
		return fmt.Errorf("error registering metrics: %w", err)
	}
	engine := mutation.New(st, seed, mutation.WithSink(sink), mutation.WithLogger(log))

	opts := []service.Option{
		service.WithMode(service.Mode(cfg.Mutation.Mode), cfg.Mutation.Interval()),
		service.WithCacheTTL(cfg.Cache.TTL()),
		service.WithSink(sink),
		service.WithLogger(log),
	}
	if cfg.Geocoder.Enabled {
		geocode.SetRequestTimeout(cfg.Geocoder.Timeout())
		opts = append(opts, service.WithGeocoder(geocode.NewNominatim(cfg.Geocoder.Server)))
	} else {
		opts = append(opts, service.WithGeocoder(service.RegionPlaces()))
	}
	if cfg.SearchLog.Enabled {
		searches, err := searchlog.New(ctx, cfg.SearchLog.Path, log)
		if err != nil {
			return fmt.Errorf("error opening search log: %w", err)
		}
		defer searches.Close()
		opts = append(opts, service.WithSearchLog(searches))
	}

	svc := service.New(st, engine, opts...)
	go svc.Run(ctx)
	log.Info("mutation mode", "mode", svc.Mode(), "interval", cfg.Mutation.Interval())

	handler := server.New(svc, logger, server.Options{
		RateLimitPerMinute: cfg.RateLimit.PerMinute,
		Metrics:            promhttp.Handler(),
	})
	return server.Serve(ctx, cfg.Listen, handler, log)
}
