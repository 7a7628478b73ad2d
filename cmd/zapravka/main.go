package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/zapravka/internal/fleet"
	"github.com/rubiojr/zapravka/internal/store"
)

func main() {
	app := &cli.App{
		Name:  "zapravka",
		Usage: "Simulate Uzbekistan's fuel and charging stations and find the right one",
		Commands: []*cli.Command{
			serveCommand(),
			listNearbyCommand(),
			ratesCommand(),
			statsCommand(),
			tripCostCommand(),
			watchCommand(),
			popularLocationsCommand(),
			pruneSearchesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	serverFlag = &cli.StringFlag{
		Name:  "server",
		Usage: "Query a running zapravka server instead of a local fleet",
	}
	seedFlag = &cli.Uint64Flag{
		Name:  "seed",
		Usage: "Fleet seed for local runs, 0 derives one from the clock",
		Value: 1,
	}
	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log debug output to stderr",
	}
)

func commandLogger(c *cli.Context) *slog.Logger {
	if !c.Bool("verbose") {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func resolveSeed(seed uint64) uint64 {
	if seed == 0 {
		return uint64(time.Now().UnixNano())
	}
	return seed
}

// localStore generates a fresh fleet for commands that run without a server.
func localStore(seed uint64) *store.FleetStore {
	now := time.Now()
	return store.New(fleet.New(resolveSeed(seed), now).Generate(), fleet.DefaultRates(now))
}
