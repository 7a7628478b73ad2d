package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/zapravka/internal/stats"
	"github.com/rubiojr/zapravka/pkg/api"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Summarize station prices per fuel kind",
		Flags:  []cli.Flag{serverFlag, seedFlag},
		Action: statsAction,
	}
}

func statsAction(c *cli.Context) error {
	var snap api.Snapshot
	if server := c.String("server"); server != "" {
		s, err := api.NewClient(server).FetchAll(c.Context)
		if err != nil {
			return fmt.Errorf("error fetching stations: %w", err)
		}
		snap = *s
	} else {
		snap = localStore(c.Uint64("seed")).Snapshot()
	}

	fmt.Printf("%d stations (version %d)\n\n", len(snap.Stations), snap.Version)
	for _, s := range stats.Overview(snap.Stations, snap.Rates) {
		fmt.Printf("%s\n", s.Kind)
		fmt.Printf("   Stations: %d (%d available)\n", s.Stations, s.Available)
		if s.Available > 0 {
			fmt.Printf("   Min/Median/Max: %d / %d / %d UZS\n", s.Min, s.Median, s.Max)
			fmt.Printf("   Mean: %.0f UZS\n", s.Mean)
		}
		if s.MarketRate > 0 {
			fmt.Printf("   Market rate: %d UZS\n", s.MarketRate)
		}
	}
	return nil
}
