package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/zapravka/internal/fleet"
	"github.com/rubiojr/zapravka/pkg/api"
)

func ratesCommand() *cli.Command {
	return &cli.Command{
		Name:   "rates",
		Usage:  "Show market reference prices",
		Flags:  []cli.Flag{serverFlag},
		Action: ratesAction,
	}
}

func ratesAction(c *cli.Context) error {
	rates := fleet.DefaultRates(time.Now())
	if server := c.String("server"); server != "" {
		var err error
		rates, err = api.NewClient(server).FetchRates(c.Context)
		if err != nil {
			return fmt.Errorf("error fetching rates: %w", err)
		}
	}

	for _, r := range rates {
		fmt.Printf("%-14s %7d UZS  %+5d  %s\n", r.Kind, r.Price, r.Change, r.Trend)
	}
	return nil
}
