package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/zapravka/internal/fleet"
	"github.com/rubiojr/zapravka/internal/trip"
	"github.com/rubiojr/zapravka/pkg/api"
)

func tripCostCommand() *cli.Command {
	return &cli.Command{
		Name:  "trip-cost",
		Usage: "Estimate the fuel cost of a trip for every fuel kind",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "distance",
				Aliases:  []string{"d"},
				Usage:    "Trip distance in kilometers",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "consumption",
				Usage:    "Consumption per 100 km (liters, m3 or kWh)",
				Required: true,
			},
			serverFlag,
		},
		Action: tripCostAction,
	}
}

func tripCostAction(c *cli.Context) error {
	distance, err := trip.ParseAmount(c.String("distance"))
	if err != nil {
		return err
	}
	consumption, err := trip.ParseAmount(c.String("consumption"))
	if err != nil {
		return err
	}

	rates := fleet.DefaultRates(time.Now())
	if server := c.String("server"); server != "" {
		rates, err = api.NewClient(server).FetchRates(c.Context)
		if err != nil {
			return fmt.Errorf("error fetching rates: %w", err)
		}
	}

	costs, err := trip.Estimate(distance, consumption, rates)
	if err != nil {
		return err
	}
	for _, cost := range costs {
		fmt.Printf("%-14s %8s units x %6d UZS = %d UZS\n", cost.Kind, cost.Units.StringFixed(2), cost.UnitPrice, cost.Total)
	}
	return nil
}
