package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/zapravka/internal/searchlog"
)

var searchLogFlag = &cli.StringFlag{
	Name:  "db",
	Usage: "Search log database file",
	Value: "search_log.db",
}

func popularLocationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "popular-locations",
		Usage: "List the most searched locations",
		Flags: []cli.Flag{
			searchLogFlag,
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of locations",
				Value: defaultLimit,
			},
			verboseFlag,
		},
		Action: popularLocationsAction,
	}
}

func popularLocationsAction(c *cli.Context) error {
	searches, err := searchlog.New(c.Context, c.String("db"), commandLogger(c))
	if err != nil {
		return fmt.Errorf("error opening search log: %w", err)
	}
	defer searches.Close()

	locs, err := searches.Popular(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	if len(locs) == 0 {
		fmt.Println("No searches logged yet.")
		return nil
	}
	for i, l := range locs {
		fmt.Printf("%d. %.2f, %.2f  %d searches, radius %.1f km\n", i+1, l.Latitude, l.Longitude, l.SearchCount, l.RadiusKm)
	}
	return nil
}
