package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/zapravka/internal/searchlog"
)

func pruneSearchesCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune-searches",
		Usage: "Delete logged search locations not seen for a while",
		Flags: []cli.Flag{
			searchLogFlag,
			&cli.IntFlag{
				Name:  "days",
				Usage: "Delete locations last searched more than this many days ago",
				Value: 90,
			},
			&cli.BoolFlag{
				Name:  "vacuum",
				Usage: "Reclaim disk space afterwards",
			},
			verboseFlag,
		},
		Action: pruneSearchesAction,
	}
}

func pruneSearchesAction(c *cli.Context) error {
	searches, err := searchlog.New(c.Context, c.String("db"), commandLogger(c))
	if err != nil {
		return fmt.Errorf("error opening search log: %w", err)
	}
	defer searches.Close()

	deleted, err := searches.Prune(c.Context, c.Int("days"))
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d locations\n", deleted)

	if c.Bool("vacuum") {
		if err := searches.Vacuum(c.Context); err != nil {
			return err
		}
	}
	return nil
}
