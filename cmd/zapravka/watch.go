package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/zapravka/pkg/api"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Follow live station updates from a server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Usage: "zapravka server URL",
				Value: api.DefaultBaseURL,
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Polling interval",
				Value: api.DefaultPollInterval,
			},
			verboseFlag,
		},
		Action: watchAction,
	}
}

func watchAction(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var previous *api.Snapshot
	poller := api.NewPoller(api.NewClient(c.String("server")), c.Duration("interval"), commandLogger(c), func(snap *api.Snapshot) {
		fmt.Printf("version %d: %d stations", snap.Version, len(snap.Stations))
		if previous != nil {
			fmt.Printf(", %d changed", changedStations(previous.Stations, snap.Stations))
		}
		fmt.Println()
		previous = snap
	})

	if err := poller.Start(ctx); err != nil {
		return fmt.Errorf("error loading stations: %w", err)
	}
	poller.Run(ctx)
	return nil
}

// changedStations counts stations whose last update moved between two
// snapshots.
func changedStations(before, after []api.Station) int {
	seen := make(map[string]api.Station, len(before))
	for _, st := range before {
		seen[st.ID] = st
	}
	changed := 0
	for _, st := range after {
		old, ok := seen[st.ID]
		if !ok || !old.LastUpdated.Equal(st.LastUpdated) {
			changed++
		}
	}
	return changed
}
