package main

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/zapravka/internal/config"
	"github.com/rubiojr/zapravka/internal/geocode"
	"github.com/rubiojr/zapravka/internal/mutation"
	"github.com/rubiojr/zapravka/internal/query"
	"github.com/rubiojr/zapravka/internal/service"
	"github.com/rubiojr/zapravka/pkg/api"
)

const (
	defaultRadiusKm = 5.0
	defaultLimit    = 20
)

func listNearbyCommand() *cli.Command {
	return &cli.Command{
		Name:  "list-nearby",
		Usage: "List nearby fuel and charging stations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "location",
				Usage: "Place name to search from",
			},
			&cli.Float64Flag{
				Name:  "lat",
				Usage: "Latitude of the location",
			},
			&cli.Float64Flag{
				Name:    "lng",
				Aliases: []string{"long"},
				Usage:   "Longitude of the location",
			},
			&cli.Float64Flag{
				Name:    "radius",
				Aliases: []string{"r"},
				Usage:   "Search radius in kilometers, 0 for no limit",
				Value:   defaultRadiusKm,
			},
			&cli.StringFlag{
				Name:  "q",
				Usage: "Text to match against name, address or district",
			},
			&cli.StringFlag{
				Name:  "region",
				Usage: "Only stations in this region",
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "all, petrol, gas or electric",
				Value: string(query.CategoryAll),
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "distance, price or rating",
				Value: string(query.SortDistance),
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Only stations that are open",
			},
			&cli.StringSliceFlag{
				Name:  "amenity",
				Usage: "Required amenity, may be repeated",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of stations to print",
				Value: defaultLimit,
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Resolve --location against region names instead of Nominatim",
			},
			serverFlag,
			seedFlag,
			verboseFlag,
		},
		Action: listNearbyAction,
	}
}

func listNearbyAction(c *cli.Context) error {
	req := service.SearchRequest{
		Criteria: query.Criteria{
			SearchText: c.String("q"),
			Region:     c.String("region"),
			Category:   query.Category(c.String("category")),
			Sort:       query.SortKey(c.String("sort")),
			OpenOnly:   c.Bool("open"),
			RadiusKm:   c.Float64("radius"),
		},
		Place: c.String("location"),
	}
	for _, a := range c.StringSlice("amenity") {
		req.Criteria.RequiredAmenities = append(req.Criteria.RequiredAmenities, api.Amenity(a))
	}
	if c.IsSet("lat") || c.IsSet("lng") {
		viewer, err := api.ParseCoordinate(
			strconv.FormatFloat(c.Float64("lat"), 'f', -1, 64),
			strconv.FormatFloat(c.Float64("lng"), 'f', -1, 64),
		)
		if err != nil {
			return err
		}
		req.Viewer = &viewer
	}
	if req.Viewer == nil && req.Place == "" {
		return errors.New("location or latitude and longitude are required")
	}
	if err := req.Criteria.Validate(); err != nil {
		return err
	}

	var (
		res *api.SearchResponse
		err error
	)
	if server := c.String("server"); server != "" {
		res, err = api.NewClient(server).Search(c.Context, searchValues(req))
	} else {
		res, err = searchLocal(c, req)
	}
	if err != nil {
		return fmt.Errorf("error searching stations: %w", err)
	}

	printStations(res, c.Int("limit"))
	return nil
}

func searchLocal(c *cli.Context, req service.SearchRequest) (*api.SearchResponse, error) {
	logger := commandLogger(c)
	st := localStore(c.Uint64("seed"))

	geocode.SetRequestTimeout(config.Default().Geocoder.Timeout())
	var geocoder geocode.Geocoder = geocode.NewNominatim(geocode.DefaultServer)
	if c.Bool("offline") {
		geocoder = service.RegionPlaces()
	}
	svc := service.New(st, mutation.New(st, 0),
		service.WithGeocoder(geocoder),
		service.WithCacheTTL(0),
		service.WithLogger(logger))

	res, err := svc.Search(c.Context, req)
	if err != nil {
		return nil, err
	}
	return &api.SearchResponse{
		Viewer:   res.Viewer,
		Warning:  res.Warning,
		Version:  res.Version,
		Count:    len(res.Stations),
		Stations: res.Stations,
	}, nil
}

// searchValues encodes req as the query string understood by the search
// endpoint.
func searchValues(req service.SearchRequest) url.Values {
	v := url.Values{}
	c := req.Criteria
	if c.SearchText != "" {
		v.Set("q", c.SearchText)
	}
	if c.Region != "" {
		v.Set("region", c.Region)
	}
	if c.Category != "" {
		v.Set("category", string(c.Category))
	}
	if c.Sort != "" {
		v.Set("sort", string(c.Sort))
	}
	if c.OpenOnly {
		v.Set("open", "true")
	}
	for _, a := range c.RequiredAmenities {
		v.Add("amenity", string(a))
	}
	if c.RadiusKm > 0 {
		v.Set("radius", strconv.FormatFloat(c.RadiusKm, 'f', -1, 64))
	}
	if req.Viewer != nil {
		v.Set("lat", strconv.FormatFloat(req.Viewer.Lat, 'f', -1, 64))
		v.Set("lng", strconv.FormatFloat(req.Viewer.Lng, 'f', -1, 64))
	} else if req.Place != "" {
		v.Set("location", req.Place)
	}
	return v
}

func printStations(res *api.SearchResponse, limit int) {
	if res.Warning != "" {
		fmt.Println("Warning:", res.Warning)
	}
	if res.Viewer != nil {
		fmt.Printf("Searching from %.4f, %.4f\n\n", res.Viewer.Lat, res.Viewer.Lng)
	}

	stations := res.Stations
	if limit > 0 && len(stations) > limit {
		stations = stations[:limit]
	}
	for i, st := range stations {
		fmt.Printf("%d. %s (%s)\n", i+1, st.Name, st.Address)
		fmt.Printf("   Region: %s, %s\n", st.Region, st.District)
		if st.Distance != nil {
			fmt.Printf("   Distance: %.2f km\n", *st.Distance)
		}
		fmt.Printf("   Open: %t, queue: %s, rating: %.1f (%d reviews)\n", st.IsOpen, st.QueueStatus, st.Rating, st.ReviewCount)
		for _, f := range st.Fuels {
			status := ""
			if !f.Available {
				status = " (unavailable)"
			}
			fmt.Printf("   %s: %d UZS%s\n", f.Kind, f.Price, status)
		}
		fmt.Println()
	}

	fmt.Printf("Found %d stations\n\n", res.Count)
}
