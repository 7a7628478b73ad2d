// Package api provides the station data model shared by the zapravka service
// and its clients, plus an HTTP client for the service's REST surface.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultBaseURL = "http://127.0.0.1:8080"
)

// SearchResponse is the payload returned by the search endpoint.
type SearchResponse struct {
	Viewer   *Coordinate `json:"viewer,omitempty"`
	Warning  string      `json:"warning,omitempty"`
	Version  uint64      `json:"version"`
	Count    int         `json:"count"`
	Stations []Station   `json:"stations"`
}

// Client talks to a running zapravka server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Client with default settings.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// FetchAll fetches the full station snapshot together with market rates.
func (c *Client) FetchAll(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := c.get(ctx, "/api/stations", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// FetchRates fetches the market rate snapshot.
func (c *Client) FetchRates(ctx context.Context) ([]MarketRate, error) {
	var rates []MarketRate
	if err := c.get(ctx, "/api/rates", nil, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

// PollLatest asks the server for the latest station state.
func (c *Client) PollLatest(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := c.get(ctx, "/api/stations/latest", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Search runs a filtered, ranked station query on the server.
func (c *Client) Search(ctx context.Context, params url.Values) (*SearchResponse, error) {
	var res SearchResponse
	if err := c.get(ctx, "/api/search", params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error fetching data: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error unmarshaling JSON: %w", err)
	}
	return nil
}

// ParseCoordinate parses a latitude/longitude pair, accepting either a comma
// or a dot as decimal separator.
func ParseCoordinate(lat, lng string) (Coordinate, error) {
	la, err := parseLatLong(lat)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid latitude %q: %w", lat, err)
	}
	lo, err := parseLatLong(lng)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid longitude %q: %w", lng, err)
	}
	if math.IsNaN(la) || math.IsNaN(lo) {
		return Coordinate{}, fmt.Errorf("coordinate is not a number: %q, %q", lat, lng)
	}
	if la < -90 || la > 90 {
		return Coordinate{}, fmt.Errorf("latitude out of range: %g", la)
	}
	if lo < -180 || lo > 180 {
		return Coordinate{}, fmt.Errorf("longitude out of range: %g", lo)
	}
	return Coordinate{Lat: la, Lng: lo}, nil
}

// parseLatLong parses a latitude or longitude string (with comma or dot) to float64.
func parseLatLong(s string) (float64, error) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	m, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	return m, nil
}
