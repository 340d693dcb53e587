// Package navfeed fetches mutual fund NAV history from an AMFI-style HTTP
// endpoint (one document per scheme, newest first).
package navfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"nidhi/internal/core"
	"nidhi/internal/log"
)

const (
	requestTimeout   = 15 * time.Second
	maxConcurrent    = 4
	feedDateLayout   = "02-01-2006"
	defaultUserAgent = "nidhi/1.0"
)

// Client talks to a NAV feed like https://api.mfapi.in/mf/{scheme}.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *log.Logger
}

func NewClient(baseURL string, logger *log.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// feedResponse mirrors the upstream document. NAV values arrive as strings.
type feedResponse struct {
	Meta struct {
		SchemeCode json.Number `json:"scheme_code"`
		SchemeName string      `json:"scheme_name"`
	} `json:"meta"`
	Data []struct {
		Date string `json:"date"` // DD-MM-YYYY
		NAV  string `json:"nav"`
	} `json:"data"`
	Status string `json:"status"`
}

// Fetch returns one scheme's history, newest first, skipping malformed rows.
func (c *Client) Fetch(ctx context.Context, scheme string) ([]core.NAVPoint, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, scheme)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build nav request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch nav history for scheme %s: %w", scheme, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch nav history for scheme %s: unexpected status %d", scheme, resp.StatusCode)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode nav history for scheme %s: %w", scheme, err)
	}

	points := make([]core.NAVPoint, 0, len(feed.Data))
	for _, row := range feed.Data {
		t, err := time.Parse(feedDateLayout, row.Date)
		if err != nil {
			c.logger.Warn("skipping nav row with bad date", "scheme", scheme, "date", row.Date)
			continue
		}
		nav, err := strconv.ParseFloat(row.NAV, 64)
		if err != nil || nav <= 0 {
			c.logger.Warn("skipping nav row with bad value", "scheme", scheme, "nav", row.NAV)
			continue
		}
		points = append(points, core.NAVPoint{Date: core.DateOf(t), NAV: nav})
	}
	return points, nil
}

// FetchAll fetches every scheme concurrently. One scheme failing fails the
// whole batch so a refresh run is all-or-nothing per cycle.
func (c *Client) FetchAll(ctx context.Context, schemes []string) (map[string][]core.NAVPoint, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	var mu sync.Mutex
	out := make(map[string][]core.NAVPoint, len(schemes))

	for _, scheme := range schemes {
		g.Go(func() error {
			points, err := c.Fetch(ctx, scheme)
			if err != nil {
				return err
			}
			mu.Lock()
			out[scheme] = points
			mu.Unlock()
			c.logger.Info("fetched nav history", "scheme", scheme, "points", len(points))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
