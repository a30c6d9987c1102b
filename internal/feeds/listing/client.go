// Package listing fetches active markets from the prediction-market listing
// service. Transport and parse failures degrade to an empty result so one
// bad poll never takes down a tick.
package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/marketbrief/ideawatch/internal/config"
	"github.com/marketbrief/ideawatch/internal/metrics"
	"github.com/marketbrief/ideawatch/internal/ratelimit"
	"github.com/sirupsen/logrus"
)

// Client handles communication with the listing service
type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	log        *logrus.Logger
}

// NewClient creates a new listing service client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		baseURL:    cfg.ListingAPIBaseURL,
		pageSize:   cfg.ListingPageSize,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    ratelimit.New(cfg.ListingRPS),
		log:        log,
	}
}

// ActiveMarkets fetches the current page of active, non-closed markets.
// Any failure is logged and reported as an empty batch.
func (c *Client) ActiveMarkets(ctx context.Context) []Market {
	start := time.Now()
	records, err := c.fetchMarkets(ctx)
	metrics.RecordFeedRequest("listing", time.Since(start), err)

	if err != nil {
		c.log.WithError(err).Warn("Listing fetch failed, continuing with empty batch")
		return nil
	}
	return records
}

func (c *Client) fetchMarkets(ctx context.Context) ([]Market, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u, err := url.Parse(c.baseURL + "/markets")
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}

	q := u.Query()
	q.Set("active", "true")
	q.Set("closed", "false")
	q.Set("limit", strconv.Itoa(c.pageSize))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return decodeMarkets(body)
}

// decodeMarkets accepts both a bare array body and the wrapped
// {"markets": [...]} / {"data": [...]} envelope shapes.
func decodeMarkets(body []byte) ([]Market, error) {
	var markets []Market
	if err := json.Unmarshal(body, &markets); err == nil {
		return markets, nil
	}

	var envelope marketsEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Markets != nil {
			return envelope.Markets, nil
		}
		if envelope.Data != nil {
			return envelope.Data, nil
		}
	}

	return nil, fmt.Errorf("failed to decode markets response")
}
