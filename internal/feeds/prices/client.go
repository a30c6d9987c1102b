// Package prices fetches spot prices for a fixed set of crypto assets from
// CoinGecko. Failures degrade to an empty mapping.
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/marketbrief/ideawatch/internal/config"
	"github.com/marketbrief/ideawatch/internal/metrics"
	"github.com/sirupsen/logrus"
)

// SupportedAssets lists the tracked symbols in a fixed order.
var SupportedAssets = []string{"BTC", "ETH", "SOL"}

// coinIDs maps asset symbols to CoinGecko coin ids.
var coinIDs = map[string]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
	"SOL": "solana",
}

// Client handles communication with the price service
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

// NewClient creates a new price service client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		baseURL:    cfg.PriceAPIBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Spot returns current USD prices keyed by asset symbol. On failure it
// returns an empty map, logged but never fatal.
func (c *Client) Spot(ctx context.Context) map[string]float64 {
	start := time.Now()
	quotes, err := c.fetchSpot(ctx)
	metrics.RecordFeedRequest("prices", time.Since(start), err)

	if err != nil {
		c.log.WithError(err).Warn("Spot price fetch failed, continuing without prices")
		return map[string]float64{}
	}
	return quotes
}

func (c *Client) fetchSpot(ctx context.Context) (map[string]float64, error) {
	ids := make([]string, 0, len(SupportedAssets))
	for _, sym := range SupportedAssets {
		ids = append(ids, coinIDs[sym])
	}

	u, err := url.Parse(c.baseURL + "/api/v3/simple/price")
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}

	q := u.Query()
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")
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

	var parsed map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	quotes := make(map[string]float64, len(SupportedAssets))
	for _, sym := range SupportedAssets {
		if entry, ok := parsed[coinIDs[sym]]; ok {
			if usd, ok := entry["usd"]; ok {
				quotes[sym] = usd
			}
		}
	}

	return quotes, nil
}
