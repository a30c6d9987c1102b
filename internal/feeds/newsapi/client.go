// Package newsapi fetches top headlines from NewsAPI. A missing credential
// or a failed call yields an empty article list, never an error.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/marketbrief/ideawatch/internal/config"
	"github.com/marketbrief/ideawatch/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Article is one news item from the headlines feed
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type headlinesResponse struct {
	Status   string    `json:"status"`
	Articles []Article `json:"articles"`
}

// Client handles communication with NewsAPI
type Client struct {
	baseURL    string
	apiKey     string
	country    string
	httpClient *http.Client
	log        *logrus.Logger
}

// NewClient creates a new NewsAPI client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		baseURL:    cfg.NewsAPIBaseURL,
		apiKey:     cfg.NewsAPIKey,
		country:    cfg.NewsCountry,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// TopHeadlines fetches current top headlines. When no credential is
// configured, or the call fails, it returns an empty list.
func (c *Client) TopHeadlines(ctx context.Context) []Article {
	if c.apiKey == "" {
		c.log.Debug("No news credential configured, skipping headlines fetch")
		return nil
	}

	start := time.Now()
	articles, err := c.fetchHeadlines(ctx)
	metrics.RecordFeedRequest("news", time.Since(start), err)

	if err != nil {
		c.log.WithError(err).Warn("Headlines fetch failed, continuing without news")
		return nil
	}
	return articles
}

func (c *Client) fetchHeadlines(ctx context.Context) ([]Article, error) {
	u, err := url.Parse(c.baseURL + "/v2/top-headlines")
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}

	q := u.Query()
	q.Set("country", c.country)
	q.Set("pageSize", "50")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var parsed headlinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if parsed.Status != "ok" {
		return nil, fmt.Errorf("news feed returned status %q", parsed.Status)
	}

	return parsed.Articles, nil
}
