package listing

import (
	"strconv"
	"strings"
)

// Market represents one active market from the listing service
type Market struct {
	ID             string   `json:"id"`
	Question       string   `json:"question"`
	Slug           string   `json:"slug"`
	OutcomePrices  string   `json:"outcomePrices"` // e.g. `["0.4","0.6"]` or "0.4,0.6"
	LastTradePrice *float64 `json:"lastTradePrice"`
	Active         bool     `json:"active"`
	Closed         bool     `json:"closed"`
}

// marketsEnvelope covers the wrapped response shapes
type marketsEnvelope struct {
	Markets []Market `json:"markets"`
	Data    []Market `json:"data"`
}

// Price returns the primary-outcome price in [0,1], or nil when the listing
// carries no usable price.
func (m *Market) Price() *float64 {
	if p := parseFirstPrice(m.OutcomePrices); p != nil {
		return p
	}
	return m.LastTradePrice
}

// CanonicalURL returns the public market page, falling back to the site root
// when the listing has no slug.
func (m *Market) CanonicalURL() string {
	if m.Slug == "" {
		return "https://polymarket.com"
	}
	return "https://polymarket.com/market/" + m.Slug
}

// parseFirstPrice extracts the first price from an outcomePrices field. The
// service emits either a JSON-encoded string array or a bare comma-separated
// list.
func parseFirstPrice(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "[]")
	if s == "" {
		return nil
	}

	first := s
	if idx := strings.Index(s, ","); idx >= 0 {
		first = s[:idx]
	}
	first = strings.Trim(strings.TrimSpace(first), `"`)

	v, err := strconv.ParseFloat(first, 64)
	if err != nil {
		return nil
	}
	return &v
}
