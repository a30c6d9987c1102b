package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marketbrief/ideawatch/internal/config"
	"github.com/sirupsen/logrus"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		ListingAPIBaseURL: server.URL,
		ListingPageSize:   50,
		ListingRPS:        100,
	}
	log := logrus.New()
	return NewClient(cfg, log), server
}

func TestActiveMarketsBareArray(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("active") != "true" || r.URL.Query().Get("closed") != "false" {
			t.Errorf("missing active/closed query params: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`[{"id":"m1","question":"Will BTC hit 100k?","slug":"btc-100k","lastTradePrice":0.4}]`))
	})

	markets := client.ActiveMarkets(context.Background())
	if len(markets) != 1 {
		t.Fatalf("expected 1 market, got %d", len(markets))
	}
	if markets[0].ID != "m1" || markets[0].Question != "Will BTC hit 100k?" {
		t.Errorf("unexpected market: %+v", markets[0])
	}
	if p := markets[0].Price(); p == nil || *p != 0.4 {
		t.Errorf("expected price 0.4, got %v", p)
	}
}

func TestActiveMarketsWrapped(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"markets":[{"id":"m1","question":"Q1"},{"id":"m2","question":"Q2"}]}`))
	})

	markets := client.ActiveMarkets(context.Background())
	if len(markets) != 2 {
		t.Fatalf("expected 2 markets, got %d", len(markets))
	}
}

func TestActiveMarketsDataWrapped(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"m1","question":"Q1"}],"count":1}`))
	})

	markets := client.ActiveMarkets(context.Background())
	if len(markets) != 1 {
		t.Fatalf("expected 1 market, got %d", len(markets))
	}
}

func TestActiveMarketsServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	markets := client.ActiveMarkets(context.Background())
	if len(markets) != 0 {
		t.Errorf("expected empty batch on server error, got %d markets", len(markets))
	}
}

func TestActiveMarketsMalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"markets": "oops`))
	})

	markets := client.ActiveMarkets(context.Background())
	if len(markets) != 0 {
		t.Errorf("expected empty batch on parse error, got %d markets", len(markets))
	}
}

func TestMarketPrice(t *testing.T) {
	lastTrade := 0.33

	tests := []struct {
		name     string
		market   Market
		expected *float64
	}{
		{"outcome prices json array", Market{OutcomePrices: `["0.4", "0.6"]`}, ptr(0.4)},
		{"outcome prices csv", Market{OutcomePrices: "0.25,0.75"}, ptr(0.25)},
		{"falls back to last trade", Market{LastTradePrice: &lastTrade}, ptr(0.33)},
		{"outcome prices win over last trade", Market{OutcomePrices: "0.9,0.1", LastTradePrice: &lastTrade}, ptr(0.9)},
		{"no price at all", Market{}, nil},
		{"garbage outcome prices", Market{OutcomePrices: "n/a"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.market.Price()
			if (got == nil) != (tt.expected == nil) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			if got != nil && *got != *tt.expected {
				t.Errorf("got %f, want %f", *got, *tt.expected)
			}
		})
	}
}

func TestCanonicalURL(t *testing.T) {
	withSlug := Market{Slug: "btc-100k"}
	if got := withSlug.CanonicalURL(); got != "https://polymarket.com/market/btc-100k" {
		t.Errorf("unexpected URL: %s", got)
	}

	noSlug := Market{}
	if got := noSlug.CanonicalURL(); got != "https://polymarket.com" {
		t.Errorf("unexpected fallback URL: %s", got)
	}
}

func ptr(f float64) *float64 { return &f }
