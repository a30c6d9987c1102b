package ideas

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/marketbrief/ideawatch/internal/feeds/prices"
	"github.com/sirupsen/logrus"
)

// PriceFeed is the spot-price source consumed by the crypto synthesizer.
type PriceFeed interface {
	Spot(ctx context.Context) map[string]float64
}

// PriceSynthesizer drafts a "will X trade above target" question from a live
// crypto spot price.
type PriceSynthesizer struct {
	feed PriceFeed
	rng  *rand.Rand
	log  *logrus.Logger
}

// NewPriceSynthesizer creates a price-based crypto synthesizer.
func NewPriceSynthesizer(feed PriceFeed, rng *rand.Rand, log *logrus.Logger) *PriceSynthesizer {
	return &PriceSynthesizer{feed: feed, rng: rng, log: log}
}

// Synthesize picks a random supported asset with a known spot price and
// targets 5-20% above it, 7-30 days out. Returns nil when no supported
// asset has a known price.
func (s *PriceSynthesizer) Synthesize(ctx context.Context) *Idea {
	quotes := s.feed.Spot(ctx)

	var candidates []string
	for _, sym := range prices.SupportedAssets {
		if _, ok := quotes[sym]; ok {
			candidates = append(candidates, sym)
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	asset := candidates[s.rng.Intn(len(candidates))]
	price := quotes[asset]

	multiplier := 1.05 + s.rng.Float64()*0.15
	target := math.Round(price*multiplier*100) / 100

	// 7 to 30 days out
	deadline := time.Now().UTC().AddDate(0, 0, 7+s.rng.Intn(24))
	expiry := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 23, 59, 0, 0, time.UTC)
	date := expiry.Format("January 2, 2006")

	s.log.WithFields(logrus.Fields{
		"asset":  asset,
		"price":  price,
		"target": target,
		"expiry": expiry,
	}).Debug("Drafted price-based crypto idea")

	return &Idea{
		ID:       newID(),
		Category: CategoryCrypto,
		Title:    fmt.Sprintf("Will %s trade above $%.2f on %s?", asset, target, date),
		Resolution: fmt.Sprintf(
			"Resolves YES if the %s/USD spot price on CoinGecko is above $%.2f at 23:59 UTC on %s. If CoinGecko is unavailable, the Binance %sUSDT spot price is used.",
			asset, target, date, asset),
		Notes:       fmt.Sprintf("Spot price at draft time: $%.2f.", price),
		Expiry:      &expiry,
		SourceLinks: []string{"https://www.coingecko.com"},
	}
}
