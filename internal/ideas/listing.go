package ideas

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/marketbrief/ideawatch/internal/classifier"
	"github.com/marketbrief/ideawatch/internal/feeds/listing"
	"github.com/sirupsen/logrus"
)

// MarketFeed is the listing-service source consumed by the listing
// synthesizer and the price alert detector.
type MarketFeed interface {
	ActiveMarkets(ctx context.Context) []listing.Market
}

// ListingSynthesizer reframes an existing market of one category into a new
// idea draft. Two instances are used: one filtering for Macro markets, one
// for Politics.
type ListingSynthesizer struct {
	feed     MarketFeed
	category string // classifier category to filter for
	tag      string // idea category on the output
	rng      *rand.Rand
	log      *logrus.Logger
}

// NewMacroSynthesizer creates a listing synthesizer for macro markets.
func NewMacroSynthesizer(feed MarketFeed, rng *rand.Rand, log *logrus.Logger) *ListingSynthesizer {
	return &ListingSynthesizer{
		feed:     feed,
		category: classifier.CategoryMacro,
		tag:      CategoryMacro,
		rng:      rng,
		log:      log,
	}
}

// NewPoliticsSynthesizer creates a listing synthesizer for politics markets.
func NewPoliticsSynthesizer(feed MarketFeed, rng *rand.Rand, log *logrus.Logger) *ListingSynthesizer {
	return &ListingSynthesizer{
		feed:     feed,
		category: classifier.CategoryPolitics,
		tag:      CategoryPolitics,
		rng:      rng,
		log:      log,
	}
}

// Synthesize picks one listed market of the configured category and reframes
// its question. Returns nil when no listed market matches the category.
func (s *ListingSynthesizer) Synthesize(ctx context.Context) *Idea {
	records := s.feed.ActiveMarkets(ctx)

	var candidates []listing.Market
	for _, rec := range records {
		if classifier.Classify(rec.Question) == s.category {
			candidates = append(candidates, rec)
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	market := candidates[s.rng.Intn(len(candidates))]
	url := market.CanonicalURL()

	s.log.WithFields(logrus.Fields{
		"category": s.category,
		"market":   market.Question,
	}).Debug("Reframing listed market into idea")

	return &Idea{
		ID:          newID(),
		Category:    s.tag,
		Title:       fmt.Sprintf("Will %q resolve YES?", market.Question),
		Resolution:  "Resolves using the same data source and outcome criteria as the referenced market.",
		Notes:       fmt.Sprintf("Inspired by an existing market: %s", url),
		SourceLinks: []string{url},
	}
}
