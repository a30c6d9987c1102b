package ideas

import (
	"context"
	"math/rand"
	"time"

	"github.com/marketbrief/ideawatch/internal/metrics"
	"github.com/sirupsen/logrus"
)

// FallbackTitle is the question on the static fallback idea.
const FallbackTitle = "Will Bitcoin trade above $100,000 at the end of this month?"

// Orchestrator walks the fallback chain until a synthesizer yields an idea:
// news first, then one of the two listing synthesizers picked 50/50, then
// the price-based crypto synthesizer, then the static fallback. The chain
// ordering encodes signal quality, best first.
type Orchestrator struct {
	news     Synthesizer
	macro    Synthesizer
	politics Synthesizer
	crypto   Synthesizer
	rng      *rand.Rand
	log      *logrus.Logger
}

// NewOrchestrator wires the fallback chain.
func NewOrchestrator(news, macro, politics, crypto Synthesizer, rng *rand.Rand, log *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		news:     news,
		macro:    macro,
		politics: politics,
		crypto:   crypto,
		rng:      rng,
		log:      log,
	}
}

// GenerateIdea produces exactly one well-formed idea. It never fails: when
// every signal source is dry, the static fallback idea is returned.
func (o *Orchestrator) GenerateIdea(ctx context.Context) *Idea {
	start := time.Now()

	if idea := o.news.Synthesize(ctx); idea != nil {
		metrics.RecordIdeaGeneration("news", time.Since(start))
		return idea
	}

	listingSynth, source := o.macro, "macro"
	if o.rng.Intn(2) == 1 {
		listingSynth, source = o.politics, "politics"
	}
	if idea := listingSynth.Synthesize(ctx); idea != nil {
		metrics.RecordIdeaGeneration(source, time.Since(start))
		return idea
	}

	if idea := o.crypto.Synthesize(ctx); idea != nil {
		metrics.RecordIdeaGeneration("crypto", time.Since(start))
		return idea
	}

	o.log.Info("All signal sources empty, using fallback idea")
	metrics.RecordIdeaGeneration("fallback", time.Since(start))
	return fallbackIdea(time.Now().UTC())
}

// fallbackIdea builds the canonical BTC end-of-month idea. This path must
// never fail.
func fallbackIdea(now time.Time) *Idea {
	firstOfNext := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	lastDay := firstOfNext.AddDate(0, 0, -1)
	expiry := time.Date(lastDay.Year(), lastDay.Month(), lastDay.Day(), 23, 59, 0, 0, time.UTC)

	return &Idea{
		ID:          newID(),
		Category:    CategoryFallback,
		Title:       FallbackTitle,
		Resolution:  "Resolves YES if the BTC/USD spot price on CoinGecko is above $100,000 at 23:59 UTC on the last day of the current calendar month.",
		Notes:       "Static fallback idea; no live signal was available.",
		Expiry:      &expiry,
		SourceLinks: []string{"https://polymarket.com"},
	}
}
