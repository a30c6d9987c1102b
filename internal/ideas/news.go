package ideas

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/marketbrief/ideawatch/internal/feeds/newsapi"
	"github.com/sirupsen/logrus"
)

// NewsFeed is the headline source consumed by the news synthesizer.
type NewsFeed interface {
	TopHeadlines(ctx context.Context) []newsapi.Article
}

// signalKeywords select headlines with geopolitical or financial relevance.
var signalKeywords = []string{
	"ceasefire", "peace", "truce", "election", "vote", "poll", "sanction",
	"etf", "sec", "bitcoin", "ethereum", "crypto", "war", "conflict",
	"tariff", "inflation", "interest rate", "opec", "nato", "summit",
}

// NewsSynthesizer drafts an idea from one matching headline. It remembers
// the URL of the previously used article and avoids repeating it when an
// alternative candidate exists. That single slot is the only anti-repeat
// state; it is deliberately weak and is not a deduplication guarantee.
type NewsSynthesizer struct {
	feed    NewsFeed
	rng     *rand.Rand
	log     *logrus.Logger
	lastURL string
}

// NewNewsSynthesizer creates a news-based synthesizer.
func NewNewsSynthesizer(feed NewsFeed, rng *rand.Rand, log *logrus.Logger) *NewsSynthesizer {
	return &NewsSynthesizer{feed: feed, rng: rng, log: log}
}

// Synthesize picks one relevant headline and drafts a question from it.
// Returns nil when no headline matches the signal keywords.
func (s *NewsSynthesizer) Synthesize(ctx context.Context) *Idea {
	articles := s.feed.TopHeadlines(ctx)

	var candidates []newsapi.Article
	for _, a := range articles {
		combined := strings.ToLower(a.Title + " " + a.Description)
		for _, kw := range signalKeywords {
			if strings.Contains(combined, kw) {
				candidates = append(candidates, a)
				break
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	// Drop the previously used article when an alternative exists.
	if len(candidates) > 1 && s.lastURL != "" {
		filtered := candidates[:0]
		for _, a := range candidates {
			if a.URL != s.lastURL {
				filtered = append(filtered, a)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	article := candidates[s.rng.Intn(len(candidates))]
	s.lastURL = article.URL

	// 14 to 90 days out
	deadline := time.Now().UTC().AddDate(0, 0, 14+s.rng.Intn(77))
	expiry := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 23, 59, 0, 0, time.UTC)
	date := expiry.Format("January 2, 2006")

	title, resolution := draftFromHeadline(article, date)

	s.log.WithFields(logrus.Fields{
		"headline": article.Title,
		"expiry":   expiry,
	}).Debug("Drafted idea from headline")

	return &Idea{
		ID:          newID(),
		Category:    CategoryNews,
		Title:       title,
		Resolution:  resolution,
		Notes:       fmt.Sprintf("Drafted from headline: %s", article.Title),
		Expiry:      &expiry,
		SourceLinks: []string{article.URL},
	}
}

// draftFromHeadline templates the question by headline topic bucket.
func draftFromHeadline(article newsapi.Article, date string) (title, resolution string) {
	combined := strings.ToLower(article.Title + " " + article.Description)
	headline := article.Title

	switch {
	case containsAny(combined, "ceasefire", "peace", "truce"):
		title = fmt.Sprintf("Will the ceasefire reported in %q still hold on %s?", headline, date)
		resolution = fmt.Sprintf("Resolves YES if credible reporting from at least two major outlets confirms the ceasefire remains in effect at end of day %s UTC.", date)
	case containsAny(combined, "election", "vote", "poll"):
		title = fmt.Sprintf("Will the vote covered in %q have an officially declared result by %s?", headline, date)
		resolution = fmt.Sprintf("Resolves YES if the relevant electoral authority publishes an official result on or before %s UTC.", date)
	case strings.Contains(combined, "sanction"):
		title = fmt.Sprintf("Will the sanctions discussed in %q be formally enacted by %s?", headline, date)
		resolution = fmt.Sprintf("Resolves YES if the sanctions are signed into force by the responsible government on or before %s UTC.", date)
	case containsAny(combined, "etf", "sec", "bitcoin", "ethereum", "crypto"):
		title = fmt.Sprintf("Will regulators issue a formal decision on the matter in %q by %s?", headline, date)
		resolution = fmt.Sprintf("Resolves YES if the responsible regulator publishes an approval, denial, or ruling on or before %s UTC.", date)
	default:
		title = fmt.Sprintf("Will the situation described in %q reach an official resolution by %s?", headline, date)
		resolution = fmt.Sprintf("Resolves YES if an authoritative announcement settling the matter is published on or before %s UTC.", date)
	}

	return title, resolution
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
