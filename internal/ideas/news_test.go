package ideas

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/marketbrief/ideawatch/internal/feeds/newsapi"
	"github.com/sirupsen/logrus"
)

type stubNewsFeed struct {
	articles []newsapi.Article
}

func (f *stubNewsFeed) TopHeadlines(ctx context.Context) []newsapi.Article {
	return f.articles
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestNewsSynthesizerNoCandidates(t *testing.T) {
	feed := &stubNewsFeed{articles: []newsapi.Article{
		{Title: "Local bakery wins award", Description: "Croissants praised", URL: "https://example.com/a"},
	}}
	s := NewNewsSynthesizer(feed, newTestRand(), logrus.New())

	if idea := s.Synthesize(context.Background()); idea != nil {
		t.Errorf("expected no result for irrelevant headlines, got %+v", idea)
	}
}

func TestNewsSynthesizerEmptyFeed(t *testing.T) {
	s := NewNewsSynthesizer(&stubNewsFeed{}, newTestRand(), logrus.New())
	if idea := s.Synthesize(context.Background()); idea != nil {
		t.Errorf("expected no result for empty feed, got %+v", idea)
	}
}

func TestNewsSynthesizerDraftsIdea(t *testing.T) {
	feed := &stubNewsFeed{articles: []newsapi.Article{
		{Title: "Ceasefire talks resume in region", Description: "Mediators hopeful", URL: "https://example.com/a"},
	}}
	s := NewNewsSynthesizer(feed, newTestRand(), logrus.New())

	idea := s.Synthesize(context.Background())
	if idea == nil {
		t.Fatal("expected an idea")
	}
	if idea.Title == "" || idea.Resolution == "" {
		t.Error("idea must have non-empty title and resolution")
	}
	if idea.Category != CategoryNews {
		t.Errorf("expected category %s, got %s", CategoryNews, idea.Category)
	}
	if !strings.Contains(idea.Title, "ceasefire") {
		t.Errorf("expected ceasefire template, got %q", idea.Title)
	}
	if len(idea.SourceLinks) != 1 || idea.SourceLinks[0] != "https://example.com/a" {
		t.Errorf("expected source link to article, got %v", idea.SourceLinks)
	}

	if idea.Expiry == nil {
		t.Fatal("expected an expiry")
	}
	days := time.Until(*idea.Expiry).Hours() / 24
	if days < 13 || days > 91 {
		t.Errorf("expiry %.1f days out, want within [14, 90]", days)
	}
}

func TestNewsSynthesizerTopicBuckets(t *testing.T) {
	tests := []struct {
		name        string
		article     newsapi.Article
		wantInTitle string
	}{
		{"election bucket", newsapi.Article{Title: "Nation heads to the polls", Description: "Vote on Sunday", URL: "u"}, "officially declared result"},
		{"sanction bucket", newsapi.Article{Title: "New sanction package proposed", URL: "u"}, "formally enacted"},
		{"crypto bucket", newsapi.Article{Title: "SEC weighs bitcoin ETF", URL: "u"}, "formal decision"},
		{"generic bucket", newsapi.Article{Title: "NATO summit opens", URL: "u"}, "official resolution"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewNewsSynthesizer(&stubNewsFeed{articles: []newsapi.Article{tt.article}}, newTestRand(), logrus.New())
			idea := s.Synthesize(context.Background())
			if idea == nil {
				t.Fatal("expected an idea")
			}
			if !strings.Contains(idea.Title, tt.wantInTitle) && !strings.Contains(idea.Resolution, tt.wantInTitle) {
				t.Errorf("expected %q in title or resolution, got title %q resolution %q", tt.wantInTitle, idea.Title, idea.Resolution)
			}
		})
	}
}

func TestNewsSynthesizerAvoidsImmediateRepeat(t *testing.T) {
	feed := &stubNewsFeed{articles: []newsapi.Article{
		{Title: "Ceasefire reported", URL: "https://example.com/a"},
		{Title: "Election called", URL: "https://example.com/b"},
	}}
	s := NewNewsSynthesizer(feed, newTestRand(), logrus.New())

	first := s.Synthesize(context.Background())
	if first == nil {
		t.Fatal("expected an idea")
	}

	// With an alternative available, consecutive draws must switch articles.
	prev := first
	for i := 0; i < 10; i++ {
		next := s.Synthesize(context.Background())
		if next == nil {
			t.Fatal("expected an idea")
		}
		if next.SourceLinks[0] == prev.SourceLinks[0] {
			t.Errorf("draw %d repeated previous article %s despite alternative", i, prev.SourceLinks[0])
		}
		prev = next
	}
}

func TestNewsSynthesizerSingleCandidateMayRepeat(t *testing.T) {
	feed := &stubNewsFeed{articles: []newsapi.Article{
		{Title: "Ceasefire reported", URL: "https://example.com/a"},
	}}
	s := NewNewsSynthesizer(feed, newTestRand(), logrus.New())

	for i := 0; i < 3; i++ {
		idea := s.Synthesize(context.Background())
		if idea == nil {
			t.Fatal("single candidate must still produce an idea even when last used")
		}
	}
}
