package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marketbrief/ideawatch/internal/config"
	"github.com/sirupsen/logrus"
)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		NewsAPIBaseURL: server.URL,
		NewsAPIKey:     apiKey,
		NewsCountry:    "us",
	}
	return NewClient(cfg, logrus.New())
}

func TestTopHeadlines(t *testing.T) {
	client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Write([]byte(`{"status":"ok","articles":[{"title":"Ceasefire talks resume","description":"Negotiators met","url":"https://example.com/a"}]}`))
	})

	articles := client.TopHeadlines(context.Background())
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].Title != "Ceasefire talks resume" {
		t.Errorf("unexpected article: %+v", articles[0])
	}
}

func TestTopHeadlinesNoCredential(t *testing.T) {
	called := false
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	articles := client.TopHeadlines(context.Background())
	if articles != nil {
		t.Errorf("expected nil without credential, got %v", articles)
	}
	if called {
		t.Error("client should not call the API without a credential")
	}
}

func TestTopHeadlinesServerError(t *testing.T) {
	client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	if articles := client.TopHeadlines(context.Background()); len(articles) != 0 {
		t.Errorf("expected empty result on server error, got %d", len(articles))
	}
}

func TestTopHeadlinesBadStatus(t *testing.T) {
	client := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","articles":[]}`))
	})

	if articles := client.TopHeadlines(context.Background()); len(articles) != 0 {
		t.Errorf("expected empty result on feed error status, got %d", len(articles))
	}
}
