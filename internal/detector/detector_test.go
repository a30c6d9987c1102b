package detector

import (
	"testing"

	"github.com/marketbrief/ideawatch/internal/feeds/listing"
	"github.com/sirupsen/logrus"
)

func market(id, question, slug string, price *float64) listing.Market {
	return listing.Market{ID: id, Question: question, Slug: slug, LastTradePrice: price}
}

func ptr(f float64) *float64 { return &f }

func TestFirstObservationIsBaseline(t *testing.T) {
	d := New(0.05, logrus.New())

	events := d.Scan([]listing.Market{
		market("m1", "Will BTC hit 100k?", "btc", ptr(0.99)),
		market("m2", "Other market", "other", ptr(0.01)),
	})

	if len(events) != 0 {
		t.Errorf("first observation must not alert, got %d events", len(events))
	}
	if d.Tracked() != 2 {
		t.Errorf("expected 2 tracked markets, got %d", d.Tracked())
	}
}

func TestQualifyingMoveAlerts(t *testing.T) {
	d := New(0.05, logrus.New())

	d.Scan([]listing.Market{market("m1", "Will BTC hit 100k?", "btc-100k", ptr(0.40))})
	events := d.Scan([]listing.Market{market("m1", "Will BTC hit 100k?", "btc-100k", ptr(0.47))})

	if len(events) != 1 {
		t.Fatalf("expected exactly 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Question != "Will BTC hit 100k?" {
		t.Errorf("unexpected question %q", ev.Question)
	}
	if ev.OldPrice != 0.40 || ev.NewPrice != 0.47 {
		t.Errorf("expected prices 0.40 -> 0.47, got %.2f -> %.2f", ev.OldPrice, ev.NewPrice)
	}
	if ev.URL != "https://polymarket.com/market/btc-100k" {
		t.Errorf("unexpected URL %s", ev.URL)
	}
}

func TestBoundaryInclusive(t *testing.T) {
	tests := []struct {
		name  string
		old   float64
		new   float64
		alert bool
	}{
		{"exactly threshold up", 0.40, 0.45, true},
		{"exactly threshold down", 0.45, 0.40, true},
		{"exactly threshold other base", 0.25, 0.30, true},
		{"just below threshold", 0.40, 0.4499, false},
		{"well below threshold", 0.40, 0.41, false},
		{"well above threshold", 0.10, 0.90, true},
		{"no change", 0.40, 0.40, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(0.05, logrus.New())
			d.Scan([]listing.Market{market("m1", "q", "s", ptr(tt.old))})
			events := d.Scan([]listing.Market{market("m1", "q", "s", ptr(tt.new))})

			if tt.alert && len(events) != 1 {
				t.Errorf("%.4f -> %.4f: expected alert, got none", tt.old, tt.new)
			}
			if !tt.alert && len(events) != 0 {
				t.Errorf("%.4f -> %.4f: expected no alert, got %d", tt.old, tt.new, len(events))
			}
		})
	}
}

func TestMissingPriceNeverAlertsButUpdatesHistory(t *testing.T) {
	d := New(0.05, logrus.New())

	// Baseline with a price, then an observation without one.
	d.Scan([]listing.Market{market("m1", "q", "s", ptr(0.40))})
	if events := d.Scan([]listing.Market{market("m1", "q", "s", nil)}); len(events) != 0 {
		t.Errorf("absent new price must not alert, got %d", len(events))
	}

	// History now holds nil: a big jump back must not alert either.
	if events := d.Scan([]listing.Market{market("m1", "q", "s", ptr(0.90))}); len(events) != 0 {
		t.Errorf("absent previous price must not alert, got %d", len(events))
	}

	// But the 0.90 became the new baseline.
	if events := d.Scan([]listing.Market{market("m1", "q", "s", ptr(0.80))}); len(events) != 1 {
		t.Errorf("expected alert from refreshed baseline, got %d", len(events))
	}
}

func TestHistoryAlwaysUpdated(t *testing.T) {
	d := New(0.05, logrus.New())

	d.Scan([]listing.Market{market("m1", "q", "s", ptr(0.40))})
	// Sub-threshold move: no alert, but history moves to 0.43.
	d.Scan([]listing.Market{market("m1", "q", "s", ptr(0.43))})
	// 0.43 -> 0.47 is again sub-threshold, even though 0.40 -> 0.47 is not.
	if events := d.Scan([]listing.Market{market("m1", "q", "s", ptr(0.47))}); len(events) != 0 {
		t.Errorf("history must track every observation, got %d events", len(events))
	}
}

func TestDuplicateIDsLastSeenWins(t *testing.T) {
	d := New(0.05, logrus.New())

	d.Scan([]listing.Market{
		market("m1", "q", "s", ptr(0.40)),
		market("m1", "q", "s", ptr(0.60)),
	})

	// History should hold the last-seen 0.60.
	if events := d.Scan([]listing.Market{market("m1", "q", "s", ptr(0.58))}); len(events) != 0 {
		t.Errorf("expected no alert from 0.60 baseline, got %d", len(events))
	}
}

func TestIndependentMarkets(t *testing.T) {
	d := New(0.05, logrus.New())

	d.Scan([]listing.Market{
		market("m1", "q1", "s1", ptr(0.40)),
		market("m2", "q2", "s2", ptr(0.40)),
	})
	events := d.Scan([]listing.Market{
		market("m1", "q1", "s1", ptr(0.47)),
		market("m2", "q2", "s2", ptr(0.41)),
	})

	if len(events) != 1 || events[0].Question != "q1" {
		t.Errorf("expected exactly one alert for m1, got %+v", events)
	}
}
