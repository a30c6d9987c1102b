// Package detector tracks per-market last-seen prices and raises events on
// significant moves between polls.
package detector

import (
	"math"
	"sync"

	"github.com/marketbrief/ideawatch/internal/feeds/listing"
	"github.com/marketbrief/ideawatch/internal/metrics"
	"github.com/sirupsen/logrus"
)

// AlertEvent is one detected price move, consumed within the same tick.
type AlertEvent struct {
	Question string
	OldPrice float64
	NewPrice float64
	URL      string
}

// Detector holds the last observed price per market id. Entries are never
// evicted; the map grows with the set of markets seen over the process
// lifetime.
type Detector struct {
	mu        sync.Mutex
	threshold float64
	history   map[string]*float64
	log       *logrus.Logger
}

// New creates a detector raising events for moves of at least threshold.
func New(threshold float64, log *logrus.Logger) *Detector {
	return &Detector{
		threshold: threshold,
		history:   make(map[string]*float64),
		log:       log,
	}
}

// Scan compares one batch of observations against the recorded history and
// returns the qualifying moves. The first observation of a market only
// records a baseline so a fresh process does not alert on every listing.
// History is updated for every record, including ones without a price.
func (d *Detector) Scan(records []listing.Market) []AlertEvent {
	d.mu.Lock()
	defer d.mu.Unlock()

	var events []AlertEvent

	for _, rec := range records {
		current := rec.Price()
		previous, seen := d.history[rec.ID]

		if seen && previous != nil && current != nil {
			delta := math.Abs(*current - *previous)
			// The threshold is inclusive; subtract a hair so equality
			// survives float rounding.
			if delta >= d.threshold-1e-9 {
				events = append(events, AlertEvent{
					Question: rec.Question,
					OldPrice: *previous,
					NewPrice: *current,
					URL:      rec.CanonicalURL(),
				})
				metrics.AlertsEmitted.Inc()
				d.log.WithFields(logrus.Fields{
					"market":    rec.Question,
					"old_price": *previous,
					"new_price": *current,
				}).Info("Price move detected")
			}
		}

		d.history[rec.ID] = current
	}

	metrics.TrackedMarkets.Set(float64(len(d.history)))

	return events
}

// Tracked returns the number of markets with a recorded price observation.
func (d *Detector) Tracked() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.history)
}
