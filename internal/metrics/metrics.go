package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Idea generation metrics
	IdeasGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideawatch_ideas_generated_total",
			Help: "Total number of ideas generated",
		},
		[]string{"source"}, // news, macro, politics, crypto, fallback
	)

	IdeaGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ideawatch_idea_generation_duration_seconds",
			Help:    "Duration of one idea generation pass",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Feed metrics
	FeedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideawatch_feed_requests_total",
			Help: "Total number of external feed requests",
		},
		[]string{"feed", "status"}, // news/listing/prices, success/error
	)

	FeedRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ideawatch_feed_request_duration_seconds",
			Help:    "Duration of external feed requests",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"feed"},
	)

	// Alert metrics
	AlertsEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ideawatch_alerts_emitted_total",
			Help: "Total number of price alerts detected",
		},
	)

	AlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideawatch_alerts_sent_total",
			Help: "Total number of alerts sent",
		},
		[]string{"status", "channel"}, // success/error, log/telegram/discord/smtp
	)

	TrackedMarkets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ideawatch_tracked_markets",
			Help: "Number of markets with a recorded last-seen price",
		},
	)

	// Delivery metrics
	Broadcasts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideawatch_broadcasts_total",
			Help: "Total number of per-recipient broadcast deliveries",
		},
		[]string{"status"}, // success/error
	)

	Subscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ideawatch_subscribers",
			Help: "Current number of subscribed chats",
		},
	)

	// System health
	HealthChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideawatch_health_checks_total",
			Help: "Total number of health check requests",
		},
		[]string{"status"}, // healthy/unhealthy
	)
)

// RecordIdeaGeneration records one idea generation pass
func RecordIdeaGeneration(source string, duration time.Duration) {
	IdeasGenerated.WithLabelValues(source).Inc()
	IdeaGenerationDuration.Observe(duration.Seconds())
}

// RecordFeedRequest records external feed request metrics
func RecordFeedRequest(feed string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	FeedRequests.WithLabelValues(feed, status).Inc()
	FeedRequestDuration.WithLabelValues(feed).Observe(duration.Seconds())
}

// RecordAlertSent records delivery of one alert over one channel
func RecordAlertSent(channel string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	AlertsSent.WithLabelValues(status, channel).Inc()
}

// RecordBroadcast records one per-recipient delivery attempt
func RecordBroadcast(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	Broadcasts.WithLabelValues(status).Inc()
}

// RecordHealthCheck records health check status
func RecordHealthCheck(healthy bool) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}
	HealthChecks.WithLabelValues(status).Inc()
}
