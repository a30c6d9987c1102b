package alerts

import (
	"context"

	"github.com/marketbrief/ideawatch/internal/metrics"
	"github.com/sirupsen/logrus"
)

// LogSender sends alerts to the logger
type LogSender struct {
	log *logrus.Logger
}

// NewLogSender creates a new log sender
func NewLogSender(log *logrus.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send logs the alert
func (s *LogSender) Send(ctx context.Context, payload *AlertPayload) error {
	s.log.WithFields(logrus.Fields{
		"market":    payload.Question,
		"old_price": payload.OldPrice,
		"new_price": payload.NewPrice,
		"delta":     payload.Delta(),
		"url":       payload.MarketURL,
	}).Info("Price alert")
	metrics.RecordAlertSent("log", nil)
	return nil
}
