package alerts

import (
	"context"
	"fmt"

	"github.com/marketbrief/ideawatch/internal/metrics"
)

// Broadcaster delivers a message to every subscribed chat. Implemented by
// the bot transport; per-recipient failures are handled there and never
// surfaced here.
type Broadcaster interface {
	Broadcast(ctx context.Context, text string) error
}

// TelegramSender fans an alert out to all bot subscribers
type TelegramSender struct {
	broadcaster Broadcaster
}

// NewTelegramSender creates a new Telegram sender
func NewTelegramSender(broadcaster Broadcaster) *TelegramSender {
	return &TelegramSender{broadcaster: broadcaster}
}

// Send broadcasts the alert to all subscribers
func (s *TelegramSender) Send(ctx context.Context, payload *AlertPayload) error {
	text := fmt.Sprintf("⚡ *Price alert*\n%s", payload.Summary())

	err := s.broadcaster.Broadcast(ctx, text)
	metrics.RecordAlertSent("telegram", err)
	return err
}
