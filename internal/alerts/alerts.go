package alerts

import (
	"context"
	"fmt"
	"time"
)

// AlertPayload contains all information for one price-move alert
type AlertPayload struct {
	Question    string
	OldPrice    float64
	NewPrice    float64
	MarketURL   string
	Timestamp   time.Time
	Environment string
}

// Delta returns the signed price change.
func (p *AlertPayload) Delta() float64 {
	return p.NewPrice - p.OldPrice
}

// Summary renders the one-line alert text shared by the plain-text channels.
func (p *AlertPayload) Summary() string {
	return fmt.Sprintf("%s moved from %.2f to %.2f (Δ %+.2f)\n%s",
		p.Question, p.OldPrice, p.NewPrice, p.Delta(), p.MarketURL)
}

// Sender defines the interface for alert senders
type Sender interface {
	Send(ctx context.Context, payload *AlertPayload) error
}
