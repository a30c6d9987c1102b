package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/marketbrief/ideawatch/internal/metrics"
)

// DiscordSender sends alerts to Discord via webhook
type DiscordSender struct {
	webhookURL string
	httpClient *http.Client
}

// NewDiscordSender creates a new Discord sender
func NewDiscordSender(webhookURL string) *DiscordSender {
	return &DiscordSender{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send sends the alert to Discord
func (s *DiscordSender) Send(ctx context.Context, payload *AlertPayload) error {
	webhookPayload := map[string]interface{}{
		"embeds": []interface{}{s.buildEmbed(payload)},
	}

	body, err := json.Marshal(webhookPayload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordAlertSent("discord", err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		metrics.RecordAlertSent("discord", err)
		return err
	}

	metrics.RecordAlertSent("discord", nil)
	return nil
}

func (s *DiscordSender) buildEmbed(payload *AlertPayload) map[string]interface{} {
	var title string
	var color int
	if payload.Delta() >= 0 {
		title = "📈 Market price move"
		color = 0x2ECC71 // Green
	} else {
		title = "📉 Market price move"
		color = 0xE74C3C // Red
	}

	description := fmt.Sprintf("**%s**\nmoved from **%.2f** to **%.2f** (Δ %+.2f)",
		payload.Question, payload.OldPrice, payload.NewPrice, payload.Delta())

	fields := []map[string]interface{}{
		{"name": "Previous", "value": fmt.Sprintf("%.2f", payload.OldPrice), "inline": true},
		{"name": "Current", "value": fmt.Sprintf("%.2f", payload.NewPrice), "inline": true},
		{"name": "Change", "value": fmt.Sprintf("%+.2f", payload.Delta()), "inline": true},
	}

	footer := map[string]interface{}{
		"text": fmt.Sprintf("ideawatch • %s • %s", payload.Environment, payload.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC")),
	}

	return map[string]interface{}{
		"title":       title,
		"url":         payload.MarketURL,
		"description": description,
		"color":       color,
		"fields":      fields,
		"footer":      footer,
		"timestamp":   payload.Timestamp.Format(time.RFC3339),
	}
}
