// Package bot implements the Telegram transport: command handling over
// long polling, the subscriber registry, and best-effort broadcasts.
package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/marketbrief/ideawatch/internal/config"
	"github.com/marketbrief/ideawatch/internal/ideas"
	"github.com/marketbrief/ideawatch/internal/metrics"
	"github.com/sirupsen/logrus"
)

const (
	pollTimeoutSec = 30
	latestIdeas    = 5
)

type update struct {
	UpdateID int64    `json:"update_id"`
	Message  *message `json:"message"`
}

type message struct {
	Chat chat   `json:"chat"`
	Text string `json:"text"`
}

type chat struct {
	ID int64 `json:"id"`
}

type updatesResponse struct {
	OK     bool     `json:"ok"`
	Result []update `json:"result"`
}

// Bot is the Telegram transport for subscriptions and delivery.
type Bot struct {
	apiBase    string
	token      string
	httpClient *http.Client
	registry   *Registry
	cache      *ideas.Cache
	log        *logrus.Logger
	offset     int64
}

// New creates the bot transport.
func New(cfg *config.Config, registry *Registry, cache *ideas.Cache, log *logrus.Logger) *Bot {
	return &Bot{
		apiBase:  cfg.TelegramAPIBaseURL,
		token:    cfg.TelegramBotToken,
		registry: registry,
		cache:    cache,
		log:      log,
		// Client timeout sits above the long-poll window.
		httpClient: &http.Client{Timeout: (pollTimeoutSec + 5) * time.Second},
	}
}

// Run polls for updates and dispatches commands until the context is done.
func (b *Bot) Run(ctx context.Context) {
	b.log.Info("Starting Telegram update loop")

	for {
		select {
		case <-ctx.Done():
			b.log.Info("Telegram update loop stopped")
			return
		default:
		}

		updates, err := b.getUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.log.WithError(err).Warn("Failed to fetch updates, retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= b.offset {
				b.offset = u.UpdateID + 1
			}
			if u.Message == nil {
				continue
			}
			b.handleCommand(ctx, u.Message.Chat.ID, u.Message.Text)
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}

	// Commands may arrive as /cmd@botname in group chats.
	command := fields[0]
	if idx := strings.Index(command, "@"); idx > 0 {
		command = command[:idx]
	}

	switch command {
	case "/start":
		b.registry.Add(chatID)
		b.reply(ctx, chatID,
			"✅ Subscribed to ideawatch market idea drafts.\nUse /ideas to get the latest drafts or /stop to unsubscribe.")

	case "/stop":
		if b.registry.Remove(chatID) {
			b.reply(ctx, chatID, "You are unsubscribed.")
		} else {
			b.reply(ctx, chatID, "You are not subscribed yet.")
		}

	case "/ideas":
		latest := b.cache.Latest(latestIdeas)
		if len(latest) == 0 {
			b.reply(ctx, chatID, "No fresh ideas yet, try again later.")
			return
		}
		parts := make([]string, 0, len(latest))
		for i, idea := range latest {
			parts = append(parts, FormatIdea(idea, i+1))
		}
		b.reply(ctx, chatID, strings.Join(parts, "\n\n"))
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.sendMessage(ctx, chatID, text); err != nil {
		b.log.WithError(err).WithField("chat_id", chatID).Error("Failed to send reply")
	}
}

// Broadcast delivers text to every subscriber. A failure for one recipient
// is logged and never aborts delivery to the rest; the returned error is
// always nil and exists to satisfy the alerts.Broadcaster interface.
func (b *Bot) Broadcast(ctx context.Context, text string) error {
	for _, chatID := range b.registry.Snapshot() {
		err := b.sendMessage(ctx, chatID, text)
		metrics.RecordBroadcast(err)
		if err != nil {
			b.log.WithError(err).WithField("chat_id", chatID).Error("Failed to deliver broadcast")
		}
	}
	return nil
}

func (b *Bot) getUpdates(ctx context.Context) ([]update, error) {
	payload := map[string]interface{}{
		"offset":  b.offset,
		"timeout": pollTimeoutSec,
	}

	var parsed updatesResponse
	if err := b.call(ctx, "getUpdates", payload, &parsed); err != nil {
		return nil, err
	}
	if !parsed.OK {
		return nil, fmt.Errorf("telegram returned ok=false")
	}
	return parsed.Result, nil
}

func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) error {
	payload := map[string]interface{}{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "Markdown",
		"disable_web_page_preview": true,
	}
	return b.call(ctx, "sendMessage", payload, nil)
}

func (b *Bot) call(ctx context.Context, method string, payload interface{}, out interface{}) error {
	url := fmt.Sprintf("%s/bot%s/%s", b.apiBase, b.token, method)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
