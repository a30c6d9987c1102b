package alerts

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/marketbrief/ideawatch/internal/metrics"
)

// SMTPSender sends alerts via email
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
	to       []string
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(host string, port int, user, password, from string, to []string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		to:       to,
	}
}

// Send sends the alert via email
func (s *SMTPSender) Send(ctx context.Context, payload *AlertPayload) error {
	subject := fmt.Sprintf("Price alert: %s (%+.2f)", payload.Question, payload.Delta())
	body := s.buildEmailBody(payload)

	message := fmt.Sprintf("From: %s\r\n", s.from)
	message += fmt.Sprintf("To: %s\r\n", s.to[0])
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "Content-Type: text/plain; charset=UTF-8\r\n"
	message += "\r\n"
	message += body

	auth := smtp.PlainAuth("", s.user, s.password, s.host)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, s.to, []byte(message)); err != nil {
		metrics.RecordAlertSent("smtp", err)
		return fmt.Errorf("send email: %w", err)
	}

	metrics.RecordAlertSent("smtp", nil)
	return nil
}

func (s *SMTPSender) buildEmailBody(payload *AlertPayload) string {
	body := "IDEAWATCH PRICE ALERT\n"
	body += "═══════════════════════════════════════\n\n"
	body += "A tracked market moved significantly:\n\n"
	body += fmt.Sprintf("Market:         %s\n", payload.Question)
	body += fmt.Sprintf("Previous price: %.2f\n", payload.OldPrice)
	body += fmt.Sprintf("Current price:  %.2f\n", payload.NewPrice)
	body += fmt.Sprintf("Change:         %+.2f\n", payload.Delta())
	body += fmt.Sprintf("Market URL:     %s\n\n", payload.MarketURL)
	body += "═══════════════════════════════════════\n"
	body += fmt.Sprintf("Environment: %s\n", payload.Environment)
	body += fmt.Sprintf("Generated: %s\n", time.Now().UTC().Format("2006-01-02 15:04:05 UTC"))

	return body
}
