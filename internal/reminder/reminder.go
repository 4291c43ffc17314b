// Package reminder writes payment reminder messages for pending bills.
//
// Text comes from an OpenAI chat completion when a key is configured. Any
// failure, or an empty completion, falls back to a fixed local template, so
// callers always get a usable message.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/mmynk/flexledger/internal/metrics"
	"github.com/mmynk/flexledger/internal/models"
)

const requestTimeout = 15 * time.Second

// Config configures a Generator.
type Config struct {
	APIKey string
	// BaseURL overrides the OpenAI endpoint (proxies, compatible servers).
	BaseURL     string
	Model       string
	DisplayName string
}

// Generator produces reminder text.
type Generator struct {
	client      *openai.Client
	model       string
	displayName string
}

// New creates a Generator. With no API key it only uses the fallback.
func New(cfg Config) *Generator {
	g := &Generator{
		model:       cfg.Model,
		displayName: cfg.DisplayName,
	}
	if g.model == "" {
		g.model = openai.GPT4oMini
	}
	if cfg.APIKey != "" {
		oc := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		g.client = openai.NewClientWithConfig(oc)
	}
	return g
}

// Fallback is the local template used whenever generation is unavailable.
func Fallback(displayName string, bill models.Bill) string {
	return fmt.Sprintf(
		"Namaste %s, this is a reminder from %s regarding your pending payment of ₹%s. Please settle it at your earliest convenience. Thank you!",
		bill.CustomerName, displayName, bill.TotalAmount.String(),
	)
}

// GenerateReminder returns reminder text for bill. It never fails.
func (g *Generator) GenerateReminder(ctx context.Context, bill models.Bill) string {
	fallback := Fallback(g.displayName, bill)
	if g.client == nil {
		slog.Debug("No OpenAI key configured, using fallback reminder", "bill_id", bill.ID)
		metrics.Reminders.WithLabelValues("fallback").Inc()
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: g.prompt(bill),
			},
		},
		Temperature: 0.7,
		MaxTokens:   300,
	})
	if err != nil {
		slog.Warn("Reminder generation failed, using fallback", "bill_id", bill.ID, "error", err)
		metrics.Reminders.WithLabelValues("fallback").Inc()
		return fallback
	}
	if len(resp.Choices) == 0 {
		metrics.Reminders.WithLabelValues("fallback").Inc()
		return fallback
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		metrics.Reminders.WithLabelValues("fallback").Inc()
		return fallback
	}

	metrics.Reminders.WithLabelValues("openai").Inc()
	return text
}

func (g *Generator) prompt(bill models.Bill) string {
	names := make([]string, 0, len(bill.Items))
	for _, item := range bill.Items {
		names = append(names, item.ServiceName)
	}
	return fmt.Sprintf(`You are the office assistant at '%s'.
Write a polite, professional, yet firm WhatsApp message to a customer.

Details:
Customer Name: %s
Total Due: ₹%s
Work Done: %s

Instructions:
- Use a greeting like 'Namaste'.
- Be brief and clear.
- Mention that this is an automated reminder.
- Encourage early payment for better service.`,
		g.displayName, bill.CustomerName, bill.TotalAmount.String(), strings.Join(names, ", "))
}

// WhatsAppLink builds a wa.me deep link sending msg to phone. Non-digits are
// stripped from phone and countryCode is prefixed unless already present.
func WhatsAppLink(phone, countryCode, msg string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}
	return "https://wa.me/" + digits + "?text=" + EscapeText(msg)
}

// EscapeText percent-encodes msg for a URL query, with spaces as %20.
func EscapeText(msg string) string {
	return strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
}
