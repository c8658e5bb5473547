package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SlackConfig contains configuration for Slack webhook notifications.
type SlackConfig struct {
	Enabled bool

	// WebhookURL is the Incoming Webhook URL; it embeds the token
	WebhookURL string

	Timeout time.Duration

	// RetryDelay is the base wait between attempts after a 5xx (default 5s)
	RetryDelay time.Duration
}

// SlackNotifier announces decks through a Slack Incoming Webhook.
type SlackNotifier struct {
	hook *webhook
}

// NewSlackNotifier creates a notifier limited to 1 request/second, burst 1,
// which is the Incoming Webhook limit.
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	return &SlackNotifier{
		hook: &webhook{
			service:     "slack",
			url:         config.WebhookURL,
			client:      &http.Client{Timeout: config.Timeout},
			rateLimiter: NewRateLimiter(1.0, 1),
			retryDelay:  retryDelayOrDefault(config.RetryDelay),
		},
	}
}

// SlackWebhookPayload is the Block Kit message body.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

// SlackBlock is a Block Kit block ("section" or "context").
type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

// SlackTextObject is a Block Kit text object.
type SlackTextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const (
	maxSectionTextLength = 3000
	maxFallbackLength    = 150
)

func (s *SlackNotifier) buildBlockKitPayload(a Announcement) SlackWebhookPayload {
	fallback := truncate(fmt.Sprintf("%s (%d件)", a.Title, a.ArticleCount), maxFallbackLength)

	header := fmt.Sprintf("*<%s|%s>*\n%d件の記事をまとめました", a.PresentationURL, a.Title, a.ArticleCount)

	var lines []string
	for _, h := range a.Headlines {
		line := fmt.Sprintf("• <%s|%s>", h.URL, h.Title)
		if h.Source != "" {
			line += " (" + h.Source + ")"
		}
		lines = append(lines, line)
	}

	blocks := []SlackBlock{{
		Type: "section",
		Text: &SlackTextObject{Type: "mrkdwn", Text: truncate(header, maxSectionTextLength)},
	}}
	if len(lines) > 0 {
		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackTextObject{Type: "mrkdwn", Text: truncate(strings.Join(lines, "\n"), maxSectionTextLength)},
		})
	}
	blocks = append(blocks, SlackBlock{
		Type:     "context",
		Elements: []SlackTextObject{{Type: "mrkdwn", Text: a.GeneratedAt.Format(time.RFC3339)}},
	})

	return SlackWebhookPayload{Text: fallback, Blocks: blocks}
}

// Announce implements Notifier.
func (s *SlackNotifier) Announce(ctx context.Context, a Announcement) error {
	ctx = context.WithValue(ctx, requestIDKey, uuid.New().String())
	return s.hook.send(ctx, s.buildBlockKitPayload(a), a.PresentationURL)
}
