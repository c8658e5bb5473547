package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiscordConfig contains configuration for Discord webhook notifications.
type DiscordConfig struct {
	Enabled    bool
	WebhookURL string
	Timeout    time.Duration
	RetryDelay time.Duration
}

// DiscordNotifier announces decks through a Discord webhook.
type DiscordNotifier struct {
	hook *webhook
}

// NewDiscordNotifier creates a notifier limited to 30 requests/minute, burst 3.
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{
		hook: &webhook{
			service:     "discord",
			url:         config.WebhookURL,
			client:      &http.Client{Timeout: config.Timeout},
			rateLimiter: NewRateLimiter(0.5, 3),
			retryDelay:  retryDelayOrDefault(config.RetryDelay),
		},
	}
}

// DiscordWebhookPayload represents the JSON payload sent to a Discord webhook.
type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed represents a Discord embed message.
type DiscordEmbed struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	URL         string             `json:"url"`
	Color       int                `json:"color"`
	Footer      DiscordEmbedFooter `json:"footer"`
	Timestamp   string             `json:"timestamp"`
}

// DiscordEmbedFooter represents the footer of a Discord embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	maxTitleLength       = 256
	maxDescriptionLength = 4096

	// #5865F2
	discordBlueColor = 5793266
)

func (d *DiscordNotifier) buildEmbedPayload(a Announcement) DiscordWebhookPayload {
	lines := make([]string, 0, len(a.Headlines))
	for _, h := range a.Headlines {
		lines = append(lines, fmt.Sprintf("• [%s](%s)", h.Title, h.URL))
	}

	return DiscordWebhookPayload{
		Embeds: []DiscordEmbed{{
			Title:       truncate(a.Title, maxTitleLength),
			Description: truncate(strings.Join(lines, "\n"), maxDescriptionLength),
			URL:         a.PresentationURL,
			Color:       discordBlueColor,
			Footer:      DiscordEmbedFooter{Text: fmt.Sprintf("%d件の記事", a.ArticleCount)},
			Timestamp:   a.GeneratedAt.Format(time.RFC3339),
		}},
	}
}

// Announce implements Notifier.
func (d *DiscordNotifier) Announce(ctx context.Context, a Announcement) error {
	ctx = context.WithValue(ctx, requestIDKey, uuid.New().String())
	return d.hook.send(ctx, d.buildEmbedPayload(a), a.PresentationURL)
}
