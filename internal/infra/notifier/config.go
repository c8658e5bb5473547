package notifier

import (
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"weekly-ai-news/internal/pkg/config"
)

const defaultWebhookTimeout = 30 * time.Second

// LoadSlackConfig reads SLACK_ENABLED and SLACK_WEBHOOK_URL.
// A malformed webhook URL disables the channel with a warning.
func LoadSlackConfig(logger *slog.Logger) SlackConfig {
	enabled, webhookURL := loadWebhookEnv("SLACK", "slack")
	if !enabled {
		return SlackConfig{}
	}
	if !validWebhookURL(logger, "Slack", webhookURL, "hooks.slack.com", "/services/") {
		return SlackConfig{}
	}
	return SlackConfig{Enabled: true, WebhookURL: webhookURL, Timeout: defaultWebhookTimeout}
}

// LoadDiscordConfig reads DISCORD_ENABLED and DISCORD_WEBHOOK_URL.
func LoadDiscordConfig(logger *slog.Logger) DiscordConfig {
	enabled, webhookURL := loadWebhookEnv("DISCORD", "discord")
	if !enabled {
		return DiscordConfig{}
	}
	if !validWebhookURL(logger, "Discord", webhookURL, "discord.com", "/api/webhooks/") {
		return DiscordConfig{}
	}
	return DiscordConfig{Enabled: true, WebhookURL: webhookURL, Timeout: defaultWebhookTimeout}
}

func loadWebhookEnv(prefix, component string) (bool, string) {
	result := config.LoadEnvBool(prefix+"_ENABLED", false)
	result.LogWarnings(component)
	return result.Value.(bool), strings.TrimSpace(os.Getenv(prefix + "_WEBHOOK_URL"))
}

func validWebhookURL(logger *slog.Logger, service, raw, host, pathPrefix string) bool {
	if raw == "" {
		logger.Warn(service + " webhook URL is empty, disabling notifications")
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		logger.Warn("invalid "+service+" webhook URL format, disabling notifications", slog.Any("error", err))
		return false
	}
	if u.Scheme != "https" {
		logger.Warn(service + " webhook URL must use HTTPS, disabling notifications")
		return false
	}
	if u.Host != host {
		logger.Warn("invalid "+service+" webhook host, disabling notifications", slog.String("host", u.Host))
		return false
	}
	if !strings.HasPrefix(u.Path, pathPrefix) {
		logger.Warn("invalid "+service+" webhook path, disabling notifications", slog.String("path", u.Path))
		return false
	}
	return true
}
