package notify

import "weekly-ai-news/internal/infra/notifier"

// NewSlackChannel wraps a SlackNotifier. A disabled config yields a channel
// backed by NoOpNotifier that reports IsEnabled() == false.
func NewSlackChannel(config notifier.SlackConfig) Channel {
	var n notifier.Notifier = notifier.NewNoOpNotifier()
	if config.Enabled {
		n = notifier.NewSlackNotifier(config)
	}
	return &webhookChannel{name: "slack", notifier: n, enabled: config.Enabled}
}

// NewDiscordChannel wraps a DiscordNotifier.
func NewDiscordChannel(config notifier.DiscordConfig) Channel {
	var n notifier.Notifier = notifier.NewNoOpNotifier()
	if config.Enabled {
		n = notifier.NewDiscordNotifier(config)
	}
	return &webhookChannel{name: "discord", notifier: n, enabled: config.Enabled}
}
