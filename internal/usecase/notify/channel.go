// Package notify announces a published deck on every enabled chat channel.
// Channels fail independently, and a channel that keeps failing is paused
// by a per-channel circuit breaker.
package notify

import (
	"context"

	"weekly-ai-news/internal/infra/notifier"
)

// Channel is one announcement destination (Slack, Discord).
//
// Implementations apply their own rate limiting and retries and must be safe
// for concurrent use.
type Channel interface {
	// Name returns the lowercase channel identifier used in logs and metrics.
	Name() string

	// IsEnabled reports whether the channel is configured to receive announcements.
	IsEnabled() bool

	// Send posts the announcement.
	//   - ErrChannelDisabled: the channel is disabled
	//   - ErrInvalidAnnouncement: the announcement has no deck URL
	Send(ctx context.Context, a notifier.Announcement) error
}

// webhookChannel adapts a notifier.Notifier to Channel.
type webhookChannel struct {
	name     string
	notifier notifier.Notifier
	enabled  bool
}

func (c *webhookChannel) Name() string { return c.name }

func (c *webhookChannel) IsEnabled() bool { return c.enabled }

func (c *webhookChannel) Send(ctx context.Context, a notifier.Announcement) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if a.PresentationURL == "" {
		return ErrInvalidAnnouncement
	}
	return c.notifier.Announce(ctx, a)
}
