// Package notifier posts "deck published" announcements to chat webhooks.
// Slack and Discord are supported; NoOpNotifier stands in when a channel
// is disabled.
package notifier

import (
	"context"
	"time"
)

// Headline is one article listed in an announcement.
type Headline struct {
	Title  string
	URL    string
	Source string
}

// Announcement describes a freshly rendered weekly deck.
type Announcement struct {
	Title           string
	PresentationURL string
	ArticleCount    int
	Headlines       []Headline
	GeneratedAt     time.Time
}

// Notifier sends an announcement to one destination.
// Implementations handle rate limiting and retries internally.
type Notifier interface {
	// Announce posts the announcement. It returns a non-nil error only after
	// every retry attempt failed or the context ended.
	Announce(ctx context.Context, a Announcement) error
}
