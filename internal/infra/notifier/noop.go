package notifier

import "context"

// NoOpNotifier discards announcements. It backs disabled channels.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier instance.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Announce does nothing and returns nil.
func (n *NoOpNotifier) Announce(ctx context.Context, a Announcement) error {
	return nil
}
