package notify

import "errors"

var (
	// ErrChannelDisabled is returned by Send on a disabled channel.
	ErrChannelDisabled = errors.New("channel is disabled")

	// ErrInvalidAnnouncement is returned when the announcement has no deck URL.
	ErrInvalidAnnouncement = errors.New("invalid announcement: presentation URL is required")

	// ErrCircuitBreakerOpen marks a send skipped because the channel is paused.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open for this channel")
)
