package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"weekly-ai-news/internal/domain/entity"
	"weekly-ai-news/internal/infra/notifier"
)

const (
	circuitBreakerThreshold = 3                // consecutive failures before a channel is paused
	circuitBreakerTimeout   = 24 * time.Hour   // pause length; shorter than the weekly schedule
	notificationTimeout     = 30 * time.Second // per channel
	defaultTopHeadlines     = 5
)

// Deck is a rendered presentation ready to be announced.
type Deck struct {
	Title       string
	URL         string
	Articles    []entity.Article
	PublishedAt time.Time
}

// Service dispatches deck announcements to every enabled channel.
type Service interface {
	// AnnounceDeck sends the deck to all enabled channels concurrently and
	// waits for them. The returned error joins every channel failure; callers
	// treat it as non-fatal.
	AnnounceDeck(ctx context.Context, deck Deck) error

	// GetChannelHealth returns the circuit breaker state of every channel.
	GetChannelHealth() []ChannelHealthStatus
}

// ChannelHealthStatus represents the health status of a notification channel.
type ChannelHealthStatus struct {
	Name               string     `json:"name"`
	Enabled            bool       `json:"enabled"`
	CircuitBreakerOpen bool       `json:"circuit_breaker_open"`
	DisabledUntil      *time.Time `json:"disabled_until,omitempty"` // nil while closed
}

type service struct {
	channels      []Channel
	topHeadlines  int
	channelHealth map[string]*channelHealth
	now           func() time.Time
}

type channelHealth struct {
	consecutiveFailures int
	disabledUntil       time.Time
	mu                  sync.Mutex
}

// Option configures the notification service.
type Option func(*service)

// WithTopHeadlines sets how many article titles are listed (default 5).
func WithTopHeadlines(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.topHeadlines = n
		}
	}
}

// NewService creates a notification service over the given channels.
func NewService(channels []Channel, opts ...Option) Service {
	svc := &service{
		channels:      channels,
		topHeadlines:  defaultTopHeadlines,
		channelHealth: make(map[string]*channelHealth, len(channels)),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	for _, ch := range channels {
		svc.channelHealth[ch.Name()] = &channelHealth{}
	}
	return svc
}

// Announcement converts a deck into the webhook message model, keeping the
// first n articles as headlines.
func Announcement(deck Deck, n int) notifier.Announcement {
	if n > len(deck.Articles) {
		n = len(deck.Articles)
	}
	headlines := make([]notifier.Headline, 0, n)
	for _, a := range deck.Articles[:n] {
		headlines = append(headlines, notifier.Headline{Title: a.Title, URL: a.URL, Source: a.Source})
	}
	return notifier.Announcement{
		Title:           deck.Title,
		PresentationURL: deck.URL,
		ArticleCount:    len(deck.Articles),
		Headlines:       headlines,
		GeneratedAt:     deck.PublishedAt,
	}
}

// AnnounceDeck implements Service.AnnounceDeck.
func (s *service) AnnounceDeck(ctx context.Context, deck Deck) error {
	if deck.URL == "" {
		return ErrInvalidAnnouncement
	}

	var enabled []Channel
	for _, ch := range s.channels {
		if ch.IsEnabled() {
			enabled = append(enabled, ch)
		}
	}
	SetChannelsEnabled(float64(len(enabled)))

	if len(enabled) == 0 {
		slog.Debug("no notification channels enabled")
		return nil
	}

	slog.Info("announcing deck",
		slog.String("presentation_url", deck.URL),
		slog.Int("articles", len(deck.Articles)),
		slog.Int("enabled_channels", len(enabled)))

	msg := Announcement(deck, s.topHeadlines)
	errs := make([]error, len(enabled))

	var wg sync.WaitGroup
	for i, ch := range enabled {
		wg.Add(1)
		go func(i int, ch Channel) {
			defer wg.Done()
			errs[i] = s.notifyChannel(ctx, ch, msg)
		}(i, ch)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// notifyChannel sends to one channel, honoring its circuit breaker.
func (s *service) notifyChannel(parent context.Context, channel Channel, msg notifier.Announcement) (err error) {
	name := channel.Name()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in notification channel",
				slog.String("channel", name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			RecordDropped(name, "panic")
			err = fmt.Errorf("%s: panic: %v", name, r)
		}
	}()

	health := s.getChannelHealth(name)
	health.mu.Lock()
	if s.now().Before(health.disabledUntil) {
		until := health.disabledUntil
		health.mu.Unlock()
		slog.Warn("channel temporarily disabled due to circuit breaker",
			slog.String("channel", name),
			slog.Time("disabled_until", until))
		RecordDropped(name, "circuit_open")
		return fmt.Errorf("%s: %w", name, ErrCircuitBreakerOpen)
	}
	health.mu.Unlock()

	ctx, cancel := context.WithTimeout(parent, notificationTimeout)
	defer cancel()

	start := time.Now()
	RecordDispatch(name)
	sendErr := channel.Send(ctx, msg)
	duration := time.Since(start)

	health.mu.Lock()
	if sendErr != nil {
		health.consecutiveFailures++
		if health.consecutiveFailures >= circuitBreakerThreshold {
			health.disabledUntil = s.now().Add(circuitBreakerTimeout)
			slog.Error("circuit breaker opened for channel",
				slog.String("channel", name),
				slog.Int("consecutive_failures", health.consecutiveFailures))
			RecordCircuitBreakerOpen(name)
		}
	} else {
		health.consecutiveFailures = 0
	}
	health.mu.Unlock()

	if sendErr != nil {
		RecordFailure(name, duration)
		slog.Warn("channel notification failed",
			slog.String("channel", name),
			slog.Duration("send_duration", duration),
			slog.Any("error", sendErr))
		return fmt.Errorf("%s: %w", name, sendErr)
	}

	RecordSuccess(name, duration)
	slog.Info("channel notification sent",
		slog.String("channel", name),
		slog.Duration("send_duration", duration))
	return nil
}

func (s *service) getChannelHealth(name string) *channelHealth {
	return s.channelHealth[name]
}

// GetChannelHealth implements Service.GetChannelHealth.
func (s *service) GetChannelHealth() []ChannelHealthStatus {
	statuses := make([]ChannelHealthStatus, 0, len(s.channels))
	now := s.now()

	for _, ch := range s.channels {
		health := s.channelHealth[ch.Name()]

		health.mu.Lock()
		var disabledUntil *time.Time
		open := now.Before(health.disabledUntil)
		if open {
			until := health.disabledUntil
			disabledUntil = &until
		}
		health.mu.Unlock()

		statuses = append(statuses, ChannelHealthStatus{
			Name:               ch.Name(),
			Enabled:            ch.IsEnabled(),
			CircuitBreakerOpen: open,
			DisabledUntil:      disabledUntil,
		})
	}
	return statuses
}
