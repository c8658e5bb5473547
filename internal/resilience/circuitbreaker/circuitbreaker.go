// Package circuitbreaker wraps github.com/sony/gobreaker with the breaker
// settings used by each outbound dependency of the digest run.
package circuitbreaker

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config describes one breaker. The breaker trips once at least MinRequests
// calls were seen in the current Interval and the failure ratio reaches
// FailureThreshold. After Timeout it lets MaxRequests probe calls through.
type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// Breaker names, also used as the "service" log attribute.
const (
	NameNewsAPI    = "newsapi"
	NameWebScraper = "web-scraper"
	NameFeedFetch  = "feed-fetch"
	NameClaude     = "claude-api"
	NameOpenAI     = "openai-api"
)

var presets = map[string]Config{
	// One search call per run: trip only after repeated runs fail.
	NameNewsAPI: {MaxRequests: 1, Interval: 10 * time.Minute, Timeout: 5 * time.Minute, FailureThreshold: 0.6, MinRequests: 3},
	// A broken listing page stays broken for a while.
	NameWebScraper: {MaxRequests: 3, Interval: time.Minute, Timeout: time.Hour, FailureThreshold: 0.8, MinRequests: 5},
	NameFeedFetch:  {MaxRequests: 5, Interval: time.Minute, Timeout: 2 * time.Minute, FailureThreshold: 0.7, MinRequests: 10},
	NameClaude:     {MaxRequests: 3, Interval: 30 * time.Second, Timeout: time.Minute, FailureThreshold: 0.6, MinRequests: 5},
	NameOpenAI:     {MaxRequests: 3, Interval: 30 * time.Second, Timeout: time.Minute, FailureThreshold: 0.6, MinRequests: 5},
}

// DefaultConfig returns the preset registered for name, or a general purpose
// configuration when the name is unknown.
func DefaultConfig(name string) Config {
	cfg, ok := presets[name]
	if !ok {
		cfg = Config{MaxRequests: 3, Interval: 30 * time.Second, Timeout: time.Minute, FailureThreshold: 0.6, MinRequests: 5}
	}
	cfg.Name = name
	return cfg
}

// NewsAPIConfig is the breaker for the news search API.
func NewsAPIConfig() Config { return DefaultConfig(NameNewsAPI) }

// WebScraperConfig is the breaker for listing page scraping.
func WebScraperConfig() Config { return DefaultConfig(NameWebScraper) }

// FeedFetchConfig is the breaker for RSS/Atom targets.
func FeedFetchConfig() Config { return DefaultConfig(NameFeedFetch) }

// ClaudeAPIConfig is the breaker for the Anthropic model.
func ClaudeAPIConfig() Config { return DefaultConfig(NameClaude) }

// OpenAIAPIConfig is the breaker for the OpenAI model.
func OpenAIAPIConfig() Config { return DefaultConfig(NameOpenAI) }

// CircuitBreaker is a named gobreaker.CircuitBreaker.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a breaker from cfg. State changes are logged at warn level.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// Execute runs fn through the breaker. An open breaker returns
// gobreaker.ErrOpenState without calling fn.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the breaker name.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen reports whether calls are currently rejected.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}
