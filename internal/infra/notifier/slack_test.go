package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testAnnouncement() Announcement {
	return Announcement{
		Title:           "週次AIニュース 2025-01-13",
		PresentationURL: "https://docs.google.com/presentation/d/deck123",
		ArticleCount:    12,
		Headlines: []Headline{
			{Title: "Model A released", URL: "https://example.com/a", Source: "Example"},
			{Title: "Chip B announced", URL: "https://example.com/b"},
		},
		GeneratedAt: time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC),
	}
}

func TestSlackNotifier_buildBlockKitPayload(t *testing.T) {
	n := NewSlackNotifier(SlackConfig{Enabled: true, WebhookURL: "https://hooks.slack.com/services/test"})

	payload := n.buildBlockKitPayload(testAnnouncement())

	if payload.Text != "週次AIニュース 2025-01-13 (12件)" {
		t.Errorf("unexpected fallback text %q", payload.Text)
	}
	if len(payload.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(payload.Blocks))
	}

	header := payload.Blocks[0].Text.Text
	if !strings.Contains(header, "*<https://docs.google.com/presentation/d/deck123|週次AIニュース 2025-01-13>*") {
		t.Errorf("header does not link the deck: %q", header)
	}
	if !strings.Contains(header, "12件") {
		t.Errorf("header does not carry the article count: %q", header)
	}

	list := payload.Blocks[1].Text.Text
	want := "• <https://example.com/a|Model A released> (Example)\n• <https://example.com/b|Chip B announced>"
	if list != want {
		t.Errorf("headline list = %q, want %q", list, want)
	}

	ctxBlock := payload.Blocks[2]
	if ctxBlock.Type != "context" || ctxBlock.Elements[0].Text != "2025-01-13T09:00:00Z" {
		t.Errorf("unexpected context block %+v", ctxBlock)
	}
}

func TestSlackNotifier_buildBlockKitPayload_NoHeadlines(t *testing.T) {
	n := NewSlackNotifier(SlackConfig{})
	a := testAnnouncement()
	a.Headlines = nil

	payload := n.buildBlockKitPayload(a)
	if len(payload.Blocks) != 2 {
		t.Fatalf("expected header and context blocks only, got %d", len(payload.Blocks))
	}
}

func TestSlackNotifier_buildBlockKitPayload_TruncatesSection(t *testing.T) {
	n := NewSlackNotifier(SlackConfig{})
	a := testAnnouncement()
	a.Headlines = []Headline{{Title: strings.Repeat("あ", 5000), URL: "https://example.com/long"}}

	payload := n.buildBlockKitPayload(a)
	list := payload.Blocks[1].Text.Text
	if got := len([]rune(list)); got != maxSectionTextLength {
		t.Errorf("expected %d characters, got %d", maxSectionTextLength, got)
	}
	if !strings.HasSuffix(list, "...") {
		t.Error("expected truncation suffix")
	}
}

func TestSlackNotifier_Announce_Success(t *testing.T) {
	var received SlackWebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("invalid JSON body: %v", err)
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	n := NewSlackNotifier(SlackConfig{Enabled: true, WebhookURL: server.URL, Timeout: 5 * time.Second})
	if err := n.Announce(context.Background(), testAnnouncement()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(received.Blocks) != 3 {
		t.Errorf("server received %d blocks, want 3", len(received.Blocks))
	}
}

func TestSlackNotifier_Announce_RetriesServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewSlackNotifier(SlackConfig{WebhookURL: server.URL, Timeout: 5 * time.Second, RetryDelay: 5 * time.Millisecond})
	if err := n.Announce(context.Background(), testAnnouncement()); err != nil {
		t.Fatalf("expected success on second attempt, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

func TestSlackNotifier_Announce_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("invalid_payload"))
	}))
	defer server.Close()

	n := NewSlackNotifier(SlackConfig{WebhookURL: server.URL, Timeout: 5 * time.Second, RetryDelay: 5 * time.Millisecond})
	err := n.Announce(context.Background(), testAnnouncement())

	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("expected ClientError, got %v", err)
	}
	if clientErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", clientErr.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
}

func TestSlackNotifier_Announce_RateLimitThenSuccess(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"ok":false,"retry_after":0.01}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewSlackNotifier(SlackConfig{WebhookURL: server.URL, Timeout: 5 * time.Second})
	if err := n.Announce(context.Background(), testAnnouncement()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

func TestSlackNotifier_Announce_ExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	n := NewSlackNotifier(SlackConfig{WebhookURL: server.URL, Timeout: 5 * time.Second, RetryDelay: time.Millisecond})
	err := n.Announce(context.Background(), testAnnouncement())

	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected wrapped ServerError, got %v", err)
	}
	if !strings.Contains(err.Error(), "after 2 attempts") {
		t.Errorf("unexpected error text %q", err.Error())
	}
}

func TestSlackNotifier_Announce_CanceledContext(t *testing.T) {
	n := NewSlackNotifier(SlackConfig{WebhookURL: "http://127.0.0.1:1", Timeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.Announce(ctx, testAnnouncement()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
