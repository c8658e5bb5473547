// Package entity defines the domain values that flow through a digest run.
// An Article is created by the collector and enriched, never mutated, by the
// content fetcher and the summarizer before it is rendered onto slides.
package entity

import (
	"strings"
	"time"
)

// Article represents one news item. URL is its only identity.
type Article struct {
	Title       string
	Description string
	URL         string
	Source      string
	PublishedAt time.Time
	ImageURL    string

	// Content is the extracted page text; empty means the fetch failed.
	Content string

	// Summary is always populated after summarization.
	Summary string
}

// WithContent returns a copy of the article carrying the given page text.
func (a Article) WithContent(content string) Article {
	a.Content = content
	return a
}

// WithSummary returns a copy of the article carrying the given summary.
func (a Article) WithSummary(summary string) Article {
	a.Summary = summary
	return a
}

// DisplaySummary returns the text shown on a detail slide:
// the trimmed summary, or the trimmed description when no summary exists.
func (a Article) DisplaySummary() string {
	if s := strings.TrimSpace(a.Summary); s != "" {
		return s
	}
	return strings.TrimSpace(a.Description)
}

// HasContent reports whether at least minLen characters of page text were fetched.
func (a Article) HasContent(minLen int) bool {
	return len([]rune(a.Content)) >= minLen
}
