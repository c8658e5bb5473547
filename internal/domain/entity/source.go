package entity

import (
	"fmt"
	"strings"
)

// Selectors is the CSS selector set used to pull articles out of a listing page.
// Description, Date and Image are optional.
type Selectors struct {
	Article     string `yaml:"article"`
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Description string `yaml:"description,omitempty"`
	Date        string `yaml:"date,omitempty"`
	Image       string `yaml:"image,omitempty"`
}

// ScrapeTarget describes one site whose listing page is scraped for articles.
type ScrapeTarget struct {
	Name      string    `yaml:"name"`
	URL       string    `yaml:"url"`
	BaseURL   string    `yaml:"base_url,omitempty"` // prepended to relative links
	Selectors Selectors `yaml:"selectors"`
}

// Validate checks that the target can be scraped.
func (t ScrapeTarget) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return &ValidationError{Field: "name", Message: "scrape target name is required"}
	}
	if err := ValidateURL(t.URL); err != nil {
		return fmt.Errorf("scrape target %q: %w", t.Name, err)
	}
	if t.BaseURL != "" {
		if err := ValidateURL(t.BaseURL); err != nil {
			return fmt.Errorf("scrape target %q base_url: %w", t.Name, err)
		}
	}

	required := []struct{ field, value string }{
		{"selectors.article", t.Selectors.Article},
		{"selectors.title", t.Selectors.Title},
		{"selectors.link", t.Selectors.Link},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: fmt.Sprintf("required for scrape target %q", t.Name)}
		}
	}
	return nil
}

// FeedTarget is an RSS or Atom feed collected alongside the scraped sites.
type FeedTarget struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Validate checks that the feed has a name and a usable URL.
func (f FeedTarget) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "name", Message: "feed name is required"}
	}
	if err := ValidateURL(f.URL); err != nil {
		return fmt.Errorf("feed %q: %w", f.Name, err)
	}
	return nil
}
