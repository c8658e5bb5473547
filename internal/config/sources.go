// Package config holds the digest's declarative configuration: the source
// registry that parameterizes collection and the credentials read from the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"weekly-ai-news/internal/domain/entity"
	envconfig "weekly-ai-news/pkg/config"
)

// NewsAPI search parameters.
const (
	// QueryKeywordCount is how many leading keywords form the search query.
	QueryKeywordCount = 5
	// NewsAPIPageSize is the maximum number of search results requested.
	NewsAPIPageSize = 30
	// LookbackDays is the trailing window searched and shown on the title slide.
	LookbackDays = 7
)

// SourceRegistry lists everything the collector reads from.
type SourceRegistry struct {
	Keywords       []string              `yaml:"keywords"`
	NewsAPIDomains []string              `yaml:"newsapi_domains"`
	ScrapeTargets  []entity.ScrapeTarget `yaml:"scrape_targets"`
	Feeds          []entity.FeedTarget   `yaml:"feeds"`
}

// DefaultRegistry returns the built-in sources.
func DefaultRegistry() SourceRegistry {
	return SourceRegistry{
		Keywords: []string{
			"artificial intelligence",
			"AI",
			"machine learning",
			"deep learning",
			"ChatGPT",
			"OpenAI",
			"Claude",
			"Anthropic",
			"Google AI",
			"Gemini",
			"LLM",
			"GPT",
			"neural network",
			"generative AI",
		},
		NewsAPIDomains: []string{
			"techcrunch.com",
			"theverge.com",
			"wired.com",
			"arstechnica.com",
			"venturebeat.com",
			"thenextweb.com",
		},
		ScrapeTargets: []entity.ScrapeTarget{
			{
				Name:    "TechCrunch AI",
				URL:     "https://techcrunch.com/category/artificial-intelligence/",
				BaseURL: "https://techcrunch.com",
				Selectors: entity.Selectors{
					Article:     "article.post-block",
					Title:       "h2.post-block__title a",
					Link:        "h2.post-block__title a",
					Description: ".post-block__content",
					Date:        "time",
					Image:       "img.post-block__media",
				},
			},
			{
				Name:    "The Verge AI",
				URL:     "https://www.theverge.com/ai-artificial-intelligence",
				BaseURL: "https://www.theverge.com",
				Selectors: entity.Selectors{
					Article:     `div[data-testid="duet--content-cards--content-card"]`,
					Title:       "a h2",
					Link:        "a",
					Description: "p",
					Image:       "img",
				},
			},
		},
	}
}

// Query joins the leading keywords with OR for the search API.
func (r SourceRegistry) Query() string {
	n := QueryKeywordCount
	if len(r.Keywords) < n {
		n = len(r.Keywords)
	}
	return strings.Join(r.Keywords[:n], " OR ")
}

// DomainsParam returns the comma-separated domain allow-list.
func (r SourceRegistry) DomainsParam() string {
	return strings.Join(r.NewsAPIDomains, ",")
}

// Validate checks that the registry can drive a collection.
func (r SourceRegistry) Validate() error {
	var errs []error

	if len(r.Keywords) == 0 {
		errs = append(errs, &entity.ValidationError{Field: "keywords", Message: "at least one keyword is required"})
	}

	seen := make(map[string]bool)
	for _, t := range r.ScrapeTargets {
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[t.Name] {
			errs = append(errs, fmt.Errorf("duplicate source name %q", t.Name))
		}
		seen[t.Name] = true
	}
	for _, f := range r.Feeds {
		if err := f.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Errorf("duplicate source name %q", f.Name))
		}
		seen[f.Name] = true
	}

	return errors.Join(errs...)
}

// LoadRegistry returns DefaultRegistry when path is empty. Otherwise it reads
// a YAML file on top of the defaults: every top-level key present in the file
// replaces the corresponding default list. NEWS_KEYWORDS and NEWSAPI_DOMAINS
// (comma separated) override the file in both cases.
func LoadRegistry(path string) (SourceRegistry, error) {
	registry := DefaultRegistry()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return SourceRegistry{}, fmt.Errorf("failed to read sources file: %w", err)
		}
		if err := yaml.Unmarshal(data, &registry); err != nil {
			return SourceRegistry{}, fmt.Errorf("failed to parse sources file: %w", err)
		}
	}

	registry.Keywords = envconfig.GetEnvStringList("NEWS_KEYWORDS", registry.Keywords)
	registry.NewsAPIDomains = envconfig.GetEnvStringList("NEWSAPI_DOMAINS", registry.NewsAPIDomains)

	if err := registry.Validate(); err != nil {
		return SourceRegistry{}, fmt.Errorf("sources validation failed: %w", err)
	}

	return registry, nil
}
