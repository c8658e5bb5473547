package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTarget() ScrapeTarget {
	return ScrapeTarget{
		Name:    "TechCrunch AI",
		URL:     "https://techcrunch.com/category/artificial-intelligence/",
		BaseURL: "https://techcrunch.com",
		Selectors: Selectors{
			Article: "article.post-block",
			Title:   "h2 a",
			Link:    "h2 a",
		},
	}
}

func TestScrapeTarget_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ScrapeTarget)
		wantErr bool
	}{
		{name: "valid", mutate: func(*ScrapeTarget) {}, wantErr: false},
		{name: "missing name", mutate: func(s *ScrapeTarget) { s.Name = " " }, wantErr: true},
		{name: "bad url", mutate: func(s *ScrapeTarget) { s.URL = "ftp://example.com" }, wantErr: true},
		{name: "bad base url", mutate: func(s *ScrapeTarget) { s.BaseURL = "/relative" }, wantErr: true},
		{name: "missing article selector", mutate: func(s *ScrapeTarget) { s.Selectors.Article = "" }, wantErr: true},
		{name: "missing link selector", mutate: func(s *ScrapeTarget) { s.Selectors.Link = "" }, wantErr: true},
		{name: "optional selectors may be empty", mutate: func(s *ScrapeTarget) { s.Selectors.Date = "" }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := validTarget()
			tt.mutate(&target)
			err := target.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidationFailed))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScrapeTarget_Validate_ReportsFirstMissingSelector(t *testing.T) {
	target := validTarget()
	target.Selectors = Selectors{}

	for i := 0; i < 20; i++ {
		var vErr *ValidationError
		require.ErrorAs(t, target.Validate(), &vErr)
		assert.Equal(t, "selectors.article", vErr.Field)
	}

	target.Selectors.Article = "article"
	var vErr *ValidationError
	require.ErrorAs(t, target.Validate(), &vErr)
	assert.Equal(t, "selectors.title", vErr.Field)
}

func TestFeedTarget_Validate(t *testing.T) {
	assert.NoError(t, FeedTarget{Name: "feed", URL: "https://example.com/rss"}.Validate())
	assert.Error(t, FeedTarget{Name: "", URL: "https://example.com/rss"}.Validate())
	assert.Error(t, FeedTarget{Name: "feed", URL: ""}.Validate())
}
