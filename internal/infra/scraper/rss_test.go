package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-ai-news/internal/domain/entity"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example AI Feed</title>
  <item>
    <title>Model card published</title>
    <link>https://example.com/model-card</link>
    <description><![CDATA[<p>The <b>card</b> explains   the model.</p>]]></description>
    <pubDate>Sun, 07 Jan 2024 10:00:00 +0000</pubDate>
  </item>
  <item>
    <title>Undated</title>
    <link>https://example.com/undated</link>
  </item>
  <item>
    <title></title>
    <link>https://example.com/untitled</link>
  </item>
</channel>
</rss>`

func TestFeedReader_Read(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssBody))
	}))
	defer srv.Close()

	reader := NewFeedReader(&http.Client{Timeout: 5 * time.Second})
	reader.now = func() time.Time { return fixedNow }

	articles, err := reader.Read(context.Background(), entity.FeedTarget{Name: "Example Feed", URL: srv.URL})
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "Model card published", articles[0].Title)
	assert.Equal(t, "Example Feed", articles[0].Source)
	assert.Equal(t, "The card explains the model.", articles[0].Description)
	assert.True(t, time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC).Equal(articles[0].PublishedAt))

	assert.Equal(t, fixedNow, articles[1].PublishedAt)
}

func TestFeedReader_Read_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	reader := NewFeedReader(&http.Client{Timeout: 5 * time.Second})
	_, err := reader.Read(context.Background(), entity.FeedTarget{Name: "Gone", URL: srv.URL})
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "plain", plainText("  plain "))
	assert.Equal(t, "a b", plainText("<div>a</div>\n<div>b</div>"))
}
