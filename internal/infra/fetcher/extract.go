package fetcher

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"weekly-ai-news/internal/utils/text"
)

const (
	// MaxContentLength caps extracted text, in characters.
	MaxContentLength = 8000

	// MinContainerLength is the text length a content container must exceed
	// before it is preferred over the whole body.
	MinContainerLength = 200
)

// Extractor reduces a downloaded HTML page to its main text.
type Extractor interface {
	Extract(html []byte, pageURL *url.URL) (string, error)
}

// noiseSelector matches elements removed before any text is read.
const noiseSelector = "script, style, nav, header, footer, aside, .ad, .advertisement, .social-share"

// contentSelectors are tried in order; the first with enough text wins.
var contentSelectors = []string{
	"article",
	`[class*="article-body"]`,
	`[class*="post-content"]`,
	`[class*="entry-content"]`,
	`[class*="story-body"]`,
	"main",
	".content",
}

// SelectorExtractor takes the first element of the first generic content
// selector whose text is longer than MinContainerLength characters, falling
// back to the body text.
type SelectorExtractor struct{}

// Extract implements Extractor.
func (SelectorExtractor) Extract(html []byte, _ *url.URL) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("%w: parse HTML: %v", ErrExtractionFailed, err)
	}

	doc.Find(noiseSelector).Remove()

	var content string
	for _, sel := range contentSelectors {
		candidate := strings.TrimSpace(doc.Find(sel).First().Text())
		if text.CountRunes(candidate) > MinContainerLength {
			content = candidate
			break
		}
	}
	if content == "" {
		content = doc.Find("body").Text()
	}

	return normalize(content), nil
}

// Extract runs the selector policy on an HTML string.
func Extract(html string) string {
	content, err := SelectorExtractor{}.Extract([]byte(html), nil)
	if err != nil {
		return ""
	}
	return content
}

func normalize(s string) string {
	return text.Truncate(text.NormalizeWhitespace(s), MaxContentLength)
}
