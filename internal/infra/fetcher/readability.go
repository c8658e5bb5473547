package fetcher

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/go-shiori/go-readability"
)

// ReadabilityExtractor extracts article text with go-shiori/go-readability.
// Output is normalized and capped like SelectorExtractor.
type ReadabilityExtractor struct{}

// Extract implements Extractor.
func (ReadabilityExtractor) Extract(html []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	content := article.TextContent
	if content == "" {
		if article.Content == "" {
			return "", fmt.Errorf("%w: no readable content found", ErrExtractionFailed)
		}
		slog.Debug("using article Content instead of TextContent",
			slog.Int("content_length", len(article.Content)))
		content = Extract(article.Content)
	}

	return normalize(content), nil
}

// NewExtractor returns the extractor registered under name.
func NewExtractor(name string) (Extractor, error) {
	switch name {
	case "", ExtractorSelector:
		return SelectorExtractor{}, nil
	case ExtractorReadability:
		return ReadabilityExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown extractor %q", name)
	}
}
