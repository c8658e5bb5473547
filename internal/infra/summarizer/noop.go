package summarizer

import (
	"context"
	"strings"

	"weekly-ai-news/internal/usecase/summarize"
	"weekly-ai-news/internal/utils/text"
)

// noopMaxLength bounds the echoed excerpt.
const noopMaxLength = 300

// NoOp answers without calling any model: it echoes the start of the
// article body found in the prompt. Used for dry runs.
type NoOp struct{}

// NewNoOp creates a new NoOp summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Generate implements the summarize.Generator interface.
func (n *NoOp) Generate(_ context.Context, prompt string) (string, error) {
	body := prompt
	if i := strings.Index(prompt, summarize.ContentMarker); i >= 0 {
		body = prompt[i+len(summarize.ContentMarker):]
	}
	if i := strings.LastIndex(body, summarize.AnswerMarker); i >= 0 {
		body = body[:i]
	}
	return text.TruncateWithEllipsis(text.NormalizeWhitespace(body), noopMaxLength, "..."), nil
}
