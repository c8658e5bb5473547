package summarize_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-ai-news/internal/domain/entity"
	"weekly-ai-news/internal/usecase/summarize"
)

type stubGenerator struct {
	prompts []string
	answer  string
	err     error
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.answer, g.err
}

type countingPacer struct {
	waits int
	err   error
}

func (p *countingPacer) Wait(context.Context) error {
	p.waits++
	return p.err
}

var longContent = strings.Repeat("The model beats prior benchmarks. ", 10)

func TestSummarizeAll_ShortContentSkipsModel(t *testing.T) {
	gen := &stubGenerator{answer: "unused"}
	pacer := &countingPacer{}
	svc := summarize.NewService(gen, pacer, "")

	in := []entity.Article{
		{Title: "a", Description: "desc a", Content: strings.Repeat("x", 50)},
		{Title: "b", Content: strings.Repeat("x", 50)},
	}

	out, stats := svc.SummarizeAll(context.Background(), in)

	require.Len(t, out, 2)
	assert.Empty(t, gen.prompts)
	assert.Zero(t, pacer.waits)
	assert.Equal(t, "desc a", out[0].Summary)
	assert.Equal(t, summarize.ContentUnavailable, out[1].Summary)
	assert.Equal(t, 2, stats.Skipped)
}

func TestSummarizeAll_GeneratesSummary(t *testing.T) {
	gen := &stubGenerator{answer: "  重要な発表です。 \n"}
	pacer := &countingPacer{}
	svc := summarize.NewService(gen, pacer, "")

	in := []entity.Article{{Title: "Launch", URL: "https://a", Content: longContent}}

	out, stats := svc.SummarizeAll(context.Background(), in)

	assert.Equal(t, "重要な発表です。", out[0].Summary)
	assert.Equal(t, longContent, out[0].Content, "earlier fields are carried forward")
	assert.Equal(t, 1, pacer.waits)
	assert.Equal(t, 1, stats.Generated)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "記事タイトル: Launch")
	assert.Contains(t, gen.prompts[0], "日本語で簡潔に要約")
	assert.Empty(t, in[0].Summary, "input is not mutated")
}

func TestSummarizeAll_ModelFailureFallsBack(t *testing.T) {
	gen := &stubGenerator{err: errors.New("503")}
	svc := summarize.NewService(gen, nil, "")

	in := []entity.Article{
		{Title: "a", Description: "fallback desc", Content: longContent},
		{Title: "b", Content: longContent},
	}

	out, stats := svc.SummarizeAll(context.Background(), in)

	assert.Equal(t, "fallback desc", out[0].Summary)
	assert.Equal(t, summarize.SummaryUnavailable, out[1].Summary)
	assert.Equal(t, 2, stats.Fallbacks)
}

func TestSummarizeAll_EmptyModelOutputFallsBack(t *testing.T) {
	gen := &stubGenerator{answer: "   "}
	svc := summarize.NewService(gen, nil, "")

	out, _ := svc.SummarizeAll(context.Background(), []entity.Article{{Title: "a", Content: longContent}})

	assert.Equal(t, summarize.SummaryUnavailable, out[0].Summary)
}

func TestSummarizeAll_CanceledPacingStillPopulatesSummary(t *testing.T) {
	gen := &stubGenerator{answer: "never"}
	pacer := &countingPacer{err: context.Canceled}
	svc := summarize.NewService(gen, pacer, "")

	out, _ := svc.SummarizeAll(context.Background(), []entity.Article{{Title: "a", Description: "d", Content: longContent}})

	assert.Empty(t, gen.prompts)
	assert.Equal(t, "d", out[0].Summary)
}

func TestSummarizeAll_SummaryAlwaysNonEmpty(t *testing.T) {
	cases := []struct {
		name string
		gen  *stubGenerator
		in   entity.Article
	}{
		{"no content no description", &stubGenerator{answer: "x"}, entity.Article{}},
		{"model error", &stubGenerator{err: errors.New("boom")}, entity.Article{Content: longContent}},
		{"blank description", &stubGenerator{err: errors.New("boom")}, entity.Article{Description: "  ", Content: longContent}},
		{"success", &stubGenerator{answer: "ok"}, entity.Article{Content: longContent}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, _ := summarize.NewService(tc.gen, nil, "").SummarizeAll(context.Background(), []entity.Article{tc.in})
			assert.NotEmpty(t, strings.TrimSpace(out[0].Summary))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	content := strings.Repeat("あ", summarize.MaxPromptContent+500)

	prompt := summarize.BuildPrompt("English", "Title", content)

	assert.True(t, strings.HasPrefix(prompt, "以下のニュース記事をEnglishで簡潔に要約してください。"))
	assert.True(t, strings.HasSuffix(prompt, summarize.AnswerMarker))
	assert.Equal(t, summarize.MaxPromptContent, strings.Count(prompt, "あ"))
}

func TestBuildPrompt_DefaultLanguage(t *testing.T) {
	assert.Contains(t, summarize.BuildPrompt("", "t", "c"), summarize.DefaultLanguage+"で")
}
