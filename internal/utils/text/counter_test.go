package text_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"weekly-ai-news/internal/utils/text"
)

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "ASCII text", input: "hello", expected: 5},
		{name: "ASCII with spaces", input: "hello world", expected: 11},
		{name: "Japanese hiragana", input: "こんにちは", expected: 5},
		{name: "Japanese kanji", input: "日本語", expected: 3},
		{name: "mixed", input: "hello世界", expected: 7},
		{name: "emoji", input: "📰 news", expected: 6},
		{name: "empty", input: "", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, text.CountRunes(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "shorter than limit", input: "abc", limit: 5, want: "abc"},
		{name: "exact limit", input: "abcde", limit: 5, want: "abcde"},
		{name: "cut ascii", input: "abcdef", limit: 3, want: "abc"},
		{name: "cut japanese on rune boundary", input: "要約を生成", limit: 2, want: "要約"},
		{name: "zero limit", input: "abc", limit: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, text.Truncate(tt.input, tt.limit))
		})
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	long := strings.Repeat("x", 71)
	got := text.TruncateWithEllipsis(long, 70, "...")
	assert.Equal(t, strings.Repeat("x", 70)+"...", got)

	exact := strings.Repeat("x", 70)
	assert.Equal(t, exact, text.TruncateWithEllipsis(exact, 70, "..."))
}

func TestNormalizeWhitespace(t *testing.T) {
	in := "  Hello \n\n\t world\r\n  again  "
	assert.Equal(t, "Hello world again", text.NormalizeWhitespace(in))
	assert.Equal(t, "", text.NormalizeWhitespace(" \n\t "))
}
