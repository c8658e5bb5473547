package summarize

import (
	"fmt"

	"weekly-ai-news/internal/utils/text"
)

const (
	// DefaultLanguage is the summary language when none is configured.
	DefaultLanguage = "日本語"

	// MaxPromptContent caps the article text embedded in a prompt, in characters.
	MaxPromptContent = 6000

	// ContentMarker precedes the article body in the prompt.
	ContentMarker = "記事内容:"

	// AnswerMarker ends the prompt; the model continues after it.
	AnswerMarker = "要約:"
)

const promptTemplate = `以下のニュース記事を%sで簡潔に要約してください。
要約は3〜4文程度で、以下の点を含めてください：
- 記事の主要なポイント
- なぜこれが重要なのか
- AI/テクノロジー業界への影響（該当する場合）

記事タイトル: %s
` + ContentMarker + `
%s

` + AnswerMarker

// BuildPrompt renders the summarization prompt for one article.
func BuildPrompt(language, title, content string) string {
	if language == "" {
		language = DefaultLanguage
	}
	return fmt.Sprintf(promptTemplate, language, title, text.Truncate(content, MaxPromptContent))
}
