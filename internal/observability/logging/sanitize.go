package logging

import "regexp"

var (
	// anthropicKeyPattern must run before openaiKeyPattern.
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)

	// NewsAPI accepts the key as a query parameter.
	apiKeyParamPattern = regexp.MustCompile(`(?i)(apiKey=)[^&\s"]+`)

	slackWebhookPattern   = regexp.MustCompile(`(hooks\.slack\.com/services/)[^\s"]+`)
	discordWebhookPattern = regexp.MustCompile(`(discord\.com/api/webhooks/\d+/)[^\s"]+`)

	privateKeyPattern = regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----[\s\S]*?-----END [A-Z ]*PRIVATE KEY-----`)
)

// SanitizeError returns err's message with API keys, webhook tokens and
// private keys masked. A nil err yields "".
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = apiKeyParamPattern.ReplaceAllString(msg, "${1}****")
	msg = slackWebhookPattern.ReplaceAllString(msg, "${1}****")
	msg = discordWebhookPattern.ReplaceAllString(msg, "${1}****")
	msg = privateKeyPattern.ReplaceAllString(msg, "[private key]")
	return msg
}
