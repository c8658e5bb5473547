package summarizer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-ai-news/internal/infra/summarizer"
)

func openAIConfig(baseURL string) summarizer.Config {
	return summarizer.Config{
		Model:     "gpt-4o-mini",
		MaxTokens: 512,
		Timeout:   10 * time.Second,
		BaseURL:   baseURL,
	}
}

func TestOpenAI_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Equal(t, "prompt text", body.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "\n要約です。\n"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	o := summarizer.NewOpenAI("test-key", openAIConfig(server.URL))

	got, err := o.Generate(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, "要約です。", got)
}

func TestOpenAI_Generate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-2","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	o := summarizer.NewOpenAI("test-key", openAIConfig(server.URL))

	_, err := o.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, summarizer.ErrEmptyResponse)
}

func TestOpenAI_Generate_UnauthorizedNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer server.Close()

	o := summarizer.NewOpenAI("bad-key", openAIConfig(server.URL))

	_, err := o.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai api error")
	assert.Equal(t, int32(1), calls.Load())
}
