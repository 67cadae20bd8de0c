package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/openai/openai-go/option"
)

func TestOpenAIComplete(t *testing.T) {
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]interface{}{
						"role":    "assistant",
						"content": `[{"title":"Paddington 2","explanation":"Warm and gentle."}]`,
					},
				},
			},
		})
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	res, err := client.Complete(context.Background(), MoodPrompt("cozy"))

	assert.Equal(t, nil, err)
	assert.Equal(t, `[{"title":"Paddington 2","explanation":"Warm and gentle."}]`, res.Content)
	assert.Equal(t, "gpt-4o-mini", res.ModelUsed)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	assert.Equal(t, 2, len(gotBody["messages"].([]interface{})))
}

func TestOpenAICompleteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("bad-key", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	res, err := client.Complete(context.Background(), MoodPrompt("sad"))

	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, res == nil)
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	_, err := client.Complete(context.Background(), MoodPrompt("sad"))

	assert.NotEqual(t, nil, err)
}
