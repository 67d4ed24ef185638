package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIProvider_Complete(t *testing.T) {
	var gotAuth string
	var gotBody openAIRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  generated text  "},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(Config{APIURL: server.URL, APIKey: "test-key", Model: "test-model"})

	result, err := provider.Complete(context.Background(), "write a post")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	if result != "generated text" {
		t.Errorf("Expected trimmed 'generated text', got '%s'", result)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth header, got '%s'", gotAuth)
	}
	if gotBody.Model != "test-model" {
		t.Errorf("Expected model 'test-model', got '%s'", gotBody.Model)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Content != "write a post" {
		t.Errorf("Expected single user message with prompt, got %+v", gotBody.Messages)
	}
}

func TestOpenAIProvider_Complete_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewOpenAIProvider(Config{APIURL: server.URL, Model: "test-model"})

	if _, err := provider.Complete(context.Background(), "prompt"); err == nil {
		t.Error("Expected error on non-2xx status")
	}
}

func TestOpenAIProvider_Complete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(Config{APIURL: server.URL, Model: "test-model"})

	if _, err := provider.Complete(context.Background(), "prompt"); err == nil {
		t.Error("Expected error on empty choices")
	}
}

func TestOpenAIProvider_Complete_MissingModel(t *testing.T) {
	provider := NewOpenAIProvider(Config{APIURL: "http://localhost"})

	if _, err := provider.Complete(context.Background(), "prompt"); err == nil {
		t.Error("Expected error when model is not configured")
	}
}
