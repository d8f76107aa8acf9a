package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agency-ops-be/pkg/llm"
)

func TestCompleteSuccess(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "generated text"}},
			},
			"usage": map[string]int{
				"prompt_tokens":     12,
				"completion_tokens": 8,
				"total_tokens":      20,
			},
		})
	}))
	defer srv.Close()

	p := NewProvider(srv.URL)
	res, err := p.Complete(context.Background(), llm.Request{
		Messages:    []llm.Message{{Role: "user", Content: "hello"}},
		Temperature: 0.4,
	}, "secret-key", "anthropic/claude-3.5-sonnet")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if res.Text != "generated text" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.ProviderId != "openrouter" {
		t.Errorf("ProviderId = %q", res.ProviderId)
	}
	if res.ModelId != "anthropic/claude-3.5-sonnet" {
		t.Errorf("ModelId = %q", res.ModelId)
	}
	if res.Usage == nil || res.Usage.TotalTokens != 20 {
		t.Errorf("Usage = %+v", res.Usage)
	}

	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["model"] != "anthropic/claude-3.5-sonnet" {
		t.Errorf("request model = %v", gotBody["model"])
	}
}

func TestCompleteErrorCarriesStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL)
	_, err := p.Complete(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: "user", Content: "hello"}},
	}, "k", "some/model")
	if err == nil {
		t.Fatal("Complete() expected error")
	}

	// The status code must be parseable from the error text for the retry
	// classifier downstream.
	if !strings.Contains(err.Error(), "status 429") {
		t.Errorf("error missing status code: %v", err)
	}
}

func TestCompleteNormalizesModelRole(t *testing.T) {
	var gotBody chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	p := NewProvider(srv.URL)
	_, err := p.Complete(context.Background(), llm.Request{
		Messages: []llm.Message{
			{Role: "user", Content: "a"},
			{Role: "model", Content: "b"},
		},
	}, "k", "some/model")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if gotBody.Messages[1].Role != "assistant" {
		t.Errorf("model role not normalized: %q", gotBody.Messages[1].Role)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	p := NewProvider(srv.URL)
	_, err := p.Complete(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: "user", Content: "hello"}},
	}, "k", "some/model")
	if err == nil {
		t.Fatal("Complete() expected error for empty choices")
	}
}
