package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestComplete(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"the answer"}}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", 5*time.Second)
	out, err := c.Complete(context.Background(), Request{
		Model:       "test-model",
		System:      "be brief",
		User:        "say something",
		Temperature: 0.7,
		MaxTokens:   100,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "the answer" {
		t.Errorf("Complete = %q", out)
	}

	if got.Model != "test-model" {
		t.Errorf("model = %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
}

func TestCompleteNoSystemPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k", 5*time.Second)
	if _, err := c.Complete(context.Background(), Request{Model: "m", User: "hi"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
}

func TestCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k", 5*time.Second)
	if _, err := c.Complete(context.Background(), Request{Model: "m", User: "hi"}); err == nil {
		t.Fatal("expected error from API error payload")
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k", 5*time.Second)
	if _, err := c.Complete(context.Background(), Request{Model: "m", User: "hi"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
