// ABOUTME: Tests for the Ollama translation client
// ABOUTME: Runs against httptest servers standing in for a local Ollama daemon
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaClient_Translate(t *testing.T) {
	var captured ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(ollamaResponse{Response: "  I praise Agni  "})
	}))
	defer srv.Close()

	client, err := NewOllamaClient(&OllamaConfig{
		Host:       srv.URL,
		Model:      "aya:8b",
		SourceLang: "sa",
		TargetLang: "en",
	})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	got, err := client.Translate(context.Background(), "अग्निमीळे पुरोहितं")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "I praise Agni" {
		t.Errorf("got %q, want trimmed response", got)
	}
	if captured.Model != "aya:8b" {
		t.Errorf("model = %q", captured.Model)
	}
	if captured.Stream {
		t.Error("stream should be disabled")
	}
	if captured.Prompt != "अग्निमीळे पुरोहितं" {
		t.Errorf("prompt = %q", captured.Prompt)
	}
}

func TestOllamaClient_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewOllamaClient(&OllamaConfig{Host: srv.URL, Model: "aya:8b"})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	_, err = client.Translate(context.Background(), "some text")
	if err == nil {
		t.Fatal("expected error")
	}
	var te *TranslateError
	if !errors.As(err, &te) {
		t.Fatalf("expected TranslateError, got %T", err)
	}
	if te.Kind != FailureTransient {
		t.Errorf("kind = %v, want transient", te.Kind)
	}
}

func TestOllamaClient_BodyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaResponse{Error: "rate limit exceeded"})
	}))
	defer srv.Close()

	client, err := NewOllamaClient(&OllamaConfig{Host: srv.URL, Model: "aya:8b"})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	_, err = client.Translate(context.Background(), "some text")
	if err == nil {
		t.Fatal("expected error")
	}
	if Classify(err) != FailureRateLimited {
		t.Errorf("Classify = %v, want rate-limited", Classify(err))
	}
}

func TestOllamaClient_EmptyInput(t *testing.T) {
	client, err := NewOllamaClient(&OllamaConfig{Model: "aya:8b"})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	if _, err := client.Translate(context.Background(), "   "); err == nil {
		t.Error("expected error for blank input")
	}
}

func TestNewOllamaClient_RequiresModel(t *testing.T) {
	if _, err := NewOllamaClient(&OllamaConfig{}); err == nil {
		t.Error("expected error when model is missing")
	}
}

func TestNewOllamaClient_DefaultHost(t *testing.T) {
	client, err := NewOllamaClient(&OllamaConfig{Model: "aya:8b"})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	if client.host != DefaultOllamaHost {
		t.Errorf("host = %q, want %q", client.host, DefaultOllamaHost)
	}
}
