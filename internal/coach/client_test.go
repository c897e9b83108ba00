package coach

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/colinswan/sentinel/internal/models"
)

func TestGenerateUsesAPIResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Great focus today, keep it up."}}]}`))
	}))
	defer server.Close()

	g := NewGenerator("test-key", server.URL, "test-model")
	fb := g.Generate(context.Background(), &models.UserProfile{}, "good session")

	if fb.Text != "Great focus today, keep it up." {
		t.Errorf("text = %q", fb.Text)
	}
	if fb.Sentiment != SentimentPositive {
		t.Errorf("sentiment = %q, want positive", fb.Sentiment)
	}
}

func TestGenerateFallsBackWhenUnconfigured(t *testing.T) {
	g := NewGenerator("", "", "")
	fb := g.Generate(context.Background(), nil, "note")

	if fb.Text != FallbackText {
		t.Errorf("text = %q, want fallback", fb.Text)
	}
	if fb.Sentiment != SentimentNeutral {
		t.Errorf("sentiment = %q, want neutral", fb.Sentiment)
	}
}

func TestGenerateFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	g := NewGenerator("test-key", server.URL, "test-model")
	fb := g.Generate(context.Background(), nil, "note")

	if fb.Text != FallbackText {
		t.Errorf("degraded api must yield the fallback, got %q", fb.Text)
	}
}

func TestGenerateFallsBackWhenUnreachable(t *testing.T) {
	g := NewGenerator("test-key", "http://127.0.0.1:1", "test-model")
	fb := g.Generate(context.Background(), nil, "note")

	if fb.Text != FallbackText {
		t.Errorf("unreachable api must yield the fallback, got %q", fb.Text)
	}
}
