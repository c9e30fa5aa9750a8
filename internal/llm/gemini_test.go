package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGemini(Options{APIKey: "test-key", Endpoint: srv.URL}, nil)
}

func TestRequestAnalysis_DisabledWithoutKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	g := NewGemini(Options{Endpoint: srv.URL}, nil)
	if g.Enabled() {
		t.Fatal("gateway without key should be disabled")
	}
	text, ok := g.RequestAnalysis(context.Background(), "prompt")
	if ok || text != "" {
		t.Fatalf("expected disabled result, got %q, %v", text, ok)
	}
	if called {
		t.Fatal("disabled gateway must not contact the provider")
	}
}

type sentRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

func TestRequestAnalysis_SendsPromptAndConfig(t *testing.T) {
	var got sentRequest
	var gotPath, gotKey string
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"ok\":true}"}],"role":"model"}}]}`))
	})

	text, ok := g.RequestAnalysis(context.Background(), "analise isto")
	if !ok {
		t.Fatal("expected success")
	}
	if text != `{"ok":true}` {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(gotPath, APIVersion) || !strings.HasSuffix(gotPath, "/models/"+DefaultModel+":generateContent") {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q", gotKey)
	}
	if len(got.Contents) != 1 || len(got.Contents[0].Parts) != 1 || got.Contents[0].Parts[0].Text != "analise isto" {
		t.Errorf("contents = %+v", got.Contents)
	}
	if got.GenerationConfig.Temperature != 0.7 {
		t.Errorf("temperature = %v", got.GenerationConfig.Temperature)
	}
	if got.GenerationConfig.MaxOutputTokens != DefaultMaxOutputTokens {
		t.Errorf("max tokens = %v", got.GenerationConfig.MaxOutputTokens)
	}
}

func TestRequestAnalysis_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`},
		{"forbidden", http.StatusForbidden, `{"error":{"message":"API key not valid"}}`},
		{"not json", http.StatusOK, `<html>oops</html>`},
		{"no candidates", http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`},
		{"no content", http.StatusOK, `{"candidates":[{"finishReason":"SAFETY"}]}`},
		{"empty parts", http.StatusOK, `{"candidates":[{"content":{"parts":[]}}]}`},
		{"blank text", http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			text, ok := g.RequestAnalysis(context.Background(), "prompt")
			if ok || text != "" {
				t.Fatalf("expected failure, got %q, %v", text, ok)
			}
		})
	}
}

func TestRequestAnalysis_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	g := NewGemini(Options{APIKey: "secret-key-123", Endpoint: endpoint}, nil)
	if _, ok := g.RequestAnalysis(context.Background(), "prompt"); ok {
		t.Fatal("expected failure against a closed server")
	}
}

func TestRequestAnalysis_ContextDeadline(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, ok := g.RequestAnalysis(ctx, "prompt"); ok {
		t.Fatal("expected failure after deadline")
	}
}

func TestRequestAnalysis_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	g := NewGemini(Options{APIKey: "test-key", Endpoint: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	start := time.Now()
	if _, ok := g.RequestAnalysis(context.Background(), "prompt"); ok {
		t.Fatal("expected failure after the gateway timeout")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout not applied, took %v", elapsed)
	}
}
