package ml

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"techwatch/internal/domain"
)

func newModelServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/embed", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{0.1, 0.2}})
	})
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"label": 4})
	})
	mux.HandleFunc("/decode", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Label int `json:"label"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Label != 4 {
			http.Error(w, "unknown label", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"category": "RAG & Retrieval for Enterprise Data"})
	})
	return httptest.NewServer(mux)
}

func TestClassifierHappyPath(t *testing.T) {
	t.Parallel()

	srv := newModelServer(t)
	defer srv.Close()

	clf := NewClassifier(NewClient(srv.URL, "test-key", 5*time.Second))
	got, err := clf.Classify(context.Background(), "Graph RAG", "knowledge graphs over lakes")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got != "RAG & Retrieval for Enterprise Data" {
		t.Fatalf("got %q", got)
	}
}

func TestClassifierPropagatesServiceFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	clf := NewClassifier(NewClient(srv.URL, "", 5*time.Second))
	if _, err := clf.Classify(context.Background(), "t", "s"); err == nil {
		t.Fatal("expected error from failing model service")
	}
}

func TestFallbackClassifier(t *testing.T) {
	t.Parallel()

	got, err := (FallbackClassifier{}).Classify(context.Background(), "anything", "at all")
	if err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if got != domain.DefaultCategory {
		t.Fatalf("got %q", got)
	}
}
