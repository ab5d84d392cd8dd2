package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchParsesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("format = %q, want json", r.URL.Query().Get("format"))
		}
		if r.URL.Query().Get("q") != "golang" {
			t.Errorf("q = %q, want golang", r.URL.Query().Get("q"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"title":"Go","url":"https://go.dev","content":"The Go programming language"},
			{"title":"Go wiki","url":"https://wiki.example.com/go","content":"Community wiki"},
			{"title":"Go blog","url":"https://go.dev/blog","content":"Official blog"},
			{"title":"Extra","url":"https://example.com","content":"Beyond limit"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	results, err := client.Search(context.Background(), "golang", 3)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	if results[0].Title != "Go" || results[0].URL != "https://go.dev" {
		t.Errorf("first result = %+v", results[0])
	}

	for i, r := range results {
		if r.Rank != i+1 {
			t.Errorf("result %d rank = %d, want %d", i, r.Rank, i+1)
		}
	}
}

func TestSearchEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	results, err := client.Search(context.Background(), "nothing here", 3)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestSearchEngineError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Search(context.Background(), "golang", 3); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestSearchUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	if _, err := client.Search(context.Background(), "golang", 3); err == nil {
		t.Fatal("expected error when engine is unreachable")
	}
}
