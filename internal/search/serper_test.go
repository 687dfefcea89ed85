package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSerperSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-KEY"); got != "test-key" {
			t.Errorf("X-API-KEY = %q", got)
		}
		var req serperRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Query != "ransomware after:2026-08-27 before:2026-08-29" {
			t.Errorf("query = %q", req.Query)
		}
		if req.NumResults != 10 || req.Locale != "us" || req.Language != "en" {
			t.Errorf("request = %+v", req)
		}
		_, _ = w.Write([]byte(`{"news":[
			{"title":"Breach at retailer","snippet":"Two million accounts","link":"https://a.com/x","source":"Wire","date":"1 hour ago"}
		]}`))
	}))
	defer srv.Close()

	p := NewSerperProvider("test-key")
	p.endpoint = srv.URL

	got, err := p.Search(context.Background(), "ransomware after:2026-08-27 before:2026-08-29", Config{
		MaxResults: 10,
		Locale:     "us",
		Language:   "en",
		Timeout:    5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("results = %d, want 1", len(got))
	}
	if got[0].Title != "Breach at retailer" || got[0].URL != "https://a.com/x" {
		t.Errorf("result = %+v", got[0])
	}
}

func TestSerperSearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewSerperProvider("bad-key")
	p.endpoint = srv.URL

	if _, err := p.Search(context.Background(), "q", Config{MaxResults: 10}); err == nil {
		t.Error("expected error for non-200 response")
	}
}
