package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearxNG_Search_ParsesResults(t *testing.T) {
	var gotEngines, gotKey, gotCount string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEngines = r.URL.Query().Get("engines")
		gotKey = r.URL.Query().Get("apikey")
		gotCount = r.URL.Query().Get("count")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "Doc", "url": "https://example.com", "content": "snippet"},
				{"title": "", "url": "https://example.org", "content": "untitled"},
				{"title": "Bad", "url": "", "content": "no url"},
			},
		})
	}))
	defer srv.Close()

	s := &SearxNG{BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := s.Search(context.Background(), Request{Query: "query", APIKey: "k", ScopeID: "google,bing", Num: 50})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results with urls, got %d", len(got))
	}
	if got[0].URL != "https://example.com" || got[0].Source != "searxng" {
		t.Fatalf("unexpected first result: %+v", got[0])
	}
	if gotEngines != "google,bing" || gotKey != "k" || gotCount != "10" {
		t.Fatalf("unexpected params engines=%q key=%q count=%q", gotEngines, gotKey, gotCount)
	}
}

func TestSearxNG_Search_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrQuotaExceeded},
		{http.StatusBadGateway, ErrUnavailable},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		s := &SearxNG{BaseURL: srv.URL, HTTPClient: srv.Client()}
		_, err := s.Search(context.Background(), Request{Query: "q"})
		srv.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestSearxNG_MissingBaseURL(t *testing.T) {
	s := &SearxNG{}
	if _, err := s.Search(context.Background(), Request{Query: "q"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}
