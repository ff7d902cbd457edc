package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"dashboard-service/config"
	"dashboard-service/model"
)

const worldNewsPayload = `{
	"status": "ok",
	"articles": [
		{
			"source": {"name": "Reuters"},
			"title": "Markets rally on rate decision",
			"description": "Stocks climbed after the announcement.",
			"url": "https://example.com/markets",
			"urlToImage": "https://example.com/markets.jpg",
			"publishedAt": "2026-08-31T09:00:00Z"
		},
		{
			"source": {"name": "AP"},
			"title": "",
			"url": "https://example.com/untitled"
		},
		{
			"source": {"name": "BBC"},
			"title": "Summit concludes with joint statement",
			"url": "https://example.com/summit",
			"publishedAt": "2026-08-31T08:00:00Z"
		}
	]
}`

func TestFetchWorldNews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top-headlines" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(worldNewsPayload))
	}))
	defer server.Close()

	f := NewFetcher(&config.Config{NewsAPIKey: "test-key", NewsAPIBaseURL: server.URL})

	articles, err := f.FetchWorldNews(context.Background())
	if err != nil {
		t.Fatalf("FetchWorldNews: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles (untitled dropped), got %d", len(articles))
	}
	if articles[0].Category != model.CategoryWorld {
		t.Errorf("expected world category, got %q", articles[0].Category)
	}
	if articles[0].Source != "Reuters" {
		t.Errorf("expected source name flattened, got %q", articles[0].Source)
	}
	if articles[0].FetchedAt.IsZero() {
		t.Error("expected fetchedAt set at normalization time")
	}
}

func TestFetchWorldNewsMissingKey(t *testing.T) {
	f := NewFetcher(&config.Config{NewsAPIKey: ""})

	articles, err := f.FetchWorldNews(context.Background())
	if err != nil {
		t.Fatalf("missing key must not be an error, got %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("expected empty result without credential, got %d", len(articles))
	}
}

func TestFetchWorldNewsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	f := NewFetcher(&config.Config{NewsAPIKey: "test-key", NewsAPIBaseURL: server.URL})

	if _, err := f.FetchWorldNews(context.Background()); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}

const footballNewsPayload = `{
	"status": "ok",
	"articles": [
		{
			"source": {"name": "ESPN"},
			"title": "NFL Draft: Top prospects for Alabama",
			"url": "https://example.com/nfl",
			"publishedAt": "2026-08-31T10:00:00Z"
		},
		{
			"source": {"name": "Sky Sports"},
			"title": "FIFA announces 2026 World Cup qualifying schedule",
			"url": "https://example.com/fifa",
			"publishedAt": "2026-08-31T11:00:00Z"
		},
		{
			"source": {"name": "The Athletic"},
			"title": "Champions League group stage preview",
			"url": "https://example.com/ucl",
			"publishedAt": "2026-08-31T12:00:00Z"
		}
	]
}`

func TestFetchFootballNewsAppliesFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/everything" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(footballNewsPayload))
	}))
	defer server.Close()

	f := NewFetcher(&config.Config{NewsAPIKey: "test-key", NewsAPIBaseURL: server.URL})

	articles, err := f.FetchFootballNews(context.Background())
	if err != nil {
		t.Fatalf("FetchFootballNews: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected NFL article filtered out, got %d articles", len(articles))
	}
	for _, article := range articles {
		if article.Category != model.CategoryFootball {
			t.Errorf("expected football category, got %q", article.Category)
		}
		if article.Title == "NFL Draft: Top prospects for Alabama" {
			t.Error("excluded article survived the filter")
		}
	}
}
