package cache

import (
	"context"
	"testing"
	"time"

	"dashboard-service/model"
)

// With no Mongo database configured the store must serve every operation from
// the in-memory backend and stay internally consistent.
func TestStoreMemoryOnlyDegradation(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	if backend := store.Backend(); backend != BackendMemory {
		t.Fatalf("expected memory backend, got %s", backend)
	}

	articles := []model.Article{
		{Category: model.CategoryWorld, Title: "headline", URL: "https://example.com/a", PublishedAt: time.Now()},
	}
	store.ReplaceNews(ctx, model.CategoryWorld, articles)

	got := store.GetNews(ctx, model.CategoryWorld, 10)
	if len(got) != 1 || got[0].Title != "headline" {
		t.Errorf("news round trip failed: %v", got)
	}

	snapshot := model.WeatherSnapshot{Location: "zurich", Temperature: 21.5, WeatherCode: 2, Description: "Partly cloudy"}
	store.ReplaceWeather(ctx, snapshot)

	weather := store.GetWeather(ctx, "zurich")
	if weather == nil || weather.Temperature != 21.5 {
		t.Errorf("weather round trip failed: %+v", weather)
	}

	store.UpsertMatch(ctx, model.MatchRecord{ExternalMatchID: "42", Status: model.StatusScheduled, MatchDate: time.Now()})
	matches := store.GetMatches(ctx, 10)
	if len(matches) != 1 {
		t.Errorf("match round trip failed: %v", matches)
	}

	counts := store.Counts(ctx)
	if counts[model.CategoryWorld] != 1 || counts["matches"] != 1 || counts["weather"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestStoreGetWeatherEmpty(t *testing.T) {
	store := NewStore(nil)

	if got := store.GetWeather(context.Background(), "zurich"); got != nil {
		t.Errorf("expected nil for empty weather cache, got %+v", got)
	}
}

func TestStoreGetNewsEmptyNeverFails(t *testing.T) {
	store := NewStore(nil)

	got := store.GetNews(context.Background(), model.CategoryFootball, 5)
	if len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}
