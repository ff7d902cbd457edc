package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"dashboard-service/cache"
	"dashboard-service/config"
	"dashboard-service/model"
)

type fakeUpstream struct {
	world    []model.Article
	football []model.Article
	weather  *model.WeatherSnapshot
	matches  []model.MatchRecord

	worldErr    error
	footballErr error
	weatherErr  error
	matchesErr  error

	calls map[string]int
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{calls: make(map[string]int)}
}

func (f *fakeUpstream) FetchWorldNews(ctx context.Context) ([]model.Article, error) {
	f.calls["world"]++
	return f.world, f.worldErr
}

func (f *fakeUpstream) FetchFootballNews(ctx context.Context) ([]model.Article, error) {
	f.calls["football"]++
	return f.football, f.footballErr
}

func (f *fakeUpstream) FetchCurrentWeather(ctx context.Context) (*model.WeatherSnapshot, error) {
	f.calls["weather"]++
	return f.weather, f.weatherErr
}

func (f *fakeUpstream) FetchMatches(ctx context.Context) ([]model.MatchRecord, error) {
	f.calls["matches"]++
	return f.matches, f.matchesErr
}

func testConfig() *config.Config {
	return &config.Config{
		NewsInterval:    time.Minute,
		WeatherInterval: time.Minute,
		MatchesInterval: time.Minute,
		MatchWindowDays: 7,
	}
}

func TestEmptyFetchPreservesCache(t *testing.T) {
	store := cache.NewStore(nil)
	ctx := context.Background()

	seeded := []model.Article{
		{Category: model.CategoryWorld, Title: "previous headline", URL: "https://example.com/prev", PublishedAt: time.Now()},
	}
	store.ReplaceNews(ctx, model.CategoryWorld, seeded)

	upstream := newFakeUpstream() // returns empty slices
	w := NewWorker(testConfig(), store, upstream, nil)

	result := w.refreshNews(ctx)
	if !result.Success {
		t.Fatalf("empty fetch should not be a failure: %+v", result)
	}

	got := store.GetNews(ctx, model.CategoryWorld, 10)
	if len(got) != 1 || got[0].Title != "previous headline" {
		t.Errorf("empty fetch wiped previously cached articles: %v", got)
	}
}

func TestFetchFailurePreservesCacheAndReportsError(t *testing.T) {
	store := cache.NewStore(nil)
	ctx := context.Background()

	store.ReplaceNews(ctx, model.CategoryWorld, []model.Article{
		{Category: model.CategoryWorld, Title: "good data", URL: "https://example.com/good"},
	})

	upstream := newFakeUpstream()
	upstream.worldErr = errors.New("upstream down")
	w := NewWorker(testConfig(), store, upstream, nil)

	result := w.refreshNews(ctx)
	if result.Success {
		t.Error("expected failure result when fetch errors")
	}
	if result.Error == "" {
		t.Error("expected error reason in result")
	}

	got := store.GetNews(ctx, model.CategoryWorld, 10)
	if len(got) != 1 {
		t.Errorf("failed fetch must not touch the cache, got %v", got)
	}
}

func TestNewsCategoriesIndependent(t *testing.T) {
	store := cache.NewStore(nil)
	ctx := context.Background()

	upstream := newFakeUpstream()
	upstream.worldErr = errors.New("world feed down")
	upstream.football = []model.Article{
		{Category: model.CategoryFootball, Title: "transfer news", URL: "https://example.com/t"},
	}
	w := NewWorker(testConfig(), store, upstream, nil)

	w.refreshNews(ctx)

	got := store.GetNews(ctx, model.CategoryFootball, 10)
	if len(got) != 1 {
		t.Errorf("football update should survive a world fetch failure, got %v", got)
	}
}

func TestProviderIsolation(t *testing.T) {
	store := cache.NewStore(nil)
	ctx := context.Background()

	upstream := newFakeUpstream()
	upstream.weatherErr = errors.New("weather provider down")
	upstream.world = []model.Article{
		{Category: model.CategoryWorld, Title: "headline", URL: "https://example.com/h"},
	}
	upstream.matches = []model.MatchRecord{
		{ExternalMatchID: "1", Status: model.StatusScheduled, MatchDate: time.Now().Add(time.Hour)},
	}
	w := NewWorker(testConfig(), store, upstream, nil)

	weatherResult := w.refreshWeather(ctx)
	if weatherResult.Success {
		t.Error("expected weather refresh to fail")
	}

	newsResult := w.refreshNews(ctx)
	matchesResult := w.refreshMatches(ctx)
	if !newsResult.Success || !matchesResult.Success {
		t.Fatalf("weather failure leaked into other jobs: news=%+v matches=%+v", newsResult, matchesResult)
	}

	if got := store.GetNews(ctx, model.CategoryWorld, 10); len(got) != 1 {
		t.Errorf("world news missing after weather failure: %v", got)
	}
	if got := store.GetMatches(ctx, 10); len(got) != 1 {
		t.Errorf("matches missing after weather failure: %v", got)
	}
	if got := store.GetWeather(ctx, "zurich"); got != nil {
		t.Errorf("failed weather fetch should leave no snapshot, got %+v", got)
	}
}

func TestRefreshMatchesUpsertsAndPrunes(t *testing.T) {
	store := cache.NewStore(nil)
	ctx := context.Background()

	// A match far beyond the retention horizon gets pruned on refresh.
	store.UpsertMatch(ctx, model.MatchRecord{
		ExternalMatchID: "ancient",
		Status:          model.StatusFinished,
		MatchDate:       time.Now().Add(-30 * 24 * time.Hour),
	})

	upstream := newFakeUpstream()
	upstream.matches = []model.MatchRecord{
		{ExternalMatchID: "current", Status: model.StatusLive, MatchDate: time.Now()},
	}
	w := NewWorker(testConfig(), store, upstream, nil)

	result := w.refreshMatches(ctx)
	if !result.Success || result.RecordCount != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	got := store.GetMatches(ctx, 10)
	if len(got) != 1 || got[0].ExternalMatchID != "current" {
		t.Errorf("expected ancient match pruned and current kept, got %v", got)
	}
}

func TestOverlapGuardSkipsTick(t *testing.T) {
	store := cache.NewStore(nil)
	upstream := newFakeUpstream()
	w := NewWorker(testConfig(), store, upstream, nil)

	j := w.jobs[JobWeather]
	j.running.Store(true)

	w.runOnce(context.Background(), j)
	if upstream.calls["weather"] != 0 {
		t.Error("tick should be skipped while a run is in progress")
	}

	j.running.Store(false)
	w.runOnce(context.Background(), j)
	if upstream.calls["weather"] != 1 {
		t.Errorf("expected exactly one run after guard released, got %d", upstream.calls["weather"])
	}
}

func TestTriggerUnknownJob(t *testing.T) {
	w := NewWorker(testConfig(), cache.NewStore(nil), newFakeUpstream(), nil)

	if err := w.Trigger("nope"); err == nil {
		t.Error("expected error for unknown job name")
	}
	if err := w.Trigger(JobNews); err != nil {
		t.Errorf("expected nil for known job, got %v", err)
	}
	if err := w.Trigger("all"); err != nil {
		t.Errorf("expected nil for all, got %v", err)
	}
}
