package cache

import (
	"sort"
	"sync"
	"time"

	"dashboard-service/model"
)

// memoryStore mirrors the Mongo collections in process memory. It is always
// written on every cache write so reads can fall back to it when Mongo is
// unreachable. Category replacement swaps the whole slice under the lock, so
// readers see either the old set or the new set, never a mix.
type memoryStore struct {
	mu      sync.RWMutex
	news    map[string][]model.Article
	weather map[string]model.WeatherSnapshot
	matches map[string]model.MatchRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		news:    make(map[string][]model.Article),
		weather: make(map[string]model.WeatherSnapshot),
		matches: make(map[string]model.MatchRecord),
	}
}

func (m *memoryStore) replaceNews(category string, articles []model.Article) {
	fresh := make([]model.Article, len(articles))
	copy(fresh, articles)

	m.mu.Lock()
	m.news[category] = fresh
	m.mu.Unlock()
}

func (m *memoryStore) getNews(category string, limit int) []model.Article {
	m.mu.RLock()
	cached := m.news[category]
	out := make([]model.Article, len(cached))
	copy(out, cached)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *memoryStore) replaceWeather(snapshot model.WeatherSnapshot) {
	m.mu.Lock()
	m.weather[snapshot.Location] = snapshot
	m.mu.Unlock()
}

func (m *memoryStore) getWeather(location string) *model.WeatherSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot, ok := m.weather[location]
	if !ok {
		return nil
	}
	return &snapshot
}

func (m *memoryStore) upsertMatch(match model.MatchRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.matches[match.ExternalMatchID]
	if !ok {
		m.matches[match.ExternalMatchID] = match
		return
	}

	// Only score and status are mutable across refreshes.
	existing.HomeScore = match.HomeScore
	existing.AwayScore = match.AwayScore
	existing.Status = match.Status
	m.matches[match.ExternalMatchID] = existing
}

func (m *memoryStore) getMatches(limit int) []model.MatchRecord {
	m.mu.RLock()
	out := make([]model.MatchRecord, 0, len(m.matches))
	for _, match := range m.matches {
		out = append(out, match)
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := model.StatusPriority(out[i].Status), model.StatusPriority(out[j].Status)
		if pi != pj {
			return pi < pj
		}
		return out[i].MatchDate.Before(out[j].MatchDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *memoryStore) pruneMatches(olderThan time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, match := range m.matches {
		if match.MatchDate.Before(olderThan) {
			delete(m.matches, id)
			removed++
		}
	}
	return removed
}

func (m *memoryStore) counts() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]int64{
		model.CategoryWorld:    int64(len(m.news[model.CategoryWorld])),
		model.CategoryFootball: int64(len(m.news[model.CategoryFootball])),
		"weather":              int64(len(m.weather)),
		"matches":              int64(len(m.matches)),
	}
}
