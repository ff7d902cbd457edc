package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"dashboard-service/metrics"
	"dashboard-service/model"
)

// Backend labels reported by Store.Backend and the health endpoint.
const (
	BackendMongo  = "mongodb"
	BackendMemory = "memory"
)

// Store is the dual-backend cache. Every write goes to the in-memory mirror;
// when Mongo is reachable the write is applied there too, and a Mongo failure
// is logged and swallowed. Reads prefer Mongo and fall back to the mirror.
// Reads never fail: an empty cache yields an empty result.
//
// Mongo availability is resolved once per process, on first use.
type Store struct {
	mongo *mongoStore
	mem   *memoryStore

	availOnce sync.Once
	avail     bool
}

// NewStore builds the cache around an optional Mongo database. Pass nil to
// run memory-only.
func NewStore(db *mongo.Database) *Store {
	s := &Store{mem: newMemoryStore()}
	if db != nil {
		s.mongo = &mongoStore{db: db}
	}
	return s
}

func (s *Store) available(ctx context.Context) bool {
	s.availOnce.Do(func() {
		if s.mongo == nil {
			log.Println("Cache store: no MongoDB configured, using in-memory backend")
			return
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := s.mongo.db.Client().Ping(pingCtx, nil); err != nil {
			log.Printf("Cache store: MongoDB unreachable, falling back to in-memory backend: %v", err)
			return
		}

		s.mongo.ensureIndexes(ctx)
		s.avail = true
		log.Println("Cache store: MongoDB backend available")
	})
	return s.avail
}

// Backend reports which backend is serving reads.
func (s *Store) Backend() string {
	if s.available(context.Background()) {
		return BackendMongo
	}
	return BackendMemory
}

func (s *Store) ReplaceNews(ctx context.Context, category string, articles []model.Article) {
	s.mem.replaceNews(category, articles)

	if !s.available(ctx) {
		metrics.CacheOperationsTotal.WithLabelValues("replace_news", BackendMemory, "ok").Inc()
		return
	}
	if err := s.mongo.replaceNews(ctx, category, articles); err != nil {
		log.Printf("Cache store: failed to replace %s news in MongoDB: %v", category, err)
		metrics.CacheOperationsTotal.WithLabelValues("replace_news", BackendMongo, "error").Inc()
		return
	}
	metrics.CacheOperationsTotal.WithLabelValues("replace_news", BackendMongo, "ok").Inc()
}

func (s *Store) GetNews(ctx context.Context, category string, limit int) []model.Article {
	if s.available(ctx) {
		articles, err := s.mongo.getNews(ctx, category, limit)
		if err == nil {
			metrics.CacheOperationsTotal.WithLabelValues("get_news", BackendMongo, "ok").Inc()
			return articles
		}
		log.Printf("Cache store: MongoDB news read failed, answering from memory: %v", err)
		metrics.CacheOperationsTotal.WithLabelValues("get_news", BackendMongo, "error").Inc()
	}
	return s.mem.getNews(category, limit)
}

func (s *Store) ReplaceWeather(ctx context.Context, snapshot model.WeatherSnapshot) {
	s.mem.replaceWeather(snapshot)

	if !s.available(ctx) {
		metrics.CacheOperationsTotal.WithLabelValues("replace_weather", BackendMemory, "ok").Inc()
		return
	}
	if err := s.mongo.replaceWeather(ctx, snapshot); err != nil {
		log.Printf("Cache store: failed to replace weather in MongoDB: %v", err)
		metrics.CacheOperationsTotal.WithLabelValues("replace_weather", BackendMongo, "error").Inc()
		return
	}
	metrics.CacheOperationsTotal.WithLabelValues("replace_weather", BackendMongo, "ok").Inc()
}

func (s *Store) GetWeather(ctx context.Context, location string) *model.WeatherSnapshot {
	if s.available(ctx) {
		snapshot, err := s.mongo.getWeather(ctx, location)
		if err == nil {
			metrics.CacheOperationsTotal.WithLabelValues("get_weather", BackendMongo, "ok").Inc()
			return snapshot
		}
		log.Printf("Cache store: MongoDB weather read failed, answering from memory: %v", err)
		metrics.CacheOperationsTotal.WithLabelValues("get_weather", BackendMongo, "error").Inc()
	}
	return s.mem.getWeather(location)
}

func (s *Store) UpsertMatch(ctx context.Context, match model.MatchRecord) {
	s.mem.upsertMatch(match)

	if !s.available(ctx) {
		metrics.CacheOperationsTotal.WithLabelValues("upsert_match", BackendMemory, "ok").Inc()
		return
	}
	if err := s.mongo.upsertMatch(ctx, match); err != nil {
		log.Printf("Cache store: failed to upsert match %s in MongoDB: %v", match.ExternalMatchID, err)
		metrics.CacheOperationsTotal.WithLabelValues("upsert_match", BackendMongo, "error").Inc()
		return
	}
	metrics.CacheOperationsTotal.WithLabelValues("upsert_match", BackendMongo, "ok").Inc()
}

func (s *Store) GetMatches(ctx context.Context, limit int) []model.MatchRecord {
	if s.available(ctx) {
		matches, err := s.mongo.getMatches(ctx, limit)
		if err == nil {
			metrics.CacheOperationsTotal.WithLabelValues("get_matches", BackendMongo, "ok").Inc()
			return matches
		}
		log.Printf("Cache store: MongoDB matches read failed, answering from memory: %v", err)
		metrics.CacheOperationsTotal.WithLabelValues("get_matches", BackendMongo, "error").Inc()
	}
	return s.mem.getMatches(limit)
}

// PruneMatches drops matches whose matchDate is older than the retention
// horizon.
func (s *Store) PruneMatches(ctx context.Context, olderThan time.Time) {
	removed := s.mem.pruneMatches(olderThan)
	if removed > 0 {
		log.Printf("Cache store: pruned %d stale matches from memory", removed)
	}

	if !s.available(ctx) {
		return
	}
	deleted, err := s.mongo.pruneMatches(ctx, olderThan)
	if err != nil {
		log.Printf("Cache store: failed to prune matches in MongoDB: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Cache store: pruned %d stale matches from MongoDB", deleted)
	}
}

// Counts returns per-category record counts for the health endpoint.
func (s *Store) Counts(ctx context.Context) map[string]int64 {
	if s.available(ctx) {
		counts, err := s.mongo.counts(ctx)
		if err == nil {
			return counts
		}
		log.Printf("Cache store: MongoDB counts failed, answering from memory: %v", err)
	}
	return s.mem.counts()
}
