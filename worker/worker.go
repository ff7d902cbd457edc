package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"dashboard-service/cache"
	"dashboard-service/config"
	"dashboard-service/metrics"
	"dashboard-service/model"
)

const (
	JobNews    = "news"
	JobWeather = "weather"
	JobMatches = "matches"

	refreshResultSubject  = "dashboard.refresh.result"
	refreshRequestSubject = "dashboard.refresh.request"
)

// Upstream is the provider surface the jobs pull from.
type Upstream interface {
	FetchWorldNews(ctx context.Context) ([]model.Article, error)
	FetchFootballNews(ctx context.Context) ([]model.Article, error)
	FetchCurrentWeather(ctx context.Context) (*model.WeatherSnapshot, error)
	FetchMatches(ctx context.Context) ([]model.MatchRecord, error)
}

// job is one independently scheduled refresh loop. The running flag is the
// overlap guard: a tick that arrives while the previous run is still going is
// skipped, not queued.
type job struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) model.RefreshResult
	trigger  chan struct{}
	running  atomic.Bool
}

// Worker owns the three refresh jobs. Each job runs once at start and then on
// its own ticker; a failure inside one job is logged at the job boundary and
// never reaches the others.
type Worker struct {
	config   *config.Config
	store    *cache.Store
	upstream Upstream
	nc       *nats.Conn

	jobs map[string]*job
}

// NewWorker wires the scheduler. nc may be nil; refresh events and the remote
// trigger subscription are then skipped.
func NewWorker(cfg *config.Config, store *cache.Store, upstream Upstream, nc *nats.Conn) *Worker {
	w := &Worker{
		config:   cfg,
		store:    store,
		upstream: upstream,
		nc:       nc,
	}

	w.jobs = map[string]*job{
		JobNews:    {name: JobNews, interval: cfg.NewsInterval, run: w.refreshNews, trigger: make(chan struct{}, 1)},
		JobWeather: {name: JobWeather, interval: cfg.WeatherInterval, run: w.refreshWeather, trigger: make(chan struct{}, 1)},
		JobMatches: {name: JobMatches, interval: cfg.MatchesInterval, run: w.refreshMatches, trigger: make(chan struct{}, 1)},
	}
	return w
}

// Start launches all job loops and blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	log.Println("Starting background refresh jobs...")

	if w.nc != nil {
		sub, err := w.nc.Subscribe(refreshRequestSubject, w.handleRefreshRequest)
		if err != nil {
			log.Printf("Failed to subscribe to %s: %v", refreshRequestSubject, err)
		} else {
			defer sub.Unsubscribe()
			log.Printf("Subscribed to %s", refreshRequestSubject)
		}
	}

	for _, j := range w.jobs {
		go w.runJob(ctx, j)
	}

	<-ctx.Done()
	log.Println("Background refresh jobs stopped")
	return ctx.Err()
}

func (w *Worker) runJob(ctx context.Context, j *job) {
	// Immediate first run so the dashboard has data right after startup.
	w.runOnce(ctx, j)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runOnce(ctx, j)
		case <-j.trigger:
			log.Printf("[%s] Manual refresh triggered", j.name)
			w.runOnce(ctx, j)
		}
	}
}

func (w *Worker) runOnce(ctx context.Context, j *job) {
	if !j.running.CompareAndSwap(false, true) {
		log.Printf("[%s] Previous run still in progress, skipping tick", j.name)
		metrics.RefreshRunsTotal.WithLabelValues(j.name, "skipped").Inc()
		return
	}
	defer j.running.Store(false)

	start := time.Now()
	result := j.run(ctx)
	result.Job = j.name
	result.FetchedAt = time.Now()

	metrics.RefreshDuration.WithLabelValues(j.name).Observe(time.Since(start).Seconds())
	if result.Success {
		metrics.RefreshRunsTotal.WithLabelValues(j.name, "ok").Inc()
		metrics.LastRefreshSuccess.WithLabelValues(j.name).Set(float64(result.FetchedAt.Unix()))
		log.Printf("[%s] Refresh completed: %d records in %v", j.name, result.RecordCount, time.Since(start))
	} else {
		metrics.RefreshRunsTotal.WithLabelValues(j.name, "error").Inc()
		log.Printf("[%s] Refresh failed: %s", j.name, result.Error)
	}

	w.publishResult(result)
}

// Trigger nudges a job to run without waiting for its next tick. name may be
// "all". A trigger arriving while the job is already queued is dropped.
func (w *Worker) Trigger(name string) error {
	if name == "all" {
		for _, j := range w.jobs {
			select {
			case j.trigger <- struct{}{}:
			default:
			}
		}
		return nil
	}

	j, ok := w.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	select {
	case j.trigger <- struct{}{}:
	default:
	}
	return nil
}

func (w *Worker) handleRefreshRequest(msg *nats.Msg) {
	name := string(msg.Data)
	if name == "" {
		name = "all"
	}
	log.Printf("Refresh request received via NATS: %s", name)
	if err := w.Trigger(name); err != nil {
		log.Printf("Failed to trigger refresh: %v", err)
	}
}

func (w *Worker) publishResult(result model.RefreshResult) {
	if w.nc == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("Failed to marshal refresh result: %v", err)
		return
	}
	if err := w.nc.Publish(refreshResultSubject, data); err != nil {
		log.Printf("Failed to publish refresh result: %v", err)
	}
}

// refreshNews updates both news categories. An empty fetch means "nothing
// new" and leaves the previous cache in place; a failure in one category does
// not stop the other.
func (w *Worker) refreshNews(ctx context.Context) model.RefreshResult {
	result := model.RefreshResult{Success: true}

	world, err := w.upstream.FetchWorldNews(ctx)
	if err != nil {
		log.Printf("[news] World news fetch failed: %v", err)
		result.Success = false
		result.Error = err.Error()
	} else if len(world) > 0 {
		w.store.ReplaceNews(ctx, model.CategoryWorld, world)
		result.RecordCount += len(world)
	}

	football, err := w.upstream.FetchFootballNews(ctx)
	if err != nil {
		log.Printf("[news] Football news fetch failed: %v", err)
		result.Success = false
		result.Error = err.Error()
	} else if len(football) > 0 {
		w.store.ReplaceNews(ctx, model.CategoryFootball, football)
		result.RecordCount += len(football)
	}

	return result
}

func (w *Worker) refreshWeather(ctx context.Context) model.RefreshResult {
	snapshot, err := w.upstream.FetchCurrentWeather(ctx)
	if err != nil {
		return model.RefreshResult{Success: false, Error: err.Error()}
	}
	if snapshot == nil {
		return model.RefreshResult{Success: true}
	}

	w.store.ReplaceWeather(ctx, *snapshot)
	return model.RefreshResult{Success: true, RecordCount: 1}
}

func (w *Worker) refreshMatches(ctx context.Context) model.RefreshResult {
	matches, err := w.upstream.FetchMatches(ctx)
	if err != nil {
		return model.RefreshResult{Success: false, Error: err.Error()}
	}

	for _, match := range matches {
		w.store.UpsertMatch(ctx, match)
	}

	// Retention horizon is twice the fetch window so recently finished
	// matches outlive a few refresh cycles.
	retention := time.Duration(2*w.config.MatchWindowDays) * 24 * time.Hour
	w.store.PruneMatches(ctx, time.Now().Add(-retention))

	return model.RefreshResult{Success: true, RecordCount: len(matches)}
}
