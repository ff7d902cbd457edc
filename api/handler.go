package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dashboard-service/fetcher"
	"dashboard-service/model"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Store is the read side of the cache consumed by the query surface. The
// handlers never call upstream providers for cached categories.
type Store interface {
	GetNews(ctx context.Context, category string, limit int) []model.Article
	GetWeather(ctx context.Context, location string) *model.WeatherSnapshot
	GetMatches(ctx context.Context, limit int) []model.MatchRecord
	Counts(ctx context.Context) map[string]int64
	Backend() string
}

// Forecaster computes the multi-day outlook live; forecast data is the one
// surface that bypasses the cache.
type Forecaster interface {
	FetchForecast(ctx context.Context, days int) ([]model.ForecastDay, error)
}

// Refresher nudges a background job to run ahead of its next tick.
type Refresher interface {
	Trigger(name string) error
}

type DashboardHandler struct {
	store     Store
	forecast  Forecaster
	refresher Refresher
}

func NewDashboardHandler(store Store, forecast Forecaster, refresher Refresher) *DashboardHandler {
	return &DashboardHandler{store: store, forecast: forecast, refresher: refresher}
}

func (h *DashboardHandler) GetWorldNews(c *gin.Context) {
	limit := getQueryLimit(c)
	articles := h.store.GetNews(c.Request.Context(), model.CategoryWorld, limit)
	c.JSON(http.StatusOK, articles)
}

func (h *DashboardHandler) GetFootballNews(c *gin.Context) {
	limit := getQueryLimit(c)
	articles := h.store.GetNews(c.Request.Context(), model.CategoryFootball, limit)
	c.JSON(http.StatusOK, articles)
}

func (h *DashboardHandler) GetWeather(c *gin.Context) {
	snapshot := h.store.GetWeather(c.Request.Context(), fetcher.WeatherLocation())
	if snapshot == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *DashboardHandler) GetForecast(c *gin.Context) {
	days := 5
	if value := c.Query("days"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			days = parsed
		}
	}

	forecast, err := h.forecast.FetchForecast(c.Request.Context(), days)
	if err != nil {
		log.Printf("Forecast fetch failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "forecast unavailable"})
		return
	}
	c.JSON(http.StatusOK, forecast)
}

func (h *DashboardHandler) GetMatches(c *gin.Context) {
	limit := getQueryLimit(c)
	matches := h.store.GetMatches(c.Request.Context(), limit)
	c.JSON(http.StatusOK, matches)
}

func (h *DashboardHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"backendStatus": h.store.Backend(),
		"counts":        h.store.Counts(c.Request.Context()),
		"timestamp":     time.Now().UTC(),
	})
}

func (h *DashboardHandler) TriggerRefresh(c *gin.Context) {
	job := c.Param("job")
	log.Printf("Manual refresh requested for job=%s", job)

	if err := h.refresher.Trigger(job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "refresh triggered", "job": job})
}

// getQueryLimit parses ?limit= with a default and a hard cap so a client
// cannot request the whole collection.
func getQueryLimit(c *gin.Context) int {
	limit := defaultLimit
	if value := c.Query("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}
