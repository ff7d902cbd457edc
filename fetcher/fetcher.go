package fetcher

import (
	"net/http"
	"time"

	"dashboard-service/config"
)

// Fetcher owns the HTTP clients for all upstream providers. Each provider
// call returns its normalized records plus an error; callers (the refresh
// jobs) log failures and keep serving the previous cache. A missing
// credential is not an error - the affected provider degrades to empty or
// placeholder output.
type Fetcher struct {
	config *config.Config
	client *http.Client
}

func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		config: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}
