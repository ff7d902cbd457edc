package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"dashboard-service/metrics"
	"dashboard-service/model"
)

// newsAPIResponse is the wire shape shared by the top-headlines and
// everything endpoints.
type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		URLToImage  string    `json:"urlToImage"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// FetchWorldNews pulls general headlines and normalizes them into world
// articles.
func (f *Fetcher) FetchWorldNews(ctx context.Context) ([]model.Article, error) {
	if f.config.NewsAPIKey == "" {
		log.Println("Skipping world news fetch: no API key configured")
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/top-headlines?category=general&language=en&pageSize=10&apiKey=%s",
		f.config.NewsAPIBaseURL, f.config.NewsAPIKey)

	raw, err := f.fetchNewsPage(ctx, endpoint)
	if err != nil {
		metrics.ProviderFetchesTotal.WithLabelValues("newsapi_world", "error").Inc()
		return nil, fmt.Errorf("world news fetch: %w", err)
	}

	articles := normalizeArticles(raw, model.CategoryWorld)
	metrics.ProviderFetchesTotal.WithLabelValues("newsapi_world", "ok").Inc()
	metrics.ProviderRecordsFetched.WithLabelValues("newsapi_world").Add(float64(len(articles)))
	return articles, nil
}

// FetchFootballNews pulls the soccer search feed and applies the two-stage
// keyword filter before normalizing.
func (f *Fetcher) FetchFootballNews(ctx context.Context) ([]model.Article, error) {
	if f.config.NewsAPIKey == "" {
		log.Println("Skipping football news fetch: no API key configured")
		return nil, nil
	}

	query := url.QueryEscape("football OR FIFA OR soccer")
	endpoint := fmt.Sprintf("%s/everything?q=%s&language=en&sortBy=publishedAt&pageSize=20&apiKey=%s",
		f.config.NewsAPIBaseURL, query, f.config.NewsAPIKey)

	raw, err := f.fetchNewsPage(ctx, endpoint)
	if err != nil {
		metrics.ProviderFetchesTotal.WithLabelValues("newsapi_football", "error").Inc()
		return nil, fmt.Errorf("football news fetch: %w", err)
	}

	articles := normalizeArticles(raw, model.CategoryFootball)

	kept := articles[:0]
	for _, article := range articles {
		if footballFilter.Match(article.Title, article.Description, article.Source) {
			kept = append(kept, article)
		}
	}
	log.Printf("Football news filter kept %d of %d articles", len(kept), len(articles))

	metrics.ProviderFetchesTotal.WithLabelValues("newsapi_football", "ok").Inc()
	metrics.ProviderRecordsFetched.WithLabelValues("newsapi_football").Add(float64(len(kept)))
	return kept, nil
}

func (f *Fetcher) fetchNewsPage(ctx context.Context, endpoint string) (*newsAPIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var result newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func normalizeArticles(raw *newsAPIResponse, category string) []model.Article {
	now := time.Now()
	articles := make([]model.Article, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		articles = append(articles, model.Article{
			Category:    category,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			FetchedAt:   now,
		})
	}
	return articles
}
