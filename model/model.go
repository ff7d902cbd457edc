package model

import "time"

// News categories used as the cache partition key.
const (
	CategoryWorld    = "world"
	CategoryFootball = "football"
)

// Match statuses, ordered by display priority (scheduled first).
const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusFinished  = "finished"
)

type Article struct {
	Category    string    `json:"category" bson:"category"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	URL         string    `json:"url" bson:"url"`
	ImageURL    string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Source      string    `json:"source,omitempty" bson:"source,omitempty"`
	PublishedAt time.Time `json:"publishedAt" bson:"publishedAt"`
	FetchedAt   time.Time `json:"fetchedAt" bson:"fetchedAt"`
}

type WeatherSnapshot struct {
	Location    string    `json:"location" bson:"location"`
	Temperature float64   `json:"temperature" bson:"temperature"`
	WeatherCode int       `json:"weatherCode" bson:"weatherCode"`
	WindSpeed   float64   `json:"windSpeed" bson:"windSpeed"`
	Humidity    float64   `json:"humidity" bson:"humidity"`
	Description string    `json:"description" bson:"description"`
	FetchedAt   time.Time `json:"fetchedAt" bson:"fetchedAt"`
}

// ForecastDay is computed from the upstream forecast call on demand and is
// never cached.
type ForecastDay struct {
	Date        string  `json:"date"`
	WeatherCode int     `json:"weatherCode"`
	Description string  `json:"description"`
	TempMax     float64 `json:"tempMax"`
	TempMin     float64 `json:"tempMin"`
}

type MatchRecord struct {
	ExternalMatchID string    `json:"externalMatchId" bson:"externalMatchId"`
	HomeTeam        string    `json:"homeTeam" bson:"homeTeam"`
	AwayTeam        string    `json:"awayTeam" bson:"awayTeam"`
	HomeScore       *int      `json:"homeScore" bson:"homeScore,omitempty"`
	AwayScore       *int      `json:"awayScore" bson:"awayScore,omitempty"`
	League          string    `json:"league" bson:"league"`
	LeagueCountry   string    `json:"leagueCountry,omitempty" bson:"leagueCountry,omitempty"`
	MatchDate       time.Time `json:"matchDate" bson:"matchDate"`
	Status          string    `json:"status" bson:"status"`
	HomeTeamLogo    string    `json:"homeTeamLogo,omitempty" bson:"homeTeamLogo,omitempty"`
	AwayTeamLogo    string    `json:"awayTeamLogo,omitempty" bson:"awayTeamLogo,omitempty"`
	FetchedAt       time.Time `json:"fetchedAt" bson:"fetchedAt"`
}

// StatusPriority orders matches for display: upcoming fixtures first, then
// live games, then finished results.
func StatusPriority(status string) int {
	switch status {
	case StatusScheduled:
		return 0
	case StatusLive:
		return 1
	case StatusFinished:
		return 2
	default:
		return 3
	}
}

// RefreshResult is published after each job run so other services can react
// to refresh cycles.
type RefreshResult struct {
	Job         string    `json:"job"`
	RecordCount int       `json:"recordCount"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt"`
}
