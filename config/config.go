package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI       string
	NATSUrl        string
	NewsAPIKey     string
	NewsAPIBaseURL string
	FootballAPIKey string
	FootballAPIURL string
	WeatherAPIURL  string

	AllowedOrigins []string
	Port           string

	NewsInterval    time.Duration
	WeatherInterval time.Duration
	MatchesInterval time.Duration

	MatchWindowDays  int
	MatchLeagues     []string
	MatchFetchDelay  time.Duration
	MatchesPerLeague int
}

// Load reads the configuration from the environment once at startup. Missing
// credentials are not fatal: the affected provider degrades to empty output
// and an absent Mongo URI switches the cache to its in-memory backend.
func Load() *Config {
	cfg := &Config{
		MongoURI:       os.Getenv("MONGO_URI"),
		NATSUrl:        os.Getenv("NATS_URL"),
		NewsAPIKey:     os.Getenv("NEWS_API_KEY"),
		NewsAPIBaseURL: getEnv("NEWS_API_BASE_URL", "https://newsapi.org/v2"),
		FootballAPIKey: os.Getenv("FOOTBALL_API_KEY"),
		FootballAPIURL: getEnv("FOOTBALL_API_BASE_URL", "https://api.football-data.org/v4"),
		WeatherAPIURL:  getEnv("WEATHER_API_BASE_URL", "https://api.open-meteo.com/v1"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		Port:           getEnv("PORT", "8080"),

		NewsInterval:    getDurationEnv("NEWS_REFRESH_INTERVAL", "20m"),
		WeatherInterval: getDurationEnv("WEATHER_REFRESH_INTERVAL", "30m"),
		MatchesInterval: getDurationEnv("MATCHES_REFRESH_INTERVAL", "10m"),

		MatchWindowDays:  getIntEnv("MATCH_WINDOW_DAYS", 7),
		MatchLeagues:     splitList(getEnv("MATCH_LEAGUES", "CL,PL,PD,BL1,SA,FL1")),
		MatchFetchDelay:  getDurationEnv("MATCH_FETCH_DELAY", "6s"),
		MatchesPerLeague: getIntEnv("MATCHES_PER_LEAGUE", 10),
	}

	if cfg.NewsAPIKey == "" {
		log.Println("NEWS_API_KEY not set - news jobs will return empty results")
	}
	if cfg.FootballAPIKey == "" {
		log.Println("FOOTBALL_API_KEY not set - matches job will serve placeholder fixtures")
	}
	if cfg.MongoURI == "" {
		log.Println("MONGO_URI not set - cache will use the in-memory backend")
	}

	log.Printf("Config loaded - NewsInterval: %v, WeatherInterval: %v, MatchesInterval: %v, Leagues: %v",
		cfg.NewsInterval, cfg.WeatherInterval, cfg.MatchesInterval, cfg.MatchLeagues)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
