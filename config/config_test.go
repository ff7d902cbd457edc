package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("NEWS_API_KEY", "")
	t.Setenv("FOOTBALL_API_KEY", "")

	cfg := Load()

	if cfg.NewsInterval != 20*time.Minute {
		t.Errorf("expected 20m news interval, got %v", cfg.NewsInterval)
	}
	if cfg.WeatherInterval != 30*time.Minute {
		t.Errorf("expected 30m weather interval, got %v", cfg.WeatherInterval)
	}
	if cfg.MatchesInterval != 10*time.Minute {
		t.Errorf("expected 10m matches interval, got %v", cfg.MatchesInterval)
	}
	if cfg.MatchWindowDays != 7 {
		t.Errorf("expected 7 day match window, got %d", cfg.MatchWindowDays)
	}
	if len(cfg.MatchLeagues) != 6 {
		t.Errorf("expected 6 default leagues, got %v", cfg.MatchLeagues)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NEWS_REFRESH_INTERVAL", "5m")
	t.Setenv("MATCH_WINDOW_DAYS", "3")
	t.Setenv("MATCH_LEAGUES", "PL, CL")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := Load()

	if cfg.NewsInterval != 5*time.Minute {
		t.Errorf("expected 5m news interval, got %v", cfg.NewsInterval)
	}
	if cfg.MatchWindowDays != 3 {
		t.Errorf("expected 3 day window, got %d", cfg.MatchWindowDays)
	}
	if len(cfg.MatchLeagues) != 2 || cfg.MatchLeagues[1] != "CL" {
		t.Errorf("expected trimmed league list [PL CL], got %v", cfg.MatchLeagues)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("expected 2 allowed origins, got %v", cfg.AllowedOrigins)
	}
}

func TestGetDurationEnvInvalid(t *testing.T) {
	t.Setenv("WEATHER_REFRESH_INTERVAL", "not-a-duration")

	cfg := Load()

	if cfg.WeatherInterval != 30*time.Minute {
		t.Errorf("expected fallback 30m for invalid duration, got %v", cfg.WeatherInterval)
	}
}
