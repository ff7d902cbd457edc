package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dashboard-service/metrics"
	"dashboard-service/model"
)

// The dashboard serves a single fixed location.
const (
	weatherLocation = "zurich"
	zurichLat       = 47.3769
	zurichLon       = 8.5472
)

// wmoDescriptions maps WMO weather codes as used by Open-Meteo to display
// labels. Unmapped codes read as "Unknown".
var wmoDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// WeatherDescription resolves a WMO code to its display label.
func WeatherDescription(code int) string {
	if description, ok := wmoDescriptions[code]; ok {
		return description
	}
	return "Unknown"
}

// WeatherLocation returns the fixed location key snapshots are cached under.
func WeatherLocation() string { return weatherLocation }

// FetchCurrentWeather pulls current conditions for Zurich. Open-Meteo needs
// no credential.
func (f *Fetcher) FetchCurrentWeather(ctx context.Context) (*model.WeatherSnapshot, error) {
	endpoint := fmt.Sprintf(
		"%s/forecast?latitude=%.4f&longitude=%.4f&current=temperature_2m,weather_code,wind_speed_10m,relative_humidity_2m&timezone=Europe/Zurich",
		f.config.WeatherAPIURL, zurichLat, zurichLon)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		metrics.ProviderFetchesTotal.WithLabelValues("open_meteo_current", "error").Inc()
		return nil, fmt.Errorf("weather fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderFetchesTotal.WithLabelValues("open_meteo_current", "error").Inc()
		return nil, fmt.Errorf("weather fetch: HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var result struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			WeatherCode int     `json:"weather_code"`
			WindSpeed   float64 `json:"wind_speed_10m"`
			Humidity    float64 `json:"relative_humidity_2m"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		metrics.ProviderFetchesTotal.WithLabelValues("open_meteo_current", "error").Inc()
		return nil, fmt.Errorf("weather fetch: %w", err)
	}

	metrics.ProviderFetchesTotal.WithLabelValues("open_meteo_current", "ok").Inc()
	return &model.WeatherSnapshot{
		Location:    weatherLocation,
		Temperature: result.Current.Temperature,
		WeatherCode: result.Current.WeatherCode,
		WindSpeed:   result.Current.WindSpeed,
		Humidity:    result.Current.Humidity,
		Description: WeatherDescription(result.Current.WeatherCode),
		FetchedAt:   time.Now(),
	}, nil
}

// FetchForecast pulls the daily outlook. Forecast data is served live and
// never cached.
func (f *Fetcher) FetchForecast(ctx context.Context, days int) ([]model.ForecastDay, error) {
	if days < 1 {
		days = 5
	}
	if days > 7 {
		days = 7
	}

	endpoint := fmt.Sprintf(
		"%s/forecast?latitude=%.4f&longitude=%.4f&daily=weather_code,temperature_2m_max,temperature_2m_min&forecast_days=%d&timezone=Europe/Zurich",
		f.config.WeatherAPIURL, zurichLat, zurichLon, days)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		metrics.ProviderFetchesTotal.WithLabelValues("open_meteo_forecast", "error").Inc()
		return nil, fmt.Errorf("forecast fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderFetchesTotal.WithLabelValues("open_meteo_forecast", "error").Inc()
		return nil, fmt.Errorf("forecast fetch: HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var result struct {
		Daily struct {
			Time        []string  `json:"time"`
			WeatherCode []int     `json:"weather_code"`
			TempMax     []float64 `json:"temperature_2m_max"`
			TempMin     []float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		metrics.ProviderFetchesTotal.WithLabelValues("open_meteo_forecast", "error").Inc()
		return nil, fmt.Errorf("forecast fetch: %w", err)
	}

	forecast := make([]model.ForecastDay, 0, len(result.Daily.Time))
	for i, date := range result.Daily.Time {
		day := model.ForecastDay{Date: date}
		if i < len(result.Daily.WeatherCode) {
			day.WeatherCode = result.Daily.WeatherCode[i]
			day.Description = WeatherDescription(result.Daily.WeatherCode[i])
		}
		if i < len(result.Daily.TempMax) {
			day.TempMax = result.Daily.TempMax[i]
		}
		if i < len(result.Daily.TempMin) {
			day.TempMin = result.Daily.TempMin[i]
		}
		forecast = append(forecast, day)
	}

	metrics.ProviderFetchesTotal.WithLabelValues("open_meteo_forecast", "ok").Inc()
	return forecast, nil
}
