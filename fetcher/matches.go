package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"dashboard-service/metrics"
	"dashboard-service/model"
)

// leagueMeta carries the display name and country for a competition code,
// since the per-match payload does not include them.
type leagueMeta struct {
	Name    string
	Country string
}

var leagues = map[string]leagueMeta{
	"CL":  {Name: "UEFA Champions League", Country: "Europe"},
	"PL":  {Name: "Premier League", Country: "England"},
	"PD":  {Name: "La Liga", Country: "Spain"},
	"BL1": {Name: "Bundesliga", Country: "Germany"},
	"SA":  {Name: "Serie A", Country: "Italy"},
	"FL1": {Name: "Ligue 1", Country: "France"},
}

type footballDataResponse struct {
	Matches []struct {
		ID       int64     `json:"id"`
		UTCDate  time.Time `json:"utcDate"`
		Status   string    `json:"status"`
		HomeTeam struct {
			Name  string `json:"name"`
			Crest string `json:"crest"`
		} `json:"homeTeam"`
		AwayTeam struct {
			Name  string `json:"name"`
			Crest string `json:"crest"`
		} `json:"awayTeam"`
		Score struct {
			FullTime struct {
				Home *int `json:"home"`
				Away *int `json:"away"`
			} `json:"fullTime"`
		} `json:"score"`
	} `json:"matches"`
}

// FetchMatches pulls fixtures and results per configured league inside the
// date window, serializing league calls with a fixed delay to stay under the
// upstream's per-minute quota. Without a credential it returns a fixed set of
// placeholder fixtures so the display stays non-empty.
func (f *Fetcher) FetchMatches(ctx context.Context) ([]model.MatchRecord, error) {
	if f.config.FootballAPIKey == "" {
		log.Println("Skipping matches fetch: no API key configured, serving placeholder fixtures")
		return placeholderMatches(), nil
	}

	now := time.Now()
	window := time.Duration(f.config.MatchWindowDays) * 24 * time.Hour
	dateFrom := now.Add(-window).Format("2006-01-02")
	dateTo := now.Add(window).Format("2006-01-02")

	var all []model.MatchRecord
	for i, code := range f.config.MatchLeagues {
		if i > 0 {
			// Fixed spacing between league calls, quota is per minute.
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			case <-time.After(f.config.MatchFetchDelay):
			}
		}

		matches, err := f.fetchLeagueMatches(ctx, code, dateFrom, dateTo)
		if err != nil {
			log.Printf("Failed to fetch matches for league %s: %v", code, err)
			metrics.ProviderFetchesTotal.WithLabelValues("football_data", "error").Inc()
			continue
		}
		metrics.ProviderFetchesTotal.WithLabelValues("football_data", "ok").Inc()
		all = append(all, matches...)
	}

	sortMatches(all)
	metrics.ProviderRecordsFetched.WithLabelValues("football_data").Add(float64(len(all)))
	return all, nil
}

func (f *Fetcher) fetchLeagueMatches(ctx context.Context, code, dateFrom, dateTo string) ([]model.MatchRecord, error) {
	endpoint := fmt.Sprintf("%s/competitions/%s/matches?dateFrom=%s&dateTo=%s",
		f.config.FootballAPIURL, code, dateFrom, dateTo)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Auth-Token", f.config.FootballAPIKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var result footballDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	meta := leagues[code]
	if meta.Name == "" {
		meta.Name = code
	}

	now := time.Now()
	matches := make([]model.MatchRecord, 0, len(result.Matches))
	for _, m := range result.Matches {
		matches = append(matches, model.MatchRecord{
			ExternalMatchID: strconv.FormatInt(m.ID, 10),
			HomeTeam:        m.HomeTeam.Name,
			AwayTeam:        m.AwayTeam.Name,
			HomeScore:       m.Score.FullTime.Home,
			AwayScore:       m.Score.FullTime.Away,
			League:          meta.Name,
			LeagueCountry:   meta.Country,
			MatchDate:       m.UTCDate,
			Status:          normalizeStatus(m.Status),
			HomeTeamLogo:    m.HomeTeam.Crest,
			AwayTeamLogo:    m.AwayTeam.Crest,
			FetchedAt:       now,
		})
	}

	sortMatches(matches)
	if len(matches) > f.config.MatchesPerLeague {
		matches = matches[:f.config.MatchesPerLeague]
	}
	return matches, nil
}

// normalizeStatus folds the provider's status vocabulary into the three
// dashboard states. Unrecognized statuses (POSTPONED, CANCELLED, ...) read
// as scheduled.
func normalizeStatus(status string) string {
	switch status {
	case "SCHEDULED", "TIMED":
		return model.StatusScheduled
	case "IN_PLAY", "PAUSED", "LIVE":
		return model.StatusLive
	case "FINISHED":
		return model.StatusFinished
	default:
		return model.StatusScheduled
	}
}

// sortMatches orders by status priority (scheduled, live, finished) and then
// by kickoff time ascending.
func sortMatches(matches []model.MatchRecord) {
	sort.SliceStable(matches, func(i, j int) bool {
		pi, pj := model.StatusPriority(matches[i].Status), model.StatusPriority(matches[j].Status)
		if pi != pj {
			return pi < pj
		}
		return matches[i].MatchDate.Before(matches[j].MatchDate)
	})
}

// placeholderMatches keeps the matches panel populated when no football-data
// credential is configured.
func placeholderMatches() []model.MatchRecord {
	now := time.Now()
	return []model.MatchRecord{
		{
			ExternalMatchID: "placeholder-1",
			HomeTeam:        "FC Zurich",
			AwayTeam:        "Young Boys",
			League:          "Super League",
			LeagueCountry:   "Switzerland",
			MatchDate:       now.Add(24 * time.Hour),
			Status:          model.StatusScheduled,
			FetchedAt:       now,
		},
		{
			ExternalMatchID: "placeholder-2",
			HomeTeam:        "Real Madrid",
			AwayTeam:        "FC Barcelona",
			League:          "La Liga",
			LeagueCountry:   "Spain",
			MatchDate:       now.Add(48 * time.Hour),
			Status:          model.StatusScheduled,
			FetchedAt:       now,
		},
		{
			ExternalMatchID: "placeholder-3",
			HomeTeam:        "Manchester City",
			AwayTeam:        "Liverpool",
			League:          "Premier League",
			LeagueCountry:   "England",
			MatchDate:       now.Add(72 * time.Hour),
			Status:          model.StatusScheduled,
			FetchedAt:       now,
		},
	}
}
