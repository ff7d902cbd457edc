package fetcher

import "strings"

// keywordFilter is a two-stage content filter held as data: a candidate is
// dropped if it matches any exclusion term, and kept only if it also matches
// at least one inclusion term. It is a heuristic - false positives and
// negatives are accepted.
type keywordFilter struct {
	exclude []string
	include []string
}

// Match reports whether the combined text passes both stages.
func (f keywordFilter) Match(parts ...string) bool {
	text := strings.ToLower(strings.Join(parts, " "))

	for _, term := range f.exclude {
		if strings.Contains(text, term) {
			return false
		}
	}
	for _, term := range f.include {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// footballFilter keeps association-football coverage and drops American
// football and other sports that the broad search query drags in.
var footballFilter = keywordFilter{
	exclude: []string{
		"nfl",
		"american football",
		"college football",
		"super bowl",
		"touchdown",
		"quarterback",
		"nba",
		"baseball",
		"mlb",
		"nhl",
		"hockey",
		"cricket",
		"rugby",
		"golf",
		"tennis",
	},
	include: []string{
		"soccer",
		"fifa",
		"uefa",
		"premier league",
		"la liga",
		"serie a",
		"bundesliga",
		"ligue 1",
		"champions league",
		"europa league",
		"world cup",
		"transfer",
		"goalkeeper",
		"midfielder",
		"striker",
	},
}
