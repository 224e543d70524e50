package analytics

import (
	"sort"

	"soundscope/internal/models"
	"soundscope/internal/shared"
)

// DefaultGenreCap bounds the ranked genre list for display.
const DefaultGenreCap = 6

// GenreCount is one entry of the ranked genre breakdown.
type GenreCount struct {
	Name  string
	Count int
}

// GenreFrequency flattens all genres across the given artists, counts
// occurrences, and returns the top entries sorted by count descending.
// Labels are title-cased for display; ties break alphabetically so the
// ranking is deterministic. An empty input yields an empty list.
func GenreFrequency(artists []models.Artist, cap int) []GenreCount {
	if cap <= 0 {
		cap = DefaultGenreCap
	}

	counts := make(map[string]int)
	for _, artist := range artists {
		for _, genre := range artist.Genres {
			if genre != "" {
				counts[genre]++
			}
		}
	}

	ranked := make([]GenreCount, 0, len(counts))
	for genre, count := range counts {
		ranked = append(ranked, GenreCount{Name: shared.TitleCase(genre), Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > cap {
		ranked = ranked[:cap]
	}
	return ranked
}

// GenreDiversity returns the number of distinct genres across the artists.
func GenreDiversity(artists []models.Artist) int {
	seen := make(map[string]bool)
	for _, artist := range artists {
		for _, genre := range artist.Genres {
			if genre != "" {
				seen[genre] = true
			}
		}
	}
	return len(seen)
}
