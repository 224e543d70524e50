package analytics

import (
	"sort"
	"time"

	"soundscope/internal/models"
)

// MonthActivity summarizes one calendar month of listening.
type MonthActivity struct {
	Month     time.Month
	Plays     int
	TopGenres []string
}

// SeasonSummary totals a three-month season. Seasons slice the year in
// quarters from January: Winter, Spring, Summer, Fall.
type SeasonSummary struct {
	Season    string
	Plays     int
	PeakMonth time.Month
}

// SeasonNames in calendar-quarter order.
var SeasonNames = []string{"Winter", "Spring", "Summer", "Fall"}

// SeasonalActivity buckets play events by calendar month and reports play
// counts with up to three most-seen genres per month. Genres come from the
// event's track artists, which the provider often omits on play history;
// absent genres simply leave TopGenres empty. Months without activity are
// omitted; results run January through December.
func SeasonalActivity(events []models.PlayEvent, loc *time.Location) []MonthActivity {
	if loc == nil {
		loc = time.Local
	}

	type monthStats struct {
		plays  int
		genres map[string]int
	}
	byMonth := make(map[time.Month]*monthStats)

	for _, event := range events {
		month := event.PlayedAt.In(loc).Month()
		stats := byMonth[month]
		if stats == nil {
			stats = &monthStats{genres: make(map[string]int)}
			byMonth[month] = stats
		}
		stats.plays++
		for _, artist := range event.Track.Artists {
			for _, genre := range artist.Genres {
				if genre != "" {
					stats.genres[genre]++
				}
			}
		}
	}

	var activity []MonthActivity
	for month := time.January; month <= time.December; month++ {
		stats, ok := byMonth[month]
		if !ok {
			continue
		}
		activity = append(activity, MonthActivity{
			Month:     month,
			Plays:     stats.plays,
			TopGenres: rankGenres(stats.genres, 3),
		})
	}
	return activity
}

// SummarizeSeasons folds monthly activity into four seasonal totals. Every
// season appears even with zero plays; PeakMonth is the season's busiest
// month, ties toward the earliest.
func SummarizeSeasons(activity []MonthActivity) []SeasonSummary {
	plays := make(map[time.Month]int)
	for _, month := range activity {
		plays[month.Month] = month.Plays
	}

	summaries := make([]SeasonSummary, len(SeasonNames))
	for i, name := range SeasonNames {
		first := time.Month(i*3 + 1)
		summary := SeasonSummary{Season: name, PeakMonth: first}
		for m := first; m < first+3; m++ {
			summary.Plays += plays[m]
			if plays[m] > plays[summary.PeakMonth] {
				summary.PeakMonth = m
			}
		}
		summaries[i] = summary
	}
	return summaries
}

// rankGenres orders genre names by count descending, ties broken
// alphabetically, capped at n.
func rankGenres(counts map[string]int, n int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
