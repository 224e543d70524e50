package analytics

import "soundscope/internal/models"

// RangeArtists pairs one time range with its top artists.
type RangeArtists struct {
	Range   models.TimeRange
	Artists []models.Artist
}

// Evolution lays the top artists of each time range side by side, in
// models.TimeRanges order, so the short-to-long drift of a listener's
// taste can be read across columns.
type Evolution struct {
	Ranges []RangeArtists
}

// RangeLabel names a time range for display.
func RangeLabel(r models.TimeRange) string {
	switch r {
	case models.ShortTerm:
		return "Last 4 Weeks"
	case models.MediumTerm:
		return "Last 6 Months"
	case models.LongTerm:
		return "All Time"
	default:
		return string(r)
	}
}

// BuildEvolution assembles the side-by-side view. Inputs map positionally
// onto models.TimeRanges; missing ranges stay as empty columns.
func BuildEvolution(short, medium, long []models.Artist) Evolution {
	return Evolution{Ranges: []RangeArtists{
		{Range: models.ShortTerm, Artists: short},
		{Range: models.MediumTerm, Artists: medium},
		{Range: models.LongTerm, Artists: long},
	}}
}

// Mainstays returns artists present in every range, in long-term order.
func (e Evolution) Mainstays() []models.Artist {
	if len(e.Ranges) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, column := range e.Ranges[:len(e.Ranges)-1] {
		seen := make(map[string]bool)
		for _, artist := range column.Artists {
			if !seen[artist.ID] {
				seen[artist.ID] = true
				counts[artist.ID]++
			}
		}
	}

	var mainstays []models.Artist
	for _, artist := range e.Ranges[len(e.Ranges)-1].Artists {
		if counts[artist.ID] == len(e.Ranges)-1 {
			mainstays = append(mainstays, artist)
		}
	}
	return mainstays
}

// Newcomers returns short-term artists absent from the long-term list,
// the acts a listener picked up recently.
func (e Evolution) Newcomers() []models.Artist {
	if len(e.Ranges) < 2 {
		return nil
	}

	established := make(map[string]bool)
	for _, artist := range e.Ranges[len(e.Ranges)-1].Artists {
		established[artist.ID] = true
	}

	var newcomers []models.Artist
	for _, artist := range e.Ranges[0].Artists {
		if !established[artist.ID] {
			newcomers = append(newcomers, artist)
		}
	}
	return newcomers
}
