package analytics

import (
	"fmt"
	"time"

	"soundscope/internal/models"
	"soundscope/internal/shared"
)

// Traits are the five listening traits feeding archetype classification.
// GenreVariety, ArtistLoyalty, and TrendAlignment are normalized to 0-1.
type Traits struct {
	GenreVariety   float64 // distinct genres per top artist
	ArtistLoyalty  float64 // largest single-artist share of top tracks
	TrendAlignment float64 // mean top-artist popularity / 100
	PeakHour       int     // busiest listening hour from recent history
	Era            string  // Contemporary, Modern, or Classic
}

// Archetype is one named listening personality.
type Archetype struct {
	Name        string
	Description string
	Qualities   []string
}

// Archetypes lists the personalities in scoring order. Score ties resolve
// toward the earlier entry, keeping classification deterministic.
var Archetypes = []Archetype{
	{
		Name:        "The Sonic Explorer",
		Description: "A musical adventurer constantly seeking new sounds and genres",
		Qualities:   []string{"Diverse playlists", "High artist variety", "Genre-fluid"},
	},
	{
		Name:        "The Genre Specialist",
		Description: "Deep expertise and appreciation for specific genres",
		Qualities:   []string{"Genre loyal", "Artist encyclopedic knowledge", "Niche appreciation"},
	},
	{
		Name:        "The Mood Maestro",
		Description: "Expert at matching music to emotions and moments",
		Qualities:   []string{"Emotional connection", "Context-aware", "Playlist curator"},
	},
	{
		Name:        "The Trend Surfer",
		Description: "Always in tune with the latest hits and emerging artists",
		Qualities:   []string{"Early adopter", "High playlist turnover", "Social listener"},
	},
	{
		Name:        "The Classic Connoisseur",
		Description: "Appreciates timeless music with deep artist loyalty",
		Qualities:   []string{"Long-term listener", "Complete albums", "Artist loyal"},
	},
}

// ArchetypeScore pairs an archetype with its weighted trait score.
type ArchetypeScore struct {
	Archetype Archetype
	Score     float64
}

// ComputeTraits derives the five traits from top tracks, top artists, and
// recent listening history. Empty inputs produce zero traits, not errors.
func ComputeTraits(topTracks []models.Track, topArtists []models.Artist, recent []models.PlayEvent, loc *time.Location) Traits {
	var t Traits

	if len(topArtists) > 0 {
		t.GenreVariety = float64(GenreDiversity(topArtists)) / float64(len(topArtists))

		popularitySum := 0
		for _, artist := range topArtists {
			popularitySum += artist.Popularity
		}
		t.TrendAlignment = float64(popularitySum) / float64(len(topArtists)) / 100
	}

	if len(topTracks) > 0 {
		counts := make(map[string]int)
		maxCount := 0
		for _, track := range topTracks {
			id := track.PrimaryArtist().ID
			counts[id]++
			if counts[id] > maxCount {
				maxCount = counts[id]
			}
		}
		t.ArtistLoyalty = float64(maxCount) / float64(len(topTracks))

		t.Era = classifyEra(topTracks)
	}

	histogram := BuildHourlyHistogram(recent, loc)
	t.PeakHour, _ = histogram.PeakHour()

	return t
}

// classifyEra buckets the mean album release year of the given tracks.
func classifyEra(tracks []models.Track) string {
	yearSum, dated := 0, 0
	for _, track := range tracks {
		if year := track.Album.ReleaseYear(); year > 0 {
			yearSum += year
			dated++
		}
	}
	if dated == 0 {
		return "Classic"
	}

	switch avg := float64(yearSum) / float64(dated); {
	case avg >= 2020:
		return "Contemporary"
	case avg >= 2010:
		return "Modern"
	default:
		return "Classic"
	}
}

// ScoreArchetypes scores every archetype via its fixed linear combination of
// traits, returned in Archetypes order.
func ScoreArchetypes(t Traits) []ArchetypeScore {
	weights := []float64{
		t.GenreVariety*0.8 + (1-t.ArtistLoyalty)*0.2,
		(1-t.GenreVariety)*0.7 + t.ArtistLoyalty*0.3,
		t.GenreVariety*0.4 + t.TrendAlignment*0.6,
		t.TrendAlignment*0.8 + (1-t.ArtistLoyalty)*0.2,
		t.ArtistLoyalty*0.7 + (1-t.TrendAlignment)*0.3,
	}

	scores := make([]ArchetypeScore, len(Archetypes))
	for i, archetype := range Archetypes {
		scores[i] = ArchetypeScore{Archetype: archetype, Score: weights[i]}
	}
	return scores
}

// ClassifyPersonality returns the primary and secondary archetypes: the two
// highest scores, ties broken by archetype list order.
func ClassifyPersonality(t Traits) (ArchetypeScore, ArchetypeScore) {
	scores := ScoreArchetypes(t)

	primary, secondary := 0, -1
	for i := 1; i < len(scores); i++ {
		switch {
		case scores[i].Score > scores[primary].Score:
			secondary = primary
			primary = i
		case secondary == -1 || scores[i].Score > scores[secondary].Score:
			secondary = i
		}
	}

	return scores[primary], scores[secondary]
}

// Insights renders human-readable observations from the computed traits.
func Insights(t Traits) []string {
	var insights []string

	if t.GenreVariety > 0.7 {
		insights = append(insights, "You have an exceptionally diverse taste in music")
	}
	if t.ArtistLoyalty > 0.6 {
		insights = append(insights, "You form strong connections with your favorite artists")
	}
	if t.TrendAlignment > 0.8 {
		insights = append(insights, "You're always on top of the latest music trends")
	}

	insights = append(insights, fmt.Sprintf("Peak listening time: %s", shared.FormatHour(t.PeakHour)))
	if t.Era != "" {
		insights = append(insights, fmt.Sprintf("You gravitate towards %s music", t.Era))
	}

	return insights
}
