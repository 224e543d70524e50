package analytics

import (
	"math"

	"soundscope/internal/models"
)

// UserMetrics are the five normalized listening metrics compared against
// reference demographic profiles.
type UserMetrics struct {
	AvgPopularity       float64 // mean track popularity, 0-100
	GenreDiversity      float64 // distinct genre count across top artists
	EraPreference       float64 // mean album release year
	MainstreamAlignment float64 // fraction of tracks with popularity > 75
	ArtistVariety       float64 // distinct primary artists across top tracks
}

// ReferenceProfile is a hardcoded demographic listening profile.
type ReferenceProfile struct {
	Name    string
	Metrics UserMetrics
}

// ReferenceProfiles lists the comparison cohorts. Order matters: similarity
// ties resolve toward the first listed profile.
var ReferenceProfiles = []ReferenceProfile{
	{Name: "Gen Z", Metrics: UserMetrics{
		AvgPopularity:       85,
		GenreDiversity:      8,
		EraPreference:       2020,
		MainstreamAlignment: 0.8,
		ArtistVariety:       35,
	}},
	{Name: "Millennials", Metrics: UserMetrics{
		AvgPopularity:       75,
		GenreDiversity:      12,
		EraPreference:       2010,
		MainstreamAlignment: 0.6,
		ArtistVariety:       45,
	}},
	{Name: "Gen X", Metrics: UserMetrics{
		AvgPopularity:       65,
		GenreDiversity:      10,
		EraPreference:       1995,
		MainstreamAlignment: 0.4,
		ArtistVariety:       40,
	}},
}

// similarity weights; era preference dominates.
const (
	weightPopularity = 0.2
	weightDiversity  = 0.2
	weightEra        = 0.3
	weightMainstream = 0.15
	weightVariety    = 0.15
)

// ComputeUserMetrics derives the five comparison metrics from the user's
// top tracks and artists. Returns ok=false when either collection is empty.
func ComputeUserMetrics(tracks []models.Track, artists []models.Artist) (UserMetrics, bool) {
	if len(tracks) == 0 || len(artists) == 0 {
		return UserMetrics{}, false
	}

	var popularitySum, yearSum float64
	var mainstream, datedTracks int
	primaryArtists := make(map[string]bool)

	for _, track := range tracks {
		popularitySum += float64(track.Popularity)
		if track.Popularity > 75 {
			mainstream++
		}
		if year := track.Album.ReleaseYear(); year > 0 {
			yearSum += float64(year)
			datedTracks++
		}
		if id := track.PrimaryArtist().ID; id != "" {
			primaryArtists[id] = true
		}
	}

	metrics := UserMetrics{
		AvgPopularity:       popularitySum / float64(len(tracks)),
		GenreDiversity:      float64(GenreDiversity(artists)),
		MainstreamAlignment: float64(mainstream) / float64(len(tracks)),
		ArtistVariety:       float64(len(primaryArtists)),
	}
	if datedTracks > 0 {
		metrics.EraPreference = yearSum / float64(datedTracks)
	}

	return metrics, true
}

// SimilarityScore compares user metrics against a reference profile via a
// weighted normalized-difference score. 1.0 is a perfect match; larger
// metric gaps subtract proportionally more.
func SimilarityScore(user, ref UserMetrics) float64 {
	score := 1.0
	score -= weightPopularity * normalizedDiff(user.AvgPopularity, ref.AvgPopularity)
	score -= weightDiversity * normalizedDiff(user.GenreDiversity, ref.GenreDiversity)
	score -= weightEra * normalizedDiff(user.EraPreference, ref.EraPreference)
	score -= weightMainstream * normalizedDiff(user.MainstreamAlignment, ref.MainstreamAlignment)
	score -= weightVariety * normalizedDiff(user.ArtistVariety, ref.ArtistVariety)
	return score
}

func normalizedDiff(user, ref float64) float64 {
	if ref == 0 {
		return 0
	}
	return math.Abs(user-ref) / ref
}

// ClosestProfile selects the reference profile maximizing the similarity
// score. Ties resolve toward the first listed profile, so the result is
// deterministic for identical metrics.
func ClosestProfile(user UserMetrics) (ReferenceProfile, float64) {
	best := ReferenceProfiles[0]
	bestScore := SimilarityScore(user, best.Metrics)

	for _, profile := range ReferenceProfiles[1:] {
		if score := SimilarityScore(user, profile.Metrics); score > bestScore {
			best, bestScore = profile, score
		}
	}

	return best, bestScore
}

// UniqueTraits describes where the user's metrics diverge notably from the
// matched reference profile.
func UniqueTraits(user, ref UserMetrics) []string {
	var traits []string

	if user.AvgPopularity > ref.AvgPopularity+10 {
		traits = append(traits, "You tend to discover trending music earlier than others")
	} else if user.AvgPopularity < ref.AvgPopularity-10 {
		traits = append(traits, "You have a strong appreciation for underground music")
	}

	if user.GenreDiversity > ref.GenreDiversity+2 {
		traits = append(traits, "Your taste in music is more diverse than average")
	}

	if math.Abs(user.EraPreference-ref.EraPreference) > 10 {
		if user.EraPreference > ref.EraPreference {
			traits = append(traits, "You're more drawn to contemporary music")
		} else {
			traits = append(traits, "You have a stronger connection to classic tracks")
		}
	}

	if user.ArtistVariety > ref.ArtistVariety+5 {
		traits = append(traits, "You explore more artists than typical listeners")
	}

	return traits
}
