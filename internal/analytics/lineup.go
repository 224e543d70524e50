package analytics

import (
	"math/rand"

	"soundscope/internal/models"
)

// Lineup sizes by tier.
const (
	HeadlinerCount  = 3
	MainStageCount  = 6
	UndercardCount  = 12
	LineupArtistCap = HeadlinerCount + MainStageCount + UndercardCount
)

// Lineup is a festival poster cut from a listener's top artists.
type Lineup struct {
	Headliners []models.Artist
	MainStage  []models.Artist
	Undercard  []models.Artist
}

// MergeUnique flattens the given artist slices, keeping the first occurrence
// of each artist id.
func MergeUnique(groups ...[]models.Artist) []models.Artist {
	seen := make(map[string]bool)
	var merged []models.Artist
	for _, group := range groups {
		for _, artist := range group {
			if seen[artist.ID] {
				continue
			}
			seen[artist.ID] = true
			merged = append(merged, artist)
		}
	}
	return merged
}

// BuildLineup shuffles the merged pool with the provided source and slices
// it into tiers. A nil rng leaves the pool in its merged order so callers
// can build reproducible posters.
func BuildLineup(pool []models.Artist, rng *rand.Rand) Lineup {
	shuffled := make([]models.Artist, len(pool))
	copy(shuffled, pool)
	if rng != nil {
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	}

	if len(shuffled) > LineupArtistCap {
		shuffled = shuffled[:LineupArtistCap]
	}

	var lineup Lineup
	lineup.Headliners = tier(shuffled, 0, HeadlinerCount)
	lineup.MainStage = tier(shuffled, HeadlinerCount, HeadlinerCount+MainStageCount)
	lineup.Undercard = tier(shuffled, HeadlinerCount+MainStageCount, LineupArtistCap)
	return lineup
}

func tier(artists []models.Artist, lo, hi int) []models.Artist {
	if lo >= len(artists) {
		return nil
	}
	if hi > len(artists) {
		hi = len(artists)
	}
	return artists[lo:hi]
}
