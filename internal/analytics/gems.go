package analytics

import (
	"sort"

	"soundscope/internal/models"
)

const (
	// GemFollowerThreshold is the follower count below which an artist counts
	// as "up and coming".
	GemFollowerThreshold = 500_000

	// MaxGems bounds the hidden-gems list.
	MaxGems = 5
)

// GemCandidate pairs a favorite track with its primary artist's details,
// fetched separately because top-track responses omit follower counts.
type GemCandidate struct {
	Track            models.Track
	ArtistFollowers  int
	ArtistPopularity int
}

// FilterGems keeps candidates whose primary artist sits below the follower
// threshold, sorted by track popularity descending, capped at MaxGems.
// A candidate at or above the threshold is never included.
func FilterGems(candidates []GemCandidate) []GemCandidate {
	gems := make([]GemCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ArtistFollowers < GemFollowerThreshold {
			gems = append(gems, c)
		}
	}

	sort.SliceStable(gems, func(i, j int) bool {
		return gems[i].Track.Popularity > gems[j].Track.Popularity
	})

	if len(gems) > MaxGems {
		gems = gems[:MaxGems]
	}
	return gems
}
