package analytics

import (
	"math/rand"
	"sort"

	"soundscope/internal/models"
)

// RepeatedTrack pairs a track with an estimated lifetime play count. The
// provider exposes no per-track play totals, so counts are simulated and
// flagged as such.
type RepeatedTrack struct {
	Track     models.Track
	PlayCount int
	Simulated bool
}

// SimulateRepetition assigns each top track a play count between 50 and 149
// and returns the list ordered by count descending. A nil rng pins every
// count at the lower bound.
func SimulateRepetition(tracks []models.Track, rng *rand.Rand) []RepeatedTrack {
	repeated := make([]RepeatedTrack, len(tracks))
	for i, track := range tracks {
		count := 50
		if rng != nil {
			count += rng.Intn(100)
		}
		repeated[i] = RepeatedTrack{Track: track, PlayCount: count, Simulated: true}
	}

	sort.SliceStable(repeated, func(i, j int) bool {
		return repeated[i].PlayCount > repeated[j].PlayCount
	})
	return repeated
}
