package analytics

import (
	"math/rand"
	"time"

	"soundscope/internal/models"
)

// TimelineEntry records when a listener discovered an artist. Play history
// from the provider only covers the last fifty plays, so discovery dates are
// simulated and flagged as such.
type TimelineEntry struct {
	Artist        models.Artist
	FirstListened time.Time
	Simulated     bool
}

// SimulateTimeline assigns each artist a first-listened date within the past
// year, offset 0-11 months before now. Entries are returned in artist order
// and always marked Simulated.
func SimulateTimeline(artists []models.Artist, now time.Time, rng *rand.Rand) []TimelineEntry {
	entries := make([]TimelineEntry, len(artists))
	for i, artist := range artists {
		monthsAgo := 0
		if rng != nil {
			monthsAgo = rng.Intn(12)
		}
		entries[i] = TimelineEntry{
			Artist:        artist,
			FirstListened: now.AddDate(0, -monthsAgo, 0),
			Simulated:     true,
		}
	}
	return entries
}
