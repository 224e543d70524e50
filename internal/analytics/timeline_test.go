package analytics

import (
	"math/rand"
	"testing"
	"time"

	"soundscope/internal/models"
)

func TestSimulateTimeline(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	t.Run("Flags Entries As Simulated", func(t *testing.T) {
		entries := SimulateTimeline(artistPool(5), now, rand.New(rand.NewSource(1)))

		if len(entries) != 5 {
			t.Fatalf("expected 5 entries, got %d", len(entries))
		}
		for _, entry := range entries {
			if !entry.Simulated {
				t.Errorf("entry for %s not marked simulated", entry.Artist.ID)
			}
		}
	})

	t.Run("Dates Within Past Year", func(t *testing.T) {
		entries := SimulateTimeline(artistPool(20), now, rand.New(rand.NewSource(9)))

		earliest := now.AddDate(0, -11, 0)
		for _, entry := range entries {
			if entry.FirstListened.After(now) {
				t.Errorf("%s first listened in the future: %s", entry.Artist.ID, entry.FirstListened)
			}
			if entry.FirstListened.Before(earliest) {
				t.Errorf("%s first listened too far back: %s", entry.Artist.ID, entry.FirstListened)
			}
		}
	})

	t.Run("Nil Source Pins To Now", func(t *testing.T) {
		entries := SimulateTimeline(artistPool(3), now, nil)

		for _, entry := range entries {
			if !entry.FirstListened.Equal(now) {
				t.Errorf("expected %s pinned to now, got %s", entry.Artist.ID, entry.FirstListened)
			}
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		if entries := SimulateTimeline(nil, now, nil); len(entries) != 0 {
			t.Errorf("expected no entries, got %d", len(entries))
		}
	})
}

func TestSimulateRepetition(t *testing.T) {
	tracks := []models.Track{
		{ID: "t1", Name: "One"},
		{ID: "t2", Name: "Two"},
		{ID: "t3", Name: "Three"},
	}

	t.Run("Counts Within Range", func(t *testing.T) {
		repeated := SimulateRepetition(tracks, rand.New(rand.NewSource(4)))

		for _, r := range repeated {
			if r.PlayCount < 50 || r.PlayCount > 149 {
				t.Errorf("%s play count %d outside [50, 149]", r.Track.ID, r.PlayCount)
			}
			if !r.Simulated {
				t.Errorf("%s not marked simulated", r.Track.ID)
			}
		}
	})

	t.Run("Sorted Descending", func(t *testing.T) {
		repeated := SimulateRepetition(tracks, rand.New(rand.NewSource(11)))

		for i := 1; i < len(repeated); i++ {
			if repeated[i].PlayCount > repeated[i-1].PlayCount {
				t.Errorf("counts out of order at %d: %d after %d", i, repeated[i].PlayCount, repeated[i-1].PlayCount)
			}
		}
	})

	t.Run("Nil Source Pins Lower Bound", func(t *testing.T) {
		repeated := SimulateRepetition(tracks, nil)

		for _, r := range repeated {
			if r.PlayCount != 50 {
				t.Errorf("expected play count 50, got %d", r.PlayCount)
			}
		}
	})
}
