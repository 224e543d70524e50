package analytics

import (
	"fmt"
	"math/rand"
	"testing"

	"soundscope/internal/models"
)

func artistPool(n int) []models.Artist {
	pool := make([]models.Artist, n)
	for i := range pool {
		pool[i] = models.Artist{ID: fmt.Sprintf("a%d", i), Name: fmt.Sprintf("Artist %d", i)}
	}
	return pool
}

func TestMergeUnique(t *testing.T) {
	t.Run("Dedupes Across Groups", func(t *testing.T) {
		short := []models.Artist{{ID: "a1"}, {ID: "a2"}}
		medium := []models.Artist{{ID: "a2"}, {ID: "a3"}}
		long := []models.Artist{{ID: "a1"}, {ID: "a4"}}

		merged := MergeUnique(short, medium, long)

		want := []string{"a1", "a2", "a3", "a4"}
		if len(merged) != len(want) {
			t.Fatalf("expected %d artists, got %d", len(want), len(merged))
		}
		for i, id := range want {
			if merged[i].ID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, merged[i].ID)
			}
		}
	})

	t.Run("Keeps First Occurrence", func(t *testing.T) {
		first := []models.Artist{{ID: "a1", Name: "First"}}
		second := []models.Artist{{ID: "a1", Name: "Second"}}

		merged := MergeUnique(first, second)

		if len(merged) != 1 || merged[0].Name != "First" {
			t.Errorf("expected first occurrence kept, got %v", merged)
		}
	})

	t.Run("Empty Groups", func(t *testing.T) {
		if merged := MergeUnique(nil, nil); len(merged) != 0 {
			t.Errorf("expected empty merge, got %v", merged)
		}
	})
}

func TestBuildLineup(t *testing.T) {
	t.Run("Full Pool Tiers", func(t *testing.T) {
		lineup := BuildLineup(artistPool(30), rand.New(rand.NewSource(1)))

		if len(lineup.Headliners) != HeadlinerCount {
			t.Errorf("expected %d headliners, got %d", HeadlinerCount, len(lineup.Headliners))
		}
		if len(lineup.MainStage) != MainStageCount {
			t.Errorf("expected %d main stage acts, got %d", MainStageCount, len(lineup.MainStage))
		}
		if len(lineup.Undercard) != UndercardCount {
			t.Errorf("expected %d undercard acts, got %d", UndercardCount, len(lineup.Undercard))
		}
	})

	t.Run("No Artist Appears Twice", func(t *testing.T) {
		lineup := BuildLineup(artistPool(30), rand.New(rand.NewSource(7)))

		seen := make(map[string]bool)
		for _, tier := range [][]models.Artist{lineup.Headliners, lineup.MainStage, lineup.Undercard} {
			for _, artist := range tier {
				if seen[artist.ID] {
					t.Errorf("artist %s appears in multiple tiers", artist.ID)
				}
				seen[artist.ID] = true
			}
		}
	})

	t.Run("Small Pool Fills Top Down", func(t *testing.T) {
		lineup := BuildLineup(artistPool(5), nil)

		if len(lineup.Headliners) != 3 {
			t.Errorf("expected 3 headliners, got %d", len(lineup.Headliners))
		}
		if len(lineup.MainStage) != 2 {
			t.Errorf("expected 2 main stage acts, got %d", len(lineup.MainStage))
		}
		if len(lineup.Undercard) != 0 {
			t.Errorf("expected empty undercard, got %d", len(lineup.Undercard))
		}
	})

	t.Run("Seeded Shuffle Is Reproducible", func(t *testing.T) {
		pool := artistPool(25)

		first := BuildLineup(pool, rand.New(rand.NewSource(42)))
		second := BuildLineup(pool, rand.New(rand.NewSource(42)))

		for i := range first.Headliners {
			if first.Headliners[i].ID != second.Headliners[i].ID {
				t.Fatalf("headliner %d differs between identical seeds", i)
			}
		}
	})

	t.Run("Does Not Mutate Pool", func(t *testing.T) {
		pool := artistPool(10)

		BuildLineup(pool, rand.New(rand.NewSource(3)))

		for i, artist := range pool {
			if want := fmt.Sprintf("a%d", i); artist.ID != want {
				t.Fatalf("pool mutated at %d: expected %s, got %s", i, want, artist.ID)
			}
		}
	})
}
