package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"soundscope/internal/models"
	"soundscope/internal/shared"
	tu "soundscope/internal/testing"
)

func testEngine(provider *tu.MockProvider) *Engine {
	return NewEngine(provider, EngineOpts{
		RateLimit: 1000,
		Seed:      1,
		Location:  time.UTC,
		Now:       func() time.Time { return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC) },
	})
}

func eventAt(hour int) models.PlayEvent {
	return models.PlayEvent{
		Track:    models.Track{ID: "t1", Artists: []models.Artist{{ID: "a1", Name: "Alpha"}}},
		PlayedAt: time.Date(2025, time.March, 10, hour, 15, 0, 0, time.UTC),
	}
}

func TestListeningClock(t *testing.T) {
	t.Run("Builds Report", func(t *testing.T) {
		provider := &tu.MockProvider{
			Events: []models.PlayEvent{eventAt(21), eventAt(21), eventAt(9)},
		}

		report, err := testEngine(provider).ListeningClock(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.SampleSize != 3 {
			t.Errorf("expected sample size 3, got %d", report.SampleSize)
		}
		if report.PeakHour != 21 || report.PeakCount != 2 {
			t.Errorf("expected peak 21 x2, got %d x%d", report.PeakHour, report.PeakCount)
		}
		if report.ListenerType != "Evening Listener" {
			t.Errorf("expected Evening Listener, got %s", report.ListenerType)
		}
	})

	t.Run("Provider Failure", func(t *testing.T) {
		provider := &tu.MockProvider{EventsErr: errors.New("boom")}

		_, err := testEngine(provider).ListeningClock(context.Background(), nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Nil Provider", func(t *testing.T) {
		engine := NewEngine(nil, EngineOpts{})

		_, err := engine.ListeningClock(context.Background(), nil)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestGenres(t *testing.T) {
	provider := &tu.MockProvider{
		ArtistsByRange: map[models.TimeRange][]models.Artist{
			models.MediumTerm: {
				{ID: "a1", Genres: []string{"pop", "rock"}},
				{ID: "a2", Genres: []string{"pop"}},
			},
		},
	}

	report, err := testEngine(provider).Genres(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Ranked) != 2 || report.Ranked[0].Name != "Pop" || report.Ranked[0].Count != 2 {
		t.Errorf("unexpected ranking: %v", report.Ranked)
	}
	if report.Diversity != 2 {
		t.Errorf("expected diversity 2, got %d", report.Diversity)
	}
}

func TestHiddenGems(t *testing.T) {
	track := func(id, artistID string, popularity int) models.Track {
		return models.Track{
			ID:         id,
			Popularity: popularity,
			Artists:    []models.Artist{{ID: artistID}},
		}
	}

	t.Run("Filters By Followers", func(t *testing.T) {
		provider := &tu.MockProvider{
			TracksByRange: map[models.TimeRange][]models.Track{
				models.MediumTerm: {
					track("t1", "small", 60),
					track("t2", "big", 90),
				},
			},
			Artists: map[string]*models.Artist{
				"small": {ID: "small", Followers: models.Followers{Total: 10_000}},
				"big":   {ID: "big", Followers: models.Followers{Total: 9_000_000}},
			},
		}

		report, err := testEngine(provider).HiddenGems(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Scanned != 2 {
			t.Errorf("expected 2 tracks scanned, got %d", report.Scanned)
		}
		if len(report.Gems) != 1 || report.Gems[0].Track.ID != "t1" {
			t.Errorf("expected only t1, got %v", report.Gems)
		}
	})

	t.Run("Failed Lookup Drops Track", func(t *testing.T) {
		provider := &tu.MockProvider{
			TracksByRange: map[models.TimeRange][]models.Track{
				models.MediumTerm: {
					track("t1", "known", 60),
					track("t2", "unknown", 70),
				},
			},
			Artists: map[string]*models.Artist{
				"known": {ID: "known", Followers: models.Followers{Total: 500}},
			},
		}

		report, err := testEngine(provider).HiddenGems(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.Gems) != 1 || report.Gems[0].Track.ID != "t1" {
			t.Errorf("expected only t1, got %v", report.Gems)
		}
	})

	t.Run("Dedupes Artist Lookups", func(t *testing.T) {
		provider := &tu.MockProvider{
			TracksByRange: map[models.TimeRange][]models.Track{
				models.MediumTerm: {
					track("t1", "a1", 60),
					track("t2", "a1", 55),
					track("t3", "a1", 50),
				},
			},
			Artists: map[string]*models.Artist{
				"a1": {ID: "a1", Followers: models.Followers{Total: 500}},
			},
		}

		_, err := testEngine(provider).HiddenGems(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if provider.Calls["Artist"] != 1 {
			t.Errorf("expected 1 artist lookup, got %d", provider.Calls["Artist"])
		}
	})
}

func TestDemographics(t *testing.T) {
	t.Run("Matches Profile", func(t *testing.T) {
		provider := &tu.MockProvider{
			TracksByRange: map[models.TimeRange][]models.Track{
				models.MediumTerm: {
					{ID: "t1", Popularity: 85, Artists: []models.Artist{{ID: "a1"}}, Album: models.Album{ReleaseDate: "2021-01-01"}},
					{ID: "t2", Popularity: 80, Artists: []models.Artist{{ID: "a2"}}, Album: models.Album{ReleaseDate: "2022-01-01"}},
				},
			},
			ArtistsByRange: map[models.TimeRange][]models.Artist{
				models.MediumTerm: {
					{ID: "a1", Genres: []string{"pop", "hyperpop"}},
					{ID: "a2", Genres: []string{"rap"}},
				},
			},
		}

		report, err := testEngine(provider).Demographics(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Profile.Name == "" {
			t.Fatal("expected a matched profile")
		}
		if report.Score <= 0 || report.Score > 1 {
			t.Errorf("score %f outside (0, 1]", report.Score)
		}
	})

	t.Run("Empty Data Zero Report", func(t *testing.T) {
		report, err := testEngine(&tu.MockProvider{}).Demographics(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Profile.Name != "" {
			t.Errorf("expected no profile for empty data, got %s", report.Profile.Name)
		}
	})
}

func TestPersonality(t *testing.T) {
	provider := &tu.MockProvider{
		TracksByRange: map[models.TimeRange][]models.Track{
			models.MediumTerm: {
				{ID: "t1", Artists: []models.Artist{{ID: "a1"}}, Album: models.Album{ReleaseDate: "2022"}},
			},
		},
		ArtistsByRange: map[models.TimeRange][]models.Artist{
			models.MediumTerm: {
				{ID: "a1", Genres: []string{"pop"}, Popularity: 70},
			},
		},
		Events: []models.PlayEvent{eventAt(22)},
	}

	report, err := testEngine(provider).Personality(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Primary.Archetype.Name == "" {
		t.Error("expected a primary archetype")
	}
	if report.Primary.Archetype.Name == report.Secondary.Archetype.Name {
		t.Error("primary and secondary should differ")
	}
	if report.Traits.PeakHour != 22 {
		t.Errorf("expected peak hour 22, got %d", report.Traits.PeakHour)
	}
	if len(report.Insights) == 0 {
		t.Error("expected insight strings")
	}
}

func TestFestivalLineup(t *testing.T) {
	ranges := map[models.TimeRange][]models.Artist{
		models.ShortTerm:  {{ID: "a1"}, {ID: "a2"}},
		models.MediumTerm: {{ID: "a2"}, {ID: "a3"}},
		models.LongTerm:   {{ID: "a1"}, {ID: "a4"}},
	}

	t.Run("Merges Unique Pool", func(t *testing.T) {
		provider := &tu.MockProvider{ArtistsByRange: ranges}

		report, err := testEngine(provider).FestivalLineup(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.PoolSize != 4 {
			t.Errorf("expected pool of 4, got %d", report.PoolSize)
		}
	})

	t.Run("Same Seed Same Poster", func(t *testing.T) {
		first, err := testEngine(&tu.MockProvider{ArtistsByRange: ranges}).FestivalLineup(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := testEngine(&tu.MockProvider{ArtistsByRange: ranges}).FestivalLineup(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for i := range first.Lineup.Headliners {
			if first.Lineup.Headliners[i].ID != second.Lineup.Headliners[i].ID {
				t.Fatalf("headliner %d differs between identical seeds", i)
			}
		}
	})

	t.Run("Range Failure Propagates", func(t *testing.T) {
		provider := &tu.MockProvider{ArtistsErr: errors.New("boom")}

		_, err := testEngine(provider).FestivalLineup(context.Background(), nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestMood(t *testing.T) {
	t.Run("Averages Features", func(t *testing.T) {
		provider := &tu.MockProvider{
			TracksByRange: map[models.TimeRange][]models.Track{
				models.MediumTerm: {{ID: "t1"}, {ID: "t2"}},
			},
			Features: []models.AudioFeatures{
				{ID: "t1", Valence: 0.8, Energy: 0.8},
				{ID: "t2", Valence: 0.6, Energy: 0.6},
			},
		}

		report, err := testEngine(provider).Mood(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Profile.TrackCount != 2 {
			t.Errorf("expected 2 analyzed tracks, got %d", report.Profile.TrackCount)
		}
		if report.Profile.Label() != "Euphoric" {
			t.Errorf("expected Euphoric, got %s", report.Profile.Label())
		}
	})

	t.Run("No Tracks Skips Feature Fetch", func(t *testing.T) {
		provider := &tu.MockProvider{}

		report, err := testEngine(provider).Mood(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Profile.TrackCount != 0 {
			t.Errorf("expected empty profile, got %+v", report.Profile)
		}
		if provider.Calls["AudioFeatures"] != 0 {
			t.Errorf("expected no feature fetch, got %d", provider.Calls["AudioFeatures"])
		}
	})
}

func TestTimelineAndRepetition(t *testing.T) {
	provider := &tu.MockProvider{
		TracksByRange: map[models.TimeRange][]models.Track{
			models.MediumTerm: {{ID: "t1"}, {ID: "t2"}},
		},
		ArtistsByRange: map[models.TimeRange][]models.Artist{
			models.MediumTerm: {{ID: "a1"}, {ID: "a2"}},
		},
	}
	engine := testEngine(provider)

	t.Run("Timeline Entries Simulated", func(t *testing.T) {
		report, err := engine.Timeline(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.Entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(report.Entries))
		}
		for _, entry := range report.Entries {
			if !entry.Simulated {
				t.Errorf("entry for %s not marked simulated", entry.Artist.ID)
			}
		}
	})

	t.Run("Repetition Counts Simulated", func(t *testing.T) {
		report, err := engine.Repetition(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(report.Tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(report.Tracks))
		}
		for _, r := range report.Tracks {
			if !r.Simulated {
				t.Errorf("%s not marked simulated", r.Track.ID)
			}
		}
	})
}

func TestRecommendations(t *testing.T) {
	t.Run("Seeds From Long Term Favorite", func(t *testing.T) {
		provider := &tu.MockProvider{
			ArtistsByRange: map[models.TimeRange][]models.Artist{
				models.LongTerm: {{ID: "a1", Name: "Alpha"}, {ID: "a2", Name: "Beta"}},
			},
			ArtistTracks: map[string][]models.Track{
				"a1": {{ID: "t1", Name: "Hit One"}, {ID: "t2", Name: "Hit Two"}},
			},
		}

		report, err := testEngine(provider).Recommendations(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Seed.ID != "a1" {
			t.Errorf("expected seed artist a1, got %s", report.Seed.ID)
		}
		if len(report.Tracks) != 2 || report.Tracks[0].Name != "Hit One" {
			t.Errorf("unexpected tracks: %+v", report.Tracks)
		}
		if provider.Calls["ArtistTopTracks"] != 1 {
			t.Errorf("expected one top-tracks lookup, got %d", provider.Calls["ArtistTopTracks"])
		}
	})

	t.Run("No Long Term History", func(t *testing.T) {
		provider := &tu.MockProvider{}

		report, err := testEngine(provider).Recommendations(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Seed.ID != "" || len(report.Tracks) != 0 {
			t.Errorf("expected empty report, got %+v", report)
		}
		if provider.Calls["ArtistTopTracks"] != 0 {
			t.Error("no top-tracks lookup expected without a seed artist")
		}
	})

	t.Run("Provider Failure", func(t *testing.T) {
		provider := &tu.MockProvider{ArtistsErr: errors.New("boom")}

		_, err := testEngine(provider).Recommendations(context.Background(), nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestWithSeed(t *testing.T) {
	provider := &tu.MockProvider{
		TracksByRange: map[models.TimeRange][]models.Track{
			models.MediumTerm: {{ID: "t1"}, {ID: "t2"}, {ID: "t3"}},
		},
	}
	engine := testEngine(provider)

	first, err := engine.WithSeed(42).Repetition(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.WithSeed(42).Repetition(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first.Tracks {
		if first.Tracks[i].PlayCount != second.Tracks[i].PlayCount {
			t.Errorf("same seed produced different counts at %d: %d vs %d",
				i, first.Tracks[i].PlayCount, second.Tracks[i].PlayCount)
		}
	}

	seeded := engine.WithSeed(42)
	if seeded.provider != engine.provider || seeded.limiter != engine.limiter {
		t.Error("seeded engine must share the receiver's provider and limiter")
	}
	if seeded.rng == engine.rng {
		t.Error("seeded engine must draw from its own source")
	}
}

func TestRun(t *testing.T) {
	t.Run("Failed View Does Not Stop Others", func(t *testing.T) {
		provider := &tu.MockProvider{
			TracksByRange: map[models.TimeRange][]models.Track{
				models.MediumTerm: {{ID: "t1", Artists: []models.Artist{{ID: "a1"}}}},
			},
			ArtistsByRange: map[models.TimeRange][]models.Artist{
				models.MediumTerm: {{ID: "a1", Genres: []string{"pop"}}},
			},
			Artists:   map[string]*models.Artist{"a1": {ID: "a1", Followers: models.Followers{Total: 100}}},
			EventsErr: errors.New("history unavailable"),
		}

		report, err := testEngine(provider).Run(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		failed := make(map[string]bool)
		for _, viewErr := range report.Errors {
			failed[viewErr.View] = true
		}

		for _, view := range []string{"listening-clock", "seasonal", "personality"} {
			if !failed[view] {
				t.Errorf("expected %s to fail", view)
			}
		}
		if report.Genres == nil {
			t.Error("expected genres view to succeed")
		}
		if report.HiddenGems == nil {
			t.Error("expected hidden-gems view to succeed")
		}
		if report.Mood == nil {
			t.Error("expected mood view to succeed")
		}
		if report.Profile == nil {
			t.Error("expected profile fetch to succeed")
		}
	})

	t.Run("Emits Progress Without Blocking", func(t *testing.T) {
		provider := &tu.MockProvider{}
		progress := make(chan ProgressUpdate, 1)

		done := make(chan struct{})
		go func() {
			defer close(done)
			if _, err := testEngine(provider).Run(context.Background(), progress); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("run blocked on full progress channel")
		}
	})

	t.Run("Cancelled Context Stops Run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report, err := testEngine(&tu.MockProvider{}).Run(ctx, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if report == nil {
			t.Error("expected partial report on cancellation")
		}
	})
}
