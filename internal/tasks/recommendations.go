package tasks

import (
	"context"
	"fmt"

	"soundscope/internal/models"
	"soundscope/internal/shared"
)

// RecommendationsReport suggests tracks based on the all-time favorite
// artist. A zero-value Seed means the listener has no long-term history yet.
type RecommendationsReport struct {
	Seed   models.Artist
	Tracks []models.Track
}

// Recommendations takes the single long-term top artist as the seed and
// surfaces that artist's most popular tracks.
func (e *Engine) Recommendations(ctx context.Context, progress chan<- ProgressUpdate) (*RecommendationsReport, error) {
	if err := e.checkProvider(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchTopArtistsUpdate(1, 1))
	artists, err := e.provider.TopArtists(ctx, models.LongTerm, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch top artists: %v", shared.ErrAPIRequest, err)
	}
	if len(artists) == 0 {
		return &RecommendationsReport{}, nil
	}

	seed := artists[0]
	e.sendProgress(progress, artistBatchUpdate(1, 1))
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	tracks, err := e.provider.ArtistTopTracks(ctx, seed.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch artist top tracks: %v", shared.ErrAPIRequest, err)
	}

	e.sendProgress(progress, aggregateUpdate("recommendations"))
	return &RecommendationsReport{
		Seed:   seed,
		Tracks: tracks,
	}, nil
}
