package tasks

import (
	"context"
	"fmt"
	"sync"

	"soundscope/internal/analytics"
	"soundscope/internal/models"
	"soundscope/internal/shared"
)

// gemBatchSize bounds concurrent artist detail lookups per rate-limiter slot.
const gemBatchSize = 5

// GemsReport lists the hidden gems among a listener's top tracks.
type GemsReport struct {
	Gems    []analytics.GemCandidate
	Scanned int // tracks examined, including those whose artist lookup failed
}

// HiddenGems surfaces top tracks by artists under the follower threshold.
//
// Top-track responses omit follower counts, so each track's primary artist
// is fetched separately. Lookups run in batches of five, one batch per
// rate-limiter slot; a failed lookup drops that track from consideration
// rather than failing the whole view.
func (e *Engine) HiddenGems(ctx context.Context, progress chan<- ProgressUpdate) (*GemsReport, error) {
	if err := e.checkProvider(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchTopTracksUpdate(1, 1))
	tracks, err := e.provider.TopTracks(ctx, models.MediumTerm, topLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch top tracks: %v", shared.ErrAPIRequest, err)
	}

	artistIDs := make([]string, 0, len(tracks))
	seen := make(map[string]bool)
	for _, track := range tracks {
		if id := track.PrimaryArtist().ID; id != "" && !seen[id] {
			seen[id] = true
			artistIDs = append(artistIDs, id)
		}
	}

	artists, err := e.fetchArtistBatches(ctx, progress, artistIDs)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, aggregateUpdate("hidden gems"))
	candidates := make([]analytics.GemCandidate, 0, len(tracks))
	for _, track := range tracks {
		artist, ok := artists[track.PrimaryArtist().ID]
		if !ok {
			continue
		}
		candidates = append(candidates, analytics.GemCandidate{
			Track:            track,
			ArtistFollowers:  artist.Followers.Total,
			ArtistPopularity: artist.Popularity,
		})
	}

	return &GemsReport{
		Gems:    analytics.FilterGems(candidates),
		Scanned: len(tracks),
	}, nil
}

// fetchArtistBatches looks up artist details in fixed-size batches, waiting
// on the rate limiter before each batch. Individual lookup failures are
// skipped; a cancelled context aborts the run.
func (e *Engine) fetchArtistBatches(ctx context.Context, progress chan<- ProgressUpdate, ids []string) (map[string]*models.Artist, error) {
	artists := make(map[string]*models.Artist, len(ids))
	if len(ids) == 0 {
		return artists, nil
	}

	var mu sync.Mutex
	totalBatches := (len(ids) + gemBatchSize - 1) / gemBatchSize

	for batch := 0; batch < totalBatches; batch++ {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: artist lookup cancelled: %v", shared.ErrAPIRequest, err)
		}

		e.sendProgress(progress, artistBatchUpdate(batch+1, totalBatches))

		lo := batch * gemBatchSize
		hi := lo + gemBatchSize
		if hi > len(ids) {
			hi = len(ids)
		}

		var wg sync.WaitGroup
		for _, id := range ids[lo:hi] {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				artist, err := e.provider.Artist(ctx, id)
				if err != nil {
					return
				}
				mu.Lock()
				artists[id] = artist
				mu.Unlock()
			}(id)
		}
		wg.Wait()

		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: artist lookup cancelled: %v", shared.ErrAPIRequest, ctx.Err())
		}
	}

	return artists, nil
}
