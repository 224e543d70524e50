// package services defines interface Provider for the music streaming API
// the analytics pipeline consumes
package services

import (
	"context"

	"soundscope/internal/models"
)

// TokenSource supplies the current bearer token for outgoing provider calls.
//
// Implementations return shared.ErrNoToken when no token is stored; a call
// made through the client then fails before any network request is issued.
type TokenSource interface {
	Get() (string, error)
}

// Provider defines the read-only surface of the music streaming API used by
// the analytics engine. All operations attach the current token from the
// TokenSource; none retry on failure.
type Provider interface {
	// Profile retrieves the authenticated user's profile.
	Profile(ctx context.Context) (*models.UserProfile, error)

	// TopTracks retrieves the user's top tracks for the given window.
	TopTracks(ctx context.Context, timeRange models.TimeRange, limit int) ([]models.Track, error)

	// TopArtists retrieves the user's top artists for the given window.
	TopArtists(ctx context.Context, timeRange models.TimeRange, limit int) ([]models.Artist, error)

	// RecentlyPlayed retrieves the listening history, newest first.
	// The provider caps a single page at 50 events.
	RecentlyPlayed(ctx context.Context, limit int) ([]models.PlayEvent, error)

	// AudioFeatures retrieves audio analysis for up to 100 tracks.
	// Tracks the provider has no analysis for are omitted from the result.
	AudioFeatures(ctx context.Context, trackIDs []string) ([]models.AudioFeatures, error)

	// Artist retrieves full artist details, including follower count.
	Artist(ctx context.Context, artistID string) (*models.Artist, error)

	// ArtistTopTracks retrieves an artist's most popular tracks.
	ArtistTopTracks(ctx context.Context, artistID string) ([]models.Track, error)

	// Name returns the name of the provider (e.g., "Spotify")
	Name() string
}
