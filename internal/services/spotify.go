// Spotify implementation of [Provider]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"soundscope/internal/models"
	"soundscope/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// APIError is a non-2xx response from the provider. It covers expired or
// invalid tokens, rate limiting, and not-found alike; callers surface it
// without retrying.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify API error: status %d: %s", e.StatusCode, e.Message)
}

// SpotifyService implements the Provider interface against the Spotify Web API.
//
// Every call reads the current token from the [TokenSource] and attaches it
// as a bearer credential. No response is cached; each view re-fetches.
type SpotifyService struct {
	config     *oauth2.Config
	tokens     TokenSource
	httpClient *http.Client
	baseURL    string
}

var _ Provider = (*SpotifyService)(nil)

// NewSpotifyService creates a new Spotify service with the given OAuth2
// credentials and token source.
func NewSpotifyService(cfg shared.SpotifyConfig, tokens TokenSource) (*SpotifyService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = "http://127.0.0.1:5000/api/spotify/callback"
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		tokens:     tokens,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// ClientID returns the configured OAuth client identifier.
func (s *SpotifyService) ClientID() string {
	return s.config.ClientID
}

// RedirectURI returns the configured OAuth callback URI.
func (s *SpotifyService) RedirectURI() string {
	return s.config.RedirectURL
}

// Exchange performs the confidential code-for-token exchange. This is the
// only step of the handshake that requires the client secret.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (string, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: token exchange: %v", shared.ErrAuthFailed, err)
	}
	return token.AccessToken, nil
}

// doRequest performs an authenticated GET against the Spotify API.
//
// Fails with shared.ErrNoToken before any network traffic when the token
// source is empty. Non-2xx responses become *APIError.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	token, err := s.tokens.Get()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Profile retrieves the current authenticated user's profile.
func (s *SpotifyService) Profile(ctx context.Context) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := s.doRequest(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// TopTracks retrieves the user's top tracks for the given time range.
func (s *SpotifyService) TopTracks(ctx context.Context, timeRange models.TimeRange, limit int) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/me/top/tracks?time_range=%s&limit=%d", timeRange, clampLimit(limit))

	var response struct {
		Items []models.Track `json:"items"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.Items, nil
}

// TopArtists retrieves the user's top artists for the given time range.
func (s *SpotifyService) TopArtists(ctx context.Context, timeRange models.TimeRange, limit int) ([]models.Artist, error) {
	endpoint := fmt.Sprintf("/me/top/artists?time_range=%s&limit=%d", timeRange, clampLimit(limit))

	var response struct {
		Items []models.Artist `json:"items"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.Items, nil
}

// RecentlyPlayed retrieves the user's listening history, newest first.
func (s *SpotifyService) RecentlyPlayed(ctx context.Context, limit int) ([]models.PlayEvent, error) {
	endpoint := fmt.Sprintf("/me/player/recently-played?limit=%d", clampLimit(limit))

	var response struct {
		Items []models.PlayEvent `json:"items"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.Items, nil
}

// AudioFeatures retrieves audio analysis for multiple tracks (up to 100).
//
// The provider returns null entries for tracks it has not analyzed; those
// are dropped rather than surfaced as zero values.
func (s *SpotifyService) AudioFeatures(ctx context.Context, trackIDs []string) ([]models.AudioFeatures, error) {
	if len(trackIDs) == 0 {
		return nil, fmt.Errorf("%w: no track IDs provided", shared.ErrInvalidArgument)
	}
	if len(trackIDs) > 100 {
		return nil, fmt.Errorf("%w: maximum 100 track IDs allowed", shared.ErrInvalidArgument)
	}

	ids := strings.Join(trackIDs, ",")
	endpoint := fmt.Sprintf("/audio-features?ids=%s", url.QueryEscape(ids))

	var response struct {
		AudioFeatures []*models.AudioFeatures `json:"audio_features"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	features := make([]models.AudioFeatures, 0, len(response.AudioFeatures))
	for _, f := range response.AudioFeatures {
		if f != nil {
			features = append(features, *f)
		}
	}

	return features, nil
}

// Artist retrieves a single artist by ID, including follower count.
func (s *SpotifyService) Artist(ctx context.Context, artistID string) (*models.Artist, error) {
	if artistID == "" {
		return nil, fmt.Errorf("%w: artist ID is required", shared.ErrInvalidArgument)
	}

	var artist models.Artist
	endpoint := fmt.Sprintf("/artists/%s", url.PathEscape(artistID))
	if err := s.doRequest(ctx, endpoint, &artist); err != nil {
		return nil, err
	}

	return &artist, nil
}

// ArtistTopTracks retrieves an artist's most popular tracks.
func (s *SpotifyService) ArtistTopTracks(ctx context.Context, artistID string) ([]models.Track, error) {
	if artistID == "" {
		return nil, fmt.Errorf("%w: artist ID is required", shared.ErrInvalidArgument)
	}

	var response struct {
		Tracks []models.Track `json:"tracks"`
	}
	endpoint := fmt.Sprintf("/artists/%s/top-tracks?market=from_token", url.PathEscape(artistID))
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.Tracks, nil
}

// clampLimit bounds a page size to the provider's 1-50 window, defaulting to 20.
func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 50 {
		return 50
	}
	return limit
}
