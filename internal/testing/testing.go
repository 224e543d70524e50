// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"soundscope/internal/models"
)

// MockProvider is a configurable test double for [services.Provider].
// Zero-valued fields return empty results; set Err to fail every call, or
// the per-call error fields to fail selectively.
type MockProvider struct {
	ProfileResult  *models.UserProfile
	TracksByRange  map[models.TimeRange][]models.Track
	ArtistsByRange map[models.TimeRange][]models.Artist
	Events         []models.PlayEvent
	Features       []models.AudioFeatures
	Artists        map[string]*models.Artist
	ArtistTracks   map[string][]models.Track

	Err        error
	TracksErr  error
	ArtistsErr error
	EventsErr  error

	// Calls counts invocations by method name.
	Calls map[string]int
}

func (m *MockProvider) record(method string) {
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[method]++
}

func (m *MockProvider) Profile(ctx context.Context) (*models.UserProfile, error) {
	m.record("Profile")
	if m.Err != nil {
		return nil, m.Err
	}
	if m.ProfileResult == nil {
		return &models.UserProfile{ID: "mock-user"}, nil
	}
	return m.ProfileResult, nil
}

func (m *MockProvider) TopTracks(ctx context.Context, timeRange models.TimeRange, limit int) ([]models.Track, error) {
	m.record("TopTracks")
	if m.Err != nil {
		return nil, m.Err
	}
	if m.TracksErr != nil {
		return nil, m.TracksErr
	}
	return m.TracksByRange[timeRange], nil
}

func (m *MockProvider) TopArtists(ctx context.Context, timeRange models.TimeRange, limit int) ([]models.Artist, error) {
	m.record("TopArtists")
	if m.Err != nil {
		return nil, m.Err
	}
	if m.ArtistsErr != nil {
		return nil, m.ArtistsErr
	}
	return m.ArtistsByRange[timeRange], nil
}

func (m *MockProvider) RecentlyPlayed(ctx context.Context, limit int) ([]models.PlayEvent, error) {
	m.record("RecentlyPlayed")
	if m.Err != nil {
		return nil, m.Err
	}
	if m.EventsErr != nil {
		return nil, m.EventsErr
	}
	return m.Events, nil
}

func (m *MockProvider) AudioFeatures(ctx context.Context, trackIDs []string) ([]models.AudioFeatures, error) {
	m.record("AudioFeatures")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Features, nil
}

func (m *MockProvider) Artist(ctx context.Context, artistID string) (*models.Artist, error) {
	m.record("Artist")
	if m.Err != nil {
		return nil, m.Err
	}
	artist, ok := m.Artists[artistID]
	if !ok {
		return nil, errors.New("artist not found")
	}
	return artist, nil
}

func (m *MockProvider) ArtistTopTracks(ctx context.Context, artistID string) ([]models.Track, error) {
	m.record("ArtistTopTracks")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ArtistTracks[artistID], nil
}

func (m *MockProvider) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
