package models

import (
	"strconv"
	"strings"
	"time"
)

// TimeRange selects the historical window for "top items" queries.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"
	MediumTerm TimeRange = "medium_term"
	LongTerm   TimeRange = "long_term"
)

// TimeRanges lists all windows in provider order (widest last is not
// guaranteed by the API; this is the order views iterate in).
var TimeRanges = []TimeRange{ShortTerm, MediumTerm, LongTerm}

// UserProfile represents the authenticated Spotify user.
type UserProfile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	Country     string  `json:"country"`
	Images      []Image `json:"images"`
}

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Followers wraps the provider's follower count object.
type Followers struct {
	Total int `json:"total"`
}

// Artist represents a Spotify artist.
type Artist struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Genres     []string  `json:"genres"`
	Followers  Followers `json:"followers"`
	Images     []Image   `json:"images"`
	Popularity int       `json:"popularity"`
}

// Album represents a Spotify album.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ReleaseDate string   `json:"release_date"`
	Images      []Image  `json:"images"`
	Artists     []Artist `json:"artists"`
}

// ReleaseYear parses the year from the album's release date, which the
// provider returns with day, month, or year precision. Returns 0 when absent.
func (a Album) ReleaseYear() int {
	date := a.ReleaseDate
	if idx := strings.IndexByte(date, '-'); idx > 0 {
		date = date[:idx]
	}
	year, err := strconv.Atoi(date)
	if err != nil {
		return 0
	}
	return year
}

// Track represents a Spotify track.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	Popularity int      `json:"popularity"`
	DurationMS int      `json:"duration_ms"`
}

// PrimaryArtist returns the first listed artist, or a zero Artist when the
// track carries none.
func (t Track) PrimaryArtist() Artist {
	if len(t.Artists) == 0 {
		return Artist{}
	}
	return t.Artists[0]
}

// PlayEvent represents one entry of the recently-played history.
// The provider returns these newest-first, capped at 50 per page.
type PlayEvent struct {
	Track    Track     `json:"track"`
	PlayedAt time.Time `json:"played_at"`
}

// AudioFeatures represents the provider's audio analysis summary for a track.
type AudioFeatures struct {
	ID           string  `json:"id"`
	Valence      float64 `json:"valence"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Acousticness float64 `json:"acousticness"`
	Tempo        float64 `json:"tempo"`
}
