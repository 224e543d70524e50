package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running analysis.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchProfile Phase = iota
	FetchTopTracks
	FetchTopArtists
	FetchHistory
	FetchFeatures
	FetchArtistDetails
	Aggregate
)

func (p Phase) String() string {
	switch p {
	case FetchProfile:
		return "fetch_profile"
	case FetchTopTracks:
		return "fetch_top_tracks"
	case FetchTopArtists:
		return "fetch_top_artists"
	case FetchHistory:
		return "fetch_history"
	case FetchFeatures:
		return "fetch_features"
	case FetchArtistDetails:
		return "fetch_artist_details"
	case Aggregate:
		return "aggregate"
	default:
		return ""
	}
}

func fetchTopTracksUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTopTracks,
		Step:    step,
		Total:   total,
		Message: "Fetching top tracks...",
	}
}

func fetchTopArtistsUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTopArtists,
		Step:    step,
		Total:   total,
		Message: "Fetching top artists...",
	}
}

func fetchHistoryUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchHistory,
		Step:    step,
		Total:   total,
		Message: "Fetching listening history...",
	}
}

func fetchFeaturesUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeatures,
		Step:    step,
		Total:   total,
		Message: "Fetching audio features...",
	}
}

func artistBatchUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchArtistDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Looking up artist details...", step, total),
	}
}

func aggregateUpdate(view string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Aggregate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Computing %s...", view),
	}
}

func viewUpdate(view string, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Aggregate,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, view),
	}
}
