package analytics

import "soundscope/internal/models"

// MoodProfile averages audio features across a set of tracks.
type MoodProfile struct {
	Valence      float64
	Energy       float64
	Danceability float64
	Acousticness float64
	Tempo        float64
	TrackCount   int
}

// BuildMoodProfile averages the given audio features. An empty input yields
// a zero profile with TrackCount 0.
func BuildMoodProfile(features []models.AudioFeatures) MoodProfile {
	var p MoodProfile
	if len(features) == 0 {
		return p
	}

	for _, f := range features {
		p.Valence += f.Valence
		p.Energy += f.Energy
		p.Danceability += f.Danceability
		p.Acousticness += f.Acousticness
		p.Tempo += f.Tempo
	}

	n := float64(len(features))
	p.Valence /= n
	p.Energy /= n
	p.Danceability /= n
	p.Acousticness /= n
	p.Tempo /= n
	p.TrackCount = len(features)
	return p
}

// Label names the dominant mood of the profile.
func (p MoodProfile) Label() string {
	switch {
	case p.TrackCount == 0:
		return "Unknown"
	case p.Valence >= 0.6 && p.Energy >= 0.6:
		return "Euphoric"
	case p.Valence >= 0.6:
		return "Content"
	case p.Energy >= 0.6:
		return "Intense"
	case p.Acousticness >= 0.6:
		return "Mellow"
	default:
		return "Reflective"
	}
}
