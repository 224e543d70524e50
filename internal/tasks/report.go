package tasks

import (
	"context"
	"time"

	"soundscope/internal/models"
	"soundscope/internal/shared"
)

// ViewError records a view that failed during a full-report run.
type ViewError struct {
	View string
	Err  error
}

// FullReport aggregates every dashboard view. A nil section means that view
// failed; Errors lists the failures.
type FullReport struct {
	ID             string
	GeneratedAt    time.Time
	Profile        *models.UserProfile
	ListeningClock *ListeningClockReport
	Genres         *GenreReport
	HiddenGems     *GemsReport
	Demographics   *DemographicsReport
	Personality    *PersonalityReport
	Lineup         *LineupReport
	Timeline       *TimelineReport
	Seasonal       *SeasonalReport
	Mood           *MoodReport
	Evolution      *EvolutionReport
	Repetition     *RepetitionReport
	Recommended    *RecommendationsReport
	Errors         []ViewError
}

// ViewNames lists the report views in run order.
var ViewNames = []string{
	"listening-clock",
	"genres",
	"hidden-gems",
	"demographics",
	"personality",
	"lineup",
	"timeline",
	"seasonal",
	"mood",
	"evolution",
	"repetition",
	"recommendations",
}

// Run builds the full report. Views run one at a time; a failed view is
// recorded in Errors and the remaining views still run. The profile fetch
// failing is likewise recorded, never fatal.
func (e *Engine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*FullReport, error) {
	if err := e.checkProvider(); err != nil {
		return nil, err
	}

	report := &FullReport{
		ID:          shared.GenerateID(),
		GeneratedAt: e.now(),
	}

	e.sendProgress(progress, ProgressUpdate{
		Phase:   FetchProfile,
		Step:    1,
		Total:   1,
		Message: "Fetching profile...",
	})
	profile, err := e.provider.Profile(ctx)
	if err != nil {
		report.Errors = append(report.Errors, ViewError{View: "profile", Err: err})
	} else {
		report.Profile = profile
	}

	views := []struct {
		name string
		run  func() error
	}{
		{"listening-clock", func() (err error) { report.ListeningClock, err = e.ListeningClock(ctx, progress); return }},
		{"genres", func() (err error) { report.Genres, err = e.Genres(ctx, progress); return }},
		{"hidden-gems", func() (err error) { report.HiddenGems, err = e.HiddenGems(ctx, progress); return }},
		{"demographics", func() (err error) { report.Demographics, err = e.Demographics(ctx, progress); return }},
		{"personality", func() (err error) { report.Personality, err = e.Personality(ctx, progress); return }},
		{"lineup", func() (err error) { report.Lineup, err = e.FestivalLineup(ctx, progress); return }},
		{"timeline", func() (err error) { report.Timeline, err = e.Timeline(ctx, progress); return }},
		{"seasonal", func() (err error) { report.Seasonal, err = e.Seasonal(ctx, progress); return }},
		{"mood", func() (err error) { report.Mood, err = e.Mood(ctx, progress); return }},
		{"evolution", func() (err error) { report.Evolution, err = e.Evolution(ctx, progress); return }},
		{"repetition", func() (err error) { report.Repetition, err = e.Repetition(ctx, progress); return }},
		{"recommendations", func() (err error) { report.Recommended, err = e.Recommendations(ctx, progress); return }},
	}

	for i, view := range views {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		e.sendProgress(progress, viewUpdate(view.name, i+1, len(views)))
		if err := view.run(); err != nil {
			report.Errors = append(report.Errors, ViewError{View: view.name, Err: err})
		}
	}

	return report, nil
}
