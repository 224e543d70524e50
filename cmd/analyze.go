package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"soundscope/internal/formatter"
	"soundscope/internal/shared"
	"soundscope/internal/tasks"
)

// runView runs one engine view with progress logging attached.
func runView[T any](ctx context.Context, r *Runner, fn func(context.Context, chan<- tasks.ProgressUpdate) (T, error)) (T, error) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := r.drainProgress(progress)

	result, err := fn(ctx, progress)
	close(progress)
	<-done

	return result, err
}

// AnalyzeClock prints the hourly listening histogram.
func (r *Runner) AnalyzeClock(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	report, err := runView(ctx, r, r.engine.ListeningClock)
	if err != nil {
		return err
	}

	r.writePlainHeader("Listening Clock")
	return r.writePlain("%s", formatter.ListeningClockText(report))
}

// AnalyzeGenres prints the ranked genre breakdown.
func (r *Runner) AnalyzeGenres(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	report, err := runView(ctx, r, r.engine.Genres)
	if err != nil {
		return err
	}

	r.writePlainHeader("Top Genres")
	return r.writePlain("%s", formatter.GenresText(report))
}

// AnalyzeGems prints favorite tracks by under-the-radar artists.
func (r *Runner) AnalyzeGems(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	report, err := runView(ctx, r, r.engine.HiddenGems)
	if err != nil {
		return err
	}

	r.writePlainHeader("Hidden Gems")
	return r.writePlain("%s", formatter.GemsText(report))
}

// AnalyzeDemographics prints the closest listener cohort.
func (r *Runner) AnalyzeDemographics(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	report, err := runView(ctx, r, r.engine.Demographics)
	if err != nil {
		return err
	}

	r.writePlainHeader("Demographics")
	return r.writePlain("%s", formatter.DemographicsText(report))
}

// AnalyzePersonality prints the listening archetype scores.
func (r *Runner) AnalyzePersonality(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	report, err := runView(ctx, r, r.engine.Personality)
	if err != nil {
		return err
	}

	r.writePlainHeader("Music Personality")
	return r.writePlain("%s", formatter.PersonalityText(report))
}

// AnalyzeLineup prints a festival poster built from the user's top artists.
func (r *Runner) AnalyzeLineup(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	report, err := runView(ctx, r, r.engine.FestivalLineup)
	if err != nil {
		return err
	}

	r.writePlainHeader("Festival Lineup")
	return r.writePlain("%s", formatter.LineupText(report))
}

// AnalyzeTimeline prints the simulated artist discovery timeline.
func (r *Runner) AnalyzeTimeline(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	report, err := runView(ctx, r, r.engine.Timeline)
	if err != nil {
		return err
	}

	r.writePlainHeader("Artist Timeline")
	return r.writePlain("%s", formatter.TimelineText(report))
}

// AnalyzeSeasonal prints listening activity through the year.
func (r *Runner) AnalyzeSeasonal(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	report, err := runView(ctx, r, r.engine.Seasonal)
	if err != nil {
		return err
	}

	r.writePlainHeader("Seasonal Patterns")
	return r.writePlain("%s", formatter.SeasonalText(report))
}

// AnalyzeMood prints the averaged audio-feature mood profile.
func (r *Runner) AnalyzeMood(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	report, err := runView(ctx, r, r.engine.Mood)
	if err != nil {
		return err
	}

	r.writePlainHeader("Mood Profile")
	return r.writePlain("%s", formatter.MoodText(report))
}

// AnalyzeEvolution prints top artists across the three time ranges.
func (r *Runner) AnalyzeEvolution(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	report, err := runView(ctx, r, r.engine.Evolution)
	if err != nil {
		return err
	}

	r.writePlainHeader("Music Evolution")
	return r.writePlain("%s", formatter.EvolutionText(report))
}

// AnalyzeRepetition prints the simulated replay counts.
func (r *Runner) AnalyzeRepetition(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	report, err := runView(ctx, r, r.engine.Repetition)
	if err != nil {
		return err
	}

	r.writePlainHeader("Song Repetition")
	return r.writePlain("%s", formatter.RepetitionText(report))
}

// AnalyzeRecommendations prints top tracks from the long-term favorite artist.
func (r *Runner) AnalyzeRecommendations(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	report, err := runView(ctx, r, r.engine.Recommendations)
	if err != nil {
		return err
	}

	r.writePlainHeader("Recommendations")
	return r.writePlain("%s", formatter.RecommendationsText(report))
}

// AnalyzeReport runs every view and writes or prints the combined report.
func (r *Runner) AnalyzeReport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	engine := r.engine
	if seed := cmd.Int("seed"); seed != 0 {
		engine = engine.WithSeed(int64(seed))
	}

	report, err := runView(ctx, r, engine.Run)
	if err != nil {
		return err
	}

	for _, viewErr := range report.Errors {
		r.logger.Warn("view failed", "view", viewErr.View, "error", viewErr.Err)
	}

	format := cmd.String("format")
	output := cmd.String("output")

	if output == "" {
		var data []byte
		switch format {
		case "", "text", "txt":
			data = formatter.ReportToText(report)
		case "markdown", "md":
			data = formatter.ReportToMarkdown(report)
		case "json":
			if data, err = formatter.ReportToJSON(report); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	path, err := formatter.WriteReport(report, format, output)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Report saved to %s\n", path)
}
