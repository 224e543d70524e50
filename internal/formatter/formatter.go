// package formatter renders analysis reports to various formats (plain text, Markdown, CSV, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"soundscope/internal/analytics"
	"soundscope/internal/models"
	"soundscope/internal/shared"
	"soundscope/internal/tasks"
)

// ListeningClockText renders the listening clock view.
func ListeningClockText(r *tasks.ListeningClockReport) string {
	if r == nil {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("Listening Clock\n")
	fmt.Fprintf(&buf, "  Plays analyzed: %d\n", r.SampleSize)
	fmt.Fprintf(&buf, "  Peak hour: %s (%d plays)\n", shared.FormatHour(r.PeakHour), r.PeakCount)
	fmt.Fprintf(&buf, "  Listener type: %s\n", r.ListenerType)

	for hour, count := range r.Histogram.Buckets {
		if count == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  %5s %s (%d)\n", shared.FormatHour(hour), strings.Repeat("#", count), count)
	}
	return buf.String()
}

// GenresText renders the genre breakdown view.
func GenresText(r *tasks.GenreReport) string {
	if r == nil {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("Top Genres\n")
	fmt.Fprintf(&buf, "  Distinct genres: %d\n", r.Diversity)
	for i, genre := range r.Ranked {
		fmt.Fprintf(&buf, "  %d. %s (%d)\n", i+1, genre.Name, genre.Count)
	}
	return buf.String()
}

// GemsText renders the hidden gems view.
func GemsText(r *tasks.GemsReport) string {
	if r == nil {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("Hidden Gems\n")
	fmt.Fprintf(&buf, "  Tracks scanned: %d\n", r.Scanned)
	if len(r.Gems) == 0 {
		buf.WriteString("  No hidden gems in your current rotation.\n")
		return buf.String()
	}
	for i, gem := range r.Gems {
		fmt.Fprintf(&buf, "  %d. %s - %s (%d followers)\n",
			i+1, gem.Track.PrimaryArtist().Name, gem.Track.Name, gem.ArtistFollowers)
	}
	return buf.String()
}

// DemographicsText renders the demographic comparison view.
func DemographicsText(r *tasks.DemographicsReport) string {
	if r == nil {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("Listening Demographics\n")
	if r.Profile.Name == "" {
		buf.WriteString("  Not enough listening data to compare.\n")
		return buf.String()
	}
	fmt.Fprintf(&buf, "  Closest cohort: %s (%.0f%% match)\n", r.Profile.Name, r.Score*100)
	fmt.Fprintf(&buf, "  Average popularity: %.0f\n", r.Metrics.AvgPopularity)
	fmt.Fprintf(&buf, "  Mean release year: %.0f\n", r.Metrics.EraPreference)
	for _, trait := range r.Traits {
		fmt.Fprintf(&buf, "  - %s\n", trait)
	}
	return buf.String()
}

// PersonalityText renders the music personality view.
func PersonalityText(r *tasks.PersonalityReport) string {
	if r == nil {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("Music Personality\n")
	fmt.Fprintf(&buf, "  Primary: %s (%s)\n", r.Primary.Archetype.Name, r.Primary.Archetype.Description)
	fmt.Fprintf(&buf, "  Secondary: %s\n", r.Secondary.Archetype.Name)
	for _, insight := range r.Insights {
		fmt.Fprintf(&buf, "  - %s\n", insight)
	}
	return buf.String()
}

// LineupText renders the festival lineup view.
func LineupText(r *tasks.LineupReport) string {
	if r == nil {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("Your Festival Lineup\n")
	writeTier := func(label string, artists []string) {
		if len(artists) == 0 {
			return
		}
		fmt.Fprintf(&buf, "  %s: %s\n", label, strings.Join(artists, ", "))
	}
	writeTier("Headliners", artistNames(r.Lineup.Headliners))
	writeTier("Main Stage", artistNames(r.Lineup.MainStage))
	writeTier("Undercard", artistNames(r.Lineup.Undercard))
	return buf.String()
}

// TimelineText renders the artist discovery timeline view.
func TimelineText(r *tasks.TimelineReport) string {
	if r == nil {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("Artist Timeline (simulated discovery dates)\n")
	for _, entry := range r.Entries {
		fmt.Fprintf(&buf, "  %s  %s\n", entry.FirstListened.Format("Jan 2006"), entry.Artist.Name)
	}
	return buf.String()
}

// SeasonalText renders the seasonal patterns view.
func SeasonalText(r *tasks.SeasonalReport) string {
	if r == nil {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("Seasonal Patterns\n")
	for _, month := range r.Months {
		fmt.Fprintf(&buf, "  %-9s %d plays", month.Month, month.Plays)
		if len(month.TopGenres) > 0 {
			fmt.Fprintf(&buf, " (%s)", strings.Join(month.TopGenres, ", "))
		}
		buf.WriteString("\n")
	}
	for _, season := range r.Seasons {
		fmt.Fprintf(&buf, "  %s: %d plays, peak %s\n", season.Season, season.Plays, season.PeakMonth)
	}
	return buf.String()
}

// MoodText renders the mood profile view.
func MoodText(r *tasks.MoodReport) string {
	if r == nil {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("Mood Profile\n")
	fmt.Fprintf(&buf, "  Overall mood: %s\n", r.Profile.Label())
	if r.Profile.TrackCount > 0 {
		fmt.Fprintf(&buf, "  Valence %.2f, Energy %.2f, Danceability %.2f\n",
			r.Profile.Valence, r.Profile.Energy, r.Profile.Danceability)
		fmt.Fprintf(&buf, "  Average tempo: %.0f BPM over %d tracks\n", r.Profile.Tempo, r.Profile.TrackCount)
	}
	return buf.String()
}

// EvolutionText renders the music evolution view.
func EvolutionText(r *tasks.EvolutionReport) string {
	if r == nil {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("Music Evolution\n")
	for _, column := range r.Evolution.Ranges {
		fmt.Fprintf(&buf, "  %s: %s\n", analytics.RangeLabel(column.Range), strings.Join(artistNames(column.Artists), ", "))
	}
	if names := artistNames(r.Mainstays); len(names) > 0 {
		fmt.Fprintf(&buf, "  Mainstays: %s\n", strings.Join(names, ", "))
	}
	if names := artistNames(r.Newcomers); len(names) > 0 {
		fmt.Fprintf(&buf, "  Newcomers: %s\n", strings.Join(names, ", "))
	}
	return buf.String()
}

// RepetitionText renders the song repetition view.
func RepetitionText(r *tasks.RepetitionReport) string {
	if r == nil {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("Song Repetition (simulated play counts)\n")
	for i, track := range r.Tracks {
		fmt.Fprintf(&buf, "  %d. %s - %s (~%d plays)\n",
			i+1, track.Track.PrimaryArtist().Name, track.Track.Name, track.PlayCount)
	}
	return buf.String()
}

// RecommendationsText renders the seeded recommendations view.
func RecommendationsText(r *tasks.RecommendationsReport) string {
	if r == nil {
		return ""
	}

	var buf bytes.Buffer
	buf.WriteString("Artists You Might Love\n")
	if r.Seed.ID == "" {
		buf.WriteString("  Not enough long-term history to pick a seed artist.\n")
		return buf.String()
	}
	fmt.Fprintf(&buf, "  Based on your love for %s\n", r.Seed.Name)
	for i, track := range r.Tracks {
		fmt.Fprintf(&buf, "  %d. %s (popularity %d)\n", i+1, track.Name, track.Popularity)
	}
	return buf.String()
}

// ReportToText renders the full report as sectioned plain text. Failed views
// are listed at the end.
func ReportToText(report *tasks.FullReport) []byte {
	var buf bytes.Buffer

	if report.Profile != nil {
		name := report.Profile.DisplayName
		if name == "" {
			name = report.Profile.ID
		}
		fmt.Fprintf(&buf, "Soundscope report for %s\n\n", name)
	}

	sections := []string{
		ListeningClockText(report.ListeningClock),
		GenresText(report.Genres),
		GemsText(report.HiddenGems),
		DemographicsText(report.Demographics),
		PersonalityText(report.Personality),
		LineupText(report.Lineup),
		TimelineText(report.Timeline),
		SeasonalText(report.Seasonal),
		MoodText(report.Mood),
		EvolutionText(report.Evolution),
		RepetitionText(report.Repetition),
		RecommendationsText(report.Recommended),
	}
	for _, section := range sections {
		if section == "" {
			continue
		}
		buf.WriteString(section)
		buf.WriteString("\n")
	}

	if len(report.Errors) > 0 {
		buf.WriteString("Failed views\n")
		for _, viewErr := range report.Errors {
			fmt.Fprintf(&buf, "  %s: %v\n", viewErr.View, viewErr.Err)
		}
	}

	return buf.Bytes()
}

// ReportToMarkdown renders the full report as a Markdown document.
func ReportToMarkdown(report *tasks.FullReport) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Soundscope Report\n\n")
	if report.Profile != nil && report.Profile.DisplayName != "" {
		fmt.Fprintf(&buf, "Listener: **%s**\n\n", report.Profile.DisplayName)
	}

	sections := []struct {
		title string
		body  string
	}{
		{"Listening Clock", ListeningClockText(report.ListeningClock)},
		{"Top Genres", GenresText(report.Genres)},
		{"Hidden Gems", GemsText(report.HiddenGems)},
		{"Demographics", DemographicsText(report.Demographics)},
		{"Music Personality", PersonalityText(report.Personality)},
		{"Festival Lineup", LineupText(report.Lineup)},
		{"Artist Timeline", TimelineText(report.Timeline)},
		{"Seasonal Patterns", SeasonalText(report.Seasonal)},
		{"Mood Profile", MoodText(report.Mood)},
		{"Music Evolution", EvolutionText(report.Evolution)},
		{"Song Repetition", RepetitionText(report.Repetition)},
		{"Artists You Might Love", RecommendationsText(report.Recommended)},
	}
	for _, section := range sections {
		if section.body == "" {
			continue
		}
		fmt.Fprintf(&buf, "## %s\n\n```\n%s```\n\n", section.title, stripHeading(section.body))
	}

	if len(report.Errors) > 0 {
		buf.WriteString("## Failed Views\n\n")
		for _, viewErr := range report.Errors {
			fmt.Fprintf(&buf, "- `%s`: %v\n", viewErr.View, viewErr.Err)
		}
	}

	return buf.Bytes()
}

// stripHeading drops the first line of a text section; the Markdown heading
// replaces it.
func stripHeading(section string) string {
	if idx := strings.IndexByte(section, '\n'); idx >= 0 {
		return section[idx+1:]
	}
	return section
}

// ClockToCSV converts the hourly histogram to CSV with columns: Hour, Label, Plays
func ClockToCSV(h analytics.HourlyHistogram) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Hour", "Label", "Plays"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for hour, count := range h.Buckets {
		record := []string{
			strconv.Itoa(hour),
			shared.FormatHour(hour),
			strconv.Itoa(count),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// GenresToCSV converts the ranked genre list to CSV with columns: Rank, Genre, Count
func GenresToCSV(ranked []analytics.GenreCount) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Rank", "Genre", "Count"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, genre := range ranked {
		record := []string{
			strconv.Itoa(i + 1),
			genre.Name,
			strconv.Itoa(genre.Count),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToJSON generates a JSON representation of the full report.
func ReportToJSON(report *tasks.FullReport) ([]byte, error) {
	return shared.MarshalJSON(report, true)
}

// WriteReport writes the full report to a file in the requested format.
//
// Defaults to soundscope_report_{epoch}.{ext} when path is empty. Supported
// formats: text (default), markdown, json.
func WriteReport(report *tasks.FullReport, format, path string) (string, error) {
	var (
		data []byte
		ext  string
		err  error
	)

	switch format {
	case "markdown", "md":
		data, ext = ReportToMarkdown(report), "md"
	case "json":
		ext = "json"
		data, err = ReportToJSON(report)
		if err != nil {
			return "", fmt.Errorf("failed to generate JSON: %w", err)
		}
	case "text", "txt", "":
		data, ext = ReportToText(report), "txt"
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	if path == "" {
		path = fmt.Sprintf("soundscope_report_%d.%s", time.Now().Unix(), ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return path, nil
}

func artistNames(artists []models.Artist) []string {
	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		if artist.Name != "" {
			names = append(names, artist.Name)
		}
	}
	return names
}
