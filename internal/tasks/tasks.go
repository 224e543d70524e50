// package tasks implements the analysis pipeline between the provider client
// and the aggregation routines.
//
// The core abstraction is Engine, which orchestrates fetch + aggregate runs
// for each dashboard view. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"soundscope/internal/analytics"
	"soundscope/internal/models"
	"soundscope/internal/services"
	"soundscope/internal/shared"
)

// Fetch limits per view. The provider caps top-item and history pages at 50.
const (
	topLimit       = 50
	historyLimit   = 50
	evolutionLimit = 10
)

// EngineOpts contains configuration for the analysis engine.
type EngineOpts struct {
	RateLimit float64          // Artist detail lookups per second (default: 5)
	Seed      int64            // Shuffle/simulation seed (default: current time)
	Location  *time.Location   // Hour bucketing location (default: local)
	Now       func() time.Time // Clock override for tests
}

// Engine orchestrates fetching provider data and running aggregations.
// Simulated derivations (timeline, repetition, lineup shuffle) draw from a
// single seeded source so a run is reproducible given the same seed.
type Engine struct {
	provider services.Provider
	limiter  *rate.Limiter
	rng      *rand.Rand
	now      func() time.Time
	loc      *time.Location
}

// NewEngine creates an Engine with the provided provider client.
func NewEngine(provider services.Provider, opts EngineOpts) *Engine {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	seed := opts.Seed
	if seed == 0 {
		seed = opts.Now().UnixNano()
	}

	return &Engine{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		rng:      rand.New(rand.NewSource(seed)),
		now:      opts.Now,
		loc:      opts.Location,
	}
}

// WithSeed returns a copy of the engine whose simulated derivations draw
// from the given seed. The provider, rate limiter, clock, and location are
// shared with the receiver.
func (e *Engine) WithSeed(seed int64) *Engine {
	clone := *e
	clone.rng = rand.New(rand.NewSource(seed))
	return &clone
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *Engine) checkProvider() error {
	if e.provider == nil {
		return fmt.Errorf("%w: provider not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

// ListeningClockReport describes when in the day a listener plays music.
type ListeningClockReport struct {
	Histogram    analytics.HourlyHistogram
	PeakHour     int
	PeakCount    int
	ListenerType string
	SampleSize   int
}

// ListeningClock buckets the recent play history by hour of day.
func (e *Engine) ListeningClock(ctx context.Context, progress chan<- ProgressUpdate) (*ListeningClockReport, error) {
	if err := e.checkProvider(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchHistoryUpdate(1, 1))
	events, err := e.provider.RecentlyPlayed(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch history: %v", shared.ErrAPIRequest, err)
	}

	e.sendProgress(progress, aggregateUpdate("listening clock"))
	report := &ListeningClockReport{
		Histogram:  analytics.BuildHourlyHistogram(events, e.loc),
		SampleSize: len(events),
	}
	report.PeakHour, report.PeakCount = report.Histogram.PeakHour()
	report.ListenerType = analytics.ListenerType(report.PeakHour)
	return report, nil
}

// GenreReport ranks the genres across a listener's top artists.
type GenreReport struct {
	Ranked    []analytics.GenreCount
	Diversity int
}

// Genres ranks genre frequency across the medium-term top artists.
func (e *Engine) Genres(ctx context.Context, progress chan<- ProgressUpdate) (*GenreReport, error) {
	if err := e.checkProvider(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchTopArtistsUpdate(1, 1))
	artists, err := e.provider.TopArtists(ctx, models.MediumTerm, topLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch top artists: %v", shared.ErrAPIRequest, err)
	}

	e.sendProgress(progress, aggregateUpdate("genre breakdown"))
	return &GenreReport{
		Ranked:    analytics.GenreFrequency(artists, analytics.DefaultGenreCap),
		Diversity: analytics.GenreDiversity(artists),
	}, nil
}

// DemographicsReport compares a listener against reference cohorts.
type DemographicsReport struct {
	Metrics analytics.UserMetrics
	Profile analytics.ReferenceProfile
	Score   float64
	Traits  []string
}

// Demographics fetches top tracks and artists concurrently, then matches
// the derived metrics against the reference profiles.
func (e *Engine) Demographics(ctx context.Context, progress chan<- ProgressUpdate) (*DemographicsReport, error) {
	if err := e.checkProvider(); err != nil {
		return nil, err
	}

	var (
		wg               sync.WaitGroup
		tracks           []models.Track
		artists          []models.Artist
		trackErr, artErr error
	)

	e.sendProgress(progress, fetchTopTracksUpdate(1, 2))
	wg.Add(2)
	go func() {
		defer wg.Done()
		tracks, trackErr = e.provider.TopTracks(ctx, models.MediumTerm, topLimit)
	}()
	go func() {
		defer wg.Done()
		artists, artErr = e.provider.TopArtists(ctx, models.MediumTerm, topLimit)
	}()
	wg.Wait()

	if trackErr != nil {
		return nil, fmt.Errorf("%w: failed to fetch top tracks: %v", shared.ErrAPIRequest, trackErr)
	}
	if artErr != nil {
		return nil, fmt.Errorf("%w: failed to fetch top artists: %v", shared.ErrAPIRequest, artErr)
	}

	e.sendProgress(progress, aggregateUpdate("demographic comparison"))
	metrics, ok := analytics.ComputeUserMetrics(tracks, artists)
	if !ok {
		return &DemographicsReport{}, nil
	}

	profile, score := analytics.ClosestProfile(metrics)
	return &DemographicsReport{
		Metrics: metrics,
		Profile: profile,
		Score:   score,
		Traits:  analytics.UniqueTraits(metrics, profile.Metrics),
	}, nil
}

// PersonalityReport classifies a listener into archetypes.
type PersonalityReport struct {
	Traits    analytics.Traits
	Primary   analytics.ArchetypeScore
	Secondary analytics.ArchetypeScore
	Insights  []string
}

// Personality fetches top tracks, top artists, and recent history
// concurrently, then scores the listening archetypes.
func (e *Engine) Personality(ctx context.Context, progress chan<- ProgressUpdate) (*PersonalityReport, error) {
	if err := e.checkProvider(); err != nil {
		return nil, err
	}

	var (
		wg      sync.WaitGroup
		tracks  []models.Track
		artists []models.Artist
		events  []models.PlayEvent
		errs    [3]error
	)

	e.sendProgress(progress, fetchTopTracksUpdate(1, 3))
	wg.Add(3)
	go func() {
		defer wg.Done()
		tracks, errs[0] = e.provider.TopTracks(ctx, models.MediumTerm, topLimit)
	}()
	go func() {
		defer wg.Done()
		artists, errs[1] = e.provider.TopArtists(ctx, models.MediumTerm, topLimit)
	}()
	go func() {
		defer wg.Done()
		events, errs[2] = e.provider.RecentlyPlayed(ctx, historyLimit)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch listening data: %v", shared.ErrAPIRequest, err)
		}
	}

	e.sendProgress(progress, aggregateUpdate("music personality"))
	traits := analytics.ComputeTraits(tracks, artists, events, e.loc)
	primary, secondary := analytics.ClassifyPersonality(traits)
	return &PersonalityReport{
		Traits:    traits,
		Primary:   primary,
		Secondary: secondary,
		Insights:  analytics.Insights(traits),
	}, nil
}

// LineupReport is the festival poster built from a listener's top artists.
type LineupReport struct {
	Lineup   analytics.Lineup
	PoolSize int
}

// FestivalLineup merges the top artists of all three time ranges and deals
// them into poster tiers.
func (e *Engine) FestivalLineup(ctx context.Context, progress chan<- ProgressUpdate) (*LineupReport, error) {
	groups, err := e.fetchArtistRanges(ctx, progress, topLimit)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, aggregateUpdate("festival lineup"))
	pool := analytics.MergeUnique(groups[0], groups[1], groups[2])
	return &LineupReport{
		Lineup:   analytics.BuildLineup(pool, e.rng),
		PoolSize: len(pool),
	}, nil
}

// TimelineReport orders artist discoveries over the past year. Discovery
// dates are simulated; entries carry the flag.
type TimelineReport struct {
	Entries []analytics.TimelineEntry
}

// Timeline simulates first-listened dates for the medium-term top artists.
func (e *Engine) Timeline(ctx context.Context, progress chan<- ProgressUpdate) (*TimelineReport, error) {
	if err := e.checkProvider(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchTopArtistsUpdate(1, 1))
	artists, err := e.provider.TopArtists(ctx, models.MediumTerm, topLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch top artists: %v", shared.ErrAPIRequest, err)
	}

	e.sendProgress(progress, aggregateUpdate("artist timeline"))
	return &TimelineReport{
		Entries: analytics.SimulateTimeline(artists, e.now(), e.rng),
	}, nil
}

// SeasonalReport captures per-month and per-season listening activity.
type SeasonalReport struct {
	Months  []analytics.MonthActivity
	Seasons []analytics.SeasonSummary
}

// Seasonal buckets the recent play history by month and season.
func (e *Engine) Seasonal(ctx context.Context, progress chan<- ProgressUpdate) (*SeasonalReport, error) {
	if err := e.checkProvider(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchHistoryUpdate(1, 1))
	events, err := e.provider.RecentlyPlayed(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch history: %v", shared.ErrAPIRequest, err)
	}

	e.sendProgress(progress, aggregateUpdate("seasonal patterns"))
	months := analytics.SeasonalActivity(events, e.loc)
	return &SeasonalReport{
		Months:  months,
		Seasons: analytics.SummarizeSeasons(months),
	}, nil
}

// MoodReport averages audio features over the top tracks.
type MoodReport struct {
	Profile analytics.MoodProfile
}

// Mood fetches audio features for the medium-term top tracks and averages
// them. Tracks the provider has no analysis for are simply absent.
func (e *Engine) Mood(ctx context.Context, progress chan<- ProgressUpdate) (*MoodReport, error) {
	if err := e.checkProvider(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchTopTracksUpdate(1, 2))
	tracks, err := e.provider.TopTracks(ctx, models.MediumTerm, topLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch top tracks: %v", shared.ErrAPIRequest, err)
	}

	ids := make([]string, 0, len(tracks))
	for _, track := range tracks {
		if track.ID != "" {
			ids = append(ids, track.ID)
		}
	}

	var features []models.AudioFeatures
	if len(ids) > 0 {
		e.sendProgress(progress, fetchFeaturesUpdate(2, 2))
		features, err = e.provider.AudioFeatures(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch audio features: %v", shared.ErrAPIRequest, err)
		}
	}

	e.sendProgress(progress, aggregateUpdate("mood profile"))
	return &MoodReport{Profile: analytics.BuildMoodProfile(features)}, nil
}

// EvolutionReport lays top artists of each range side by side.
type EvolutionReport struct {
	Evolution analytics.Evolution
	Mainstays []models.Artist
	Newcomers []models.Artist
}

// Evolution fetches the top artists of all three ranges and derives the
// mainstay and newcomer sets.
func (e *Engine) Evolution(ctx context.Context, progress chan<- ProgressUpdate) (*EvolutionReport, error) {
	groups, err := e.fetchArtistRanges(ctx, progress, evolutionLimit)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, aggregateUpdate("music evolution"))
	evolution := analytics.BuildEvolution(groups[0], groups[1], groups[2])
	return &EvolutionReport{
		Evolution: evolution,
		Mainstays: evolution.Mainstays(),
		Newcomers: evolution.Newcomers(),
	}, nil
}

// RepetitionReport estimates how heavily the top tracks are replayed.
// Play counts are simulated; entries carry the flag.
type RepetitionReport struct {
	Tracks []analytics.RepeatedTrack
}

// Repetition simulates lifetime play counts for the medium-term top tracks.
func (e *Engine) Repetition(ctx context.Context, progress chan<- ProgressUpdate) (*RepetitionReport, error) {
	if err := e.checkProvider(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchTopTracksUpdate(1, 1))
	tracks, err := e.provider.TopTracks(ctx, models.MediumTerm, topLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch top tracks: %v", shared.ErrAPIRequest, err)
	}

	e.sendProgress(progress, aggregateUpdate("song repetition"))
	return &RepetitionReport{Tracks: analytics.SimulateRepetition(tracks, e.rng)}, nil
}

// fetchArtistRanges fetches the top artists of all three time ranges
// concurrently, returned in models.TimeRanges order.
func (e *Engine) fetchArtistRanges(ctx context.Context, progress chan<- ProgressUpdate, limit int) ([3][]models.Artist, error) {
	var groups [3][]models.Artist
	if err := e.checkProvider(); err != nil {
		return groups, err
	}

	var (
		wg   sync.WaitGroup
		errs [3]error
	)

	e.sendProgress(progress, fetchTopArtistsUpdate(1, len(models.TimeRanges)))
	for i, timeRange := range models.TimeRanges {
		wg.Add(1)
		go func(i int, timeRange models.TimeRange) {
			defer wg.Done()
			groups[i], errs[i] = e.provider.TopArtists(ctx, timeRange, limit)
		}(i, timeRange)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return groups, fmt.Errorf("%w: failed to fetch %s top artists: %v", shared.ErrAPIRequest, models.TimeRanges[i], err)
		}
	}
	return groups, nil
}
