package recommendations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"tunecrate/internal/app/songs"
	"tunecrate/internal/catalog"
	"tunecrate/internal/store"
)

// GenerateLimit is how many tracks one recommendation asks the catalog for.
const GenerateLimit = 5

// ErrNoTracks signals the catalog produced nothing to build a
// recommendation from.
var ErrNoTracks = errors.New("no recommended tracks")

// Store captures the persistence needs for recommendation workflows.
type Store interface {
	ListRecommendations(ctx context.Context) ([]store.Recommendation, error)
	RecommendationByID(ctx context.Context, id int64) (store.Recommendation, error)
	RecommendationNameExists(ctx context.Context, name string) (bool, error)
	GetOrCreateRecommendation(ctx context.Context, name string, songIDs []int64) (store.Recommendation, bool, error)
	GetOrCreateSong(ctx context.Context, title, artist string, fetch store.SongFetcher) (store.Song, bool, error)
}

// Service coordinates recommendation generation and lookup.
type Service interface {
	List(ctx context.Context) ([]store.Recommendation, error)
	Get(ctx context.Context, id int64) (store.Recommendation, error)
	NameTaken(ctx context.Context, name string) (bool, error)
	Generate(ctx context.Context, name string, seedTrackIDs []string) (store.Recommendation, error)
}

type service struct {
	store   Store
	catalog catalog.Client
	logger  zerolog.Logger
}

// New constructs a Service backed by the provided Store and catalog.
func New(store Store, client catalog.Client, logger zerolog.Logger) Service {
	return &service{
		store:   store,
		catalog: client,
		logger:  logger.With().Str("component", "recommendations").Logger(),
	}
}

func (s *service) List(ctx context.Context) ([]store.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListRecommendations(ctx)
}

func (s *service) Get(ctx context.Context, id int64) (store.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return store.Recommendation{}, err
	}
	return s.store.RecommendationByID(ctx, id)
}

func (s *service) NameTaken(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.store.RecommendationNameExists(ctx, name)
}

// Generate asks the catalog for tracks similar to the seeds, caches each one
// as a song keyed by title and artist, and stores them under name.
func (s *service) Generate(ctx context.Context, name string, seedTrackIDs []string) (store.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return store.Recommendation{}, err
	}

	tracks, err := s.catalog.Recommendations(ctx, seedTrackIDs, GenerateLimit)
	if err != nil {
		s.logger.Warn().Err(err).Strs("seeds", seedTrackIDs).Msg("catalog recommendations failed")
		return store.Recommendation{}, fmt.Errorf("%w: %v", ErrNoTracks, err)
	}
	if len(tracks) == 0 {
		return store.Recommendation{}, ErrNoTracks
	}

	songIDs := make([]int64, 0, len(tracks))
	for _, track := range tracks {
		if strings.TrimSpace(track.Title) == "" || strings.TrimSpace(track.Artist) == "" {
			s.logger.Warn().Str("track_id", track.ExternalID).Msg("skipping recommended track without title or artist")
			continue
		}
		song := songs.FromTrack(track)
		cached, _, err := s.store.GetOrCreateSong(ctx, track.Title, track.Artist,
			func(context.Context) (store.Song, error) { return song, nil })
		if err != nil {
			return store.Recommendation{}, err
		}
		songIDs = append(songIDs, cached.ID)
	}
	if len(songIDs) == 0 {
		return store.Recommendation{}, ErrNoTracks
	}

	rec, created, err := s.store.GetOrCreateRecommendation(ctx, name, songIDs)
	if err != nil {
		return store.Recommendation{}, err
	}
	if created {
		s.logger.Info().Int64("recommendation_id", rec.ID).Int("songs", len(songIDs)).Msg("created recommendation")
	}
	return rec, nil
}
