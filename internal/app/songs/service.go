package songs

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"tunecrate/internal/catalog"
	"tunecrate/internal/store"
)

// Store captures the persistence needs for song workflows.
type Store interface {
	ListSongs(ctx context.Context) ([]store.Song, error)
	FindSong(ctx context.Context, title, artist string) (store.Song, bool, error)
	GetOrCreateSong(ctx context.Context, title, artist string, fetch store.SongFetcher) (store.Song, bool, error)
}

// Service coordinates song search and caching.
type Service interface {
	List(ctx context.Context) ([]store.Song, error)
	Lookup(ctx context.Context, query string) (catalog.Track, bool)
	Exists(ctx context.Context, title, artist string) (bool, error)
	GetOrCreate(ctx context.Context, title, artist string) (store.Song, error)
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
		logger:  logger.With().Str("component", "songs").Logger(),
	}
}

func (s *service) List(ctx context.Context) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListSongs(ctx)
}

// Lookup returns the catalog's top hit for query. Catalog failures are
// logged and reported as not found.
func (s *service) Lookup(ctx context.Context, query string) (catalog.Track, bool) {
	if ctx.Err() != nil {
		return catalog.Track{}, false
	}

	tracks, err := s.catalog.SearchTracks(ctx, query, 1)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("catalog search failed")
		return catalog.Track{}, false
	}
	if len(tracks) == 0 {
		return catalog.Track{}, false
	}
	return tracks[0], true
}

func (s *service) Exists(ctx context.Context, title, artist string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, found, err := s.store.FindSong(ctx, title, artist)
	return found, err
}

// GetOrCreate returns the cached song for title and artist, searching the
// catalog for "title, artist" when it is not cached yet.
func (s *service) GetOrCreate(ctx context.Context, title, artist string) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}

	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	fetch := func(ctx context.Context) (store.Song, error) {
		tracks, err := s.catalog.SearchTracks(ctx, title+", "+artist, 1)
		if err != nil {
			return store.Song{}, err
		}
		if len(tracks) == 0 {
			return store.Song{}, catalog.ErrNoResults
		}
		return FromTrack(tracks[0]), nil
	}

	song, created, err := s.store.GetOrCreateSong(ctx, title, artist, fetch)
	if err != nil {
		return store.Song{}, err
	}
	if created {
		s.logger.Info().Int64("song_id", song.ID).Str("title", song.Title).Str("artist", song.Artist).Msg("cached song")
	}
	return song, nil
}

// FromTrack maps a catalog track onto the cached song shape.
func FromTrack(t catalog.Track) store.Song {
	return store.Song{
		Title:         t.Title,
		Artist:        t.Artist,
		Album:         t.Album,
		AlbumCoverURL: t.CoverURL,
		Duration:      t.Duration,
		ExternalURL:   t.ExternalURL,
		TrackID:       t.ExternalID,
	}
}
