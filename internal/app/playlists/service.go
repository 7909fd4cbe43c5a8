package playlists

import (
	"context"
	"unicode/utf8"

	"tunecrate/internal/store"
)

// Store captures the persistence needs for playlist workflows.
type Store interface {
	ListPlaylists(ctx context.Context, userID int64) ([]store.Playlist, error)
	PlaylistByName(ctx context.Context, userID int64, name string) (store.Playlist, error)
	PlaylistNameExists(ctx context.Context, name string) (bool, error)
	GetOrCreatePlaylist(ctx context.Context, userID int64, name string, songIDs []int64) (store.Playlist, bool, error)
	UpdatePlaylist(ctx context.Context, userID int64, name, newName string, add, remove []int64) (store.Playlist, error)
	DeletePlaylist(ctx context.Context, userID int64, name string) error
	SongsByIDs(ctx context.Context, ids []int64) ([]store.Song, error)
}

// Service coordinates playlist-related operations for one owner at a time.
type Service interface {
	List(ctx context.Context, userID int64) ([]store.Playlist, error)
	Get(ctx context.Context, userID int64, name string) (store.Playlist, error)
	View(ctx context.Context, userID int64, name string) (store.Playlist, error)
	Create(ctx context.Context, userID int64, name string, songIDs []int64) (store.Playlist, error)
	Update(ctx context.Context, userID int64, name, newName string, add, remove []int64) (store.Playlist, error)
	Delete(ctx context.Context, userID int64, name string) error
	NameTaken(ctx context.Context, name string) (bool, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, userID int64) ([]store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPlaylists(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID int64, name string) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.PlaylistByName(ctx, userID, name)
}

// View returns the user's playlist called name, creating an empty one when
// it does not exist yet. Names the schema cannot hold are never found.
func (s *service) View(ctx context.Context, userID int64, name string) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	if utf8.RuneCountInString(name) > store.MaxNameLength {
		return store.Playlist{}, store.ErrPlaylistNotFound
	}
	p, _, err := s.store.GetOrCreatePlaylist(ctx, userID, name, nil)
	return p, err
}

func (s *service) Create(ctx context.Context, userID int64, name string, songIDs []int64) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	ids, err := s.resolve(ctx, songIDs)
	if err != nil {
		return store.Playlist{}, err
	}
	p, _, err := s.store.GetOrCreatePlaylist(ctx, userID, name, ids)
	return p, err
}

func (s *service) Update(ctx context.Context, userID int64, name, newName string, add, remove []int64) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	add, err := s.resolve(ctx, add)
	if err != nil {
		return store.Playlist{}, err
	}
	remove, err = s.resolve(ctx, remove)
	if err != nil {
		return store.Playlist{}, err
	}
	return s.store.UpdatePlaylist(ctx, userID, name, newName, add, remove)
}

func (s *service) Delete(ctx context.Context, userID int64, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeletePlaylist(ctx, userID, name)
}

func (s *service) NameTaken(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.store.PlaylistNameExists(ctx, name)
}

// resolve keeps the ids that still name a stored song.
func (s *service) resolve(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	songs, err := s.store.SongsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(songs))
	for _, song := range songs {
		out = append(out, song.ID)
	}
	return out, nil
}
