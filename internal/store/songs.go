package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Song is a cached copy of one catalog track.
type Song struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	Album         string `json:"album"`
	AlbumCoverURL string `json:"album_cover_url"`
	Duration      string `json:"duration"`
	ExternalURL   string `json:"external_url"`
	TrackID       string `json:"track_id"`
}

// Label is the human readable choice label used by the song pickers.
func (s Song) Label() string {
	return s.Title + " by " + s.Artist
}

// SongFetcher resolves a song that is not cached yet, typically from the
// catalog.
type SongFetcher func(ctx context.Context) (Song, error)

const songColumns = `id, title, artist, album, album_cover_url, duration, external_url, track_id`

// ListSongs returns every cached song in insertion order.
func (s *Store) ListSongs(ctx context.Context) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+songColumns+` FROM songs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query songs: %w", err)
	}
	return scanSongs(rows)
}

// SongsByIDs resolves selected song ids into songs. Unknown ids are skipped.
func (s *Store) SongsByIDs(ctx context.Context, ids []int64) ([]Song, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+songColumns+` FROM songs WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query songs by id: %w", err)
	}
	return scanSongs(rows)
}

// FindSong looks up the oldest song stored under title and artist.
func (s *Store) FindSong(ctx context.Context, title, artist string) (Song, bool, error) {
	var song Song
	err := s.db.QueryRowContext(ctx,
		`SELECT `+songColumns+` FROM songs WHERE title = $1 AND artist = $2 ORDER BY id LIMIT 1`,
		title, artist).
		Scan(&song.ID, &song.Title, &song.Artist, &song.Album, &song.AlbumCoverURL,
			&song.Duration, &song.ExternalURL, &song.TrackID)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, false, nil
	}
	if err != nil {
		return Song{}, false, fmt.Errorf("find song: %w", err)
	}
	return song, true, nil
}

// CreateSong inserts song and returns it with its new id.
func (s *Store) CreateSong(ctx context.Context, song Song) (Song, error) {
	song.Title = strings.TrimSpace(song.Title)
	song.Artist = strings.TrimSpace(song.Artist)
	if song.Title == "" || song.Artist == "" {
		return Song{}, fmt.Errorf("title and artist are required")
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO songs (title, artist, album, album_cover_url, duration, external_url, track_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, song.Title, song.Artist, song.Album, song.AlbumCoverURL, song.Duration,
		song.ExternalURL, song.TrackID).Scan(&song.ID)
	if err != nil {
		return Song{}, fmt.Errorf("insert song: %w", err)
	}
	return song, nil
}

// GetOrCreateSong returns the song stored under title and artist. On a miss
// it calls fetch and stores the result, unless the fetched track is already
// cached under its own canonical title and artist. The bool reports whether
// a row was inserted.
func (s *Store) GetOrCreateSong(ctx context.Context, title, artist string, fetch SongFetcher) (Song, bool, error) {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)

	song, found, err := s.FindSong(ctx, title, artist)
	if err != nil {
		return Song{}, false, err
	}
	if found {
		return song, false, nil
	}

	fetched, err := fetch(ctx)
	if err != nil {
		return Song{}, false, fmt.Errorf("fetch song: %w", err)
	}

	if fetched.Title != title || fetched.Artist != artist {
		song, found, err = s.FindSong(ctx, fetched.Title, fetched.Artist)
		if err != nil {
			return Song{}, false, err
		}
		if found {
			return song, false, nil
		}
	}

	created, err := s.CreateSong(ctx, fetched)
	if err != nil {
		return Song{}, false, err
	}
	return created, true, nil
}

func scanSongs(rows *sql.Rows) ([]Song, error) {
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Artist, &song.Album, &song.AlbumCoverURL,
			&song.Duration, &song.ExternalURL, &song.TrackID); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

// linkedSongs loads the songs attached to ownerID through a join table.
func linkedSongs(ctx context.Context, q queryer, joinTable, ownerColumn string, ownerID int64) ([]Song, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT s.id, s.title, s.artist, s.album, s.album_cover_url, s.duration, s.external_url, s.track_id
		FROM songs s
		JOIN `+joinTable+` j ON j.song_id = s.id
		WHERE j.`+ownerColumn+` = $1
		ORDER BY s.id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", joinTable, err)
	}
	return scanSongs(rows)
}

// linkSongs attaches songIDs to ownerID, ignoring pairs that already exist.
func linkSongs(ctx context.Context, q queryer, joinTable, ownerColumn string, ownerID int64, songIDs []int64) error {
	if len(songIDs) == 0 {
		return nil
	}
	if _, err := q.ExecContext(ctx, `
		INSERT INTO `+joinTable+` (`+ownerColumn+`, song_id)
		SELECT $1, UNNEST($2::bigint[])
		ON CONFLICT DO NOTHING
	`, ownerID, pq.Array(songIDs)); err != nil {
		return fmt.Errorf("insert %s: %w", joinTable, err)
	}
	return nil
}
