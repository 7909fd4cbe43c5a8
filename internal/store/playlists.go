package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Playlist is a named set of songs owned by one user.
type Playlist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Songs     []Song    `json:"songs"`
}

// ListPlaylists returns the playlists owned by userID, songs included.
func (s *Store) ListPlaylists(ctx context.Context, userID int64) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, user_id, created_at
		FROM playlists
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}

	var playlists []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.UserID, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	rows.Close()

	for i := range playlists {
		songs, err := s.PlaylistSongs(ctx, playlists[i].ID)
		if err != nil {
			return nil, err
		}
		playlists[i].Songs = songs
	}
	return playlists, nil
}

// PlaylistByName loads the playlist called name owned by userID.
func (s *Store) PlaylistByName(ctx context.Context, userID int64, name string) (Playlist, error) {
	p, err := s.playlistRow(ctx, s.db, userID, name)
	if err != nil {
		return Playlist{}, err
	}
	if p.Songs, err = s.PlaylistSongs(ctx, p.ID); err != nil {
		return Playlist{}, err
	}
	return p, nil
}

// PlaylistNameExists reports whether any user owns a playlist called name.
func (s *Store) PlaylistNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM playlists WHERE name = $1)`,
		strings.TrimSpace(name)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check playlist name: %w", err)
	}
	return exists, nil
}

// PlaylistSongs returns the songs attached to a playlist.
func (s *Store) PlaylistSongs(ctx context.Context, playlistID int64) ([]Song, error) {
	return linkedSongs(ctx, s.db, "playlist_songs", "playlist_id", playlistID)
}

// GetOrCreatePlaylist returns userID's playlist called name, creating it with
// songIDs attached when it does not exist. Songs are only attached on
// creation. ErrNameTaken is returned when another user owns the name.
func (s *Store) GetOrCreatePlaylist(ctx context.Context, userID int64, name string, songIDs []int64) (Playlist, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Playlist{}, false, fmt.Errorf("playlist name is required")
	}

	existing, err := s.PlaylistByName(ctx, userID, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrPlaylistNotFound) {
		return Playlist{}, false, err
	}

	p := Playlist{Name: name, UserID: userID}
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO playlists (name, user_id)
			VALUES ($1, $2)
			RETURNING id, created_at
		`, name, userID).Scan(&p.ID, &p.CreatedAt); err != nil {
			if isUniqueViolation(err) {
				return ErrNameTaken
			}
			return fmt.Errorf("insert playlist: %w", err)
		}
		return linkSongs(ctx, tx, "playlist_songs", "playlist_id", p.ID, songIDs)
	})
	if err != nil {
		return Playlist{}, false, err
	}

	if p.Songs, err = s.PlaylistSongs(ctx, p.ID); err != nil {
		return Playlist{}, false, err
	}
	return p, true, nil
}

// UpdatePlaylist renames userID's playlist called name when newName is
// non-empty, then attaches add and detaches remove.
func (s *Store) UpdatePlaylist(ctx context.Context, userID int64, name, newName string, add, remove []int64) (Playlist, error) {
	newName = strings.TrimSpace(newName)

	var p Playlist
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		p, err = s.playlistRow(ctx, tx, userID, name)
		if err != nil {
			return err
		}

		if newName != "" && newName != p.Name {
			if _, err := tx.ExecContext(ctx,
				`UPDATE playlists SET name = $1 WHERE id = $2`, newName, p.ID); err != nil {
				if isUniqueViolation(err) {
					return ErrNameTaken
				}
				return fmt.Errorf("rename playlist: %w", err)
			}
			p.Name = newName
		}

		if len(remove) > 0 {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM playlist_songs WHERE playlist_id = $1 AND song_id = ANY($2)`,
				p.ID, pq.Array(remove)); err != nil {
				return fmt.Errorf("detach playlist songs: %w", err)
			}
		}

		return linkSongs(ctx, tx, "playlist_songs", "playlist_id", p.ID, add)
	})
	if err != nil {
		return Playlist{}, err
	}

	if p.Songs, err = s.PlaylistSongs(ctx, p.ID); err != nil {
		return Playlist{}, err
	}
	return p, nil
}

// DeletePlaylist removes userID's playlist called name. Association rows go
// with it; songs stay.
func (s *Store) DeletePlaylist(ctx context.Context, userID int64, name string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM playlists WHERE user_id = $1 AND name = $2`, userID, name)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

func (s *Store) playlistRow(ctx context.Context, q queryer, userID int64, name string) (Playlist, error) {
	var p Playlist
	err := q.QueryRowContext(ctx, `
		SELECT id, name, user_id, created_at
		FROM playlists
		WHERE user_id = $1 AND name = $2
	`, userID, strings.TrimSpace(name)).Scan(&p.ID, &p.Name, &p.UserID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Playlist{}, ErrPlaylistNotFound
	}
	if err != nil {
		return Playlist{}, fmt.Errorf("lookup playlist: %w", err)
	}
	return p, nil
}
