package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Recommendation is a named list of songs generated from seed tracks.
type Recommendation struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Songs     []Song    `json:"songs"`
}

// ListRecommendations returns every recommendation, songs included.
func (s *Store) ListRecommendations(ctx context.Context) ([]Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM recommendations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}

	var recs []Recommendation
	for rows.Next() {
		var r Recommendation
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}
	rows.Close()

	for i := range recs {
		songs, err := s.RecommendationSongs(ctx, recs[i].ID)
		if err != nil {
			return nil, err
		}
		recs[i].Songs = songs
	}
	return recs, nil
}

// RecommendationByID loads one recommendation with its songs.
func (s *Store) RecommendationByID(ctx context.Context, id int64) (Recommendation, error) {
	var r Recommendation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM recommendations WHERE id = $1`, id).
		Scan(&r.ID, &r.Name, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Recommendation{}, ErrRecommendationNotFound
	}
	if err != nil {
		return Recommendation{}, fmt.Errorf("lookup recommendation: %w", err)
	}

	if r.Songs, err = s.RecommendationSongs(ctx, r.ID); err != nil {
		return Recommendation{}, err
	}
	return r, nil
}

// RecommendationNameExists reports whether a recommendation is called name.
func (s *Store) RecommendationNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM recommendations WHERE name = $1)`,
		strings.TrimSpace(name)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check recommendation name: %w", err)
	}
	return exists, nil
}

// RecommendationSongs returns the songs attached to a recommendation.
func (s *Store) RecommendationSongs(ctx context.Context, id int64) ([]Song, error) {
	return linkedSongs(ctx, s.db, "recommendation_songs", "recommendation_id", id)
}

// CreateRecommendation inserts a recommendation called name with songIDs
// attached.
func (s *Store) CreateRecommendation(ctx context.Context, name string, songIDs []int64) (Recommendation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Recommendation{}, fmt.Errorf("recommendation name is required")
	}

	r := Recommendation{Name: name}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO recommendations (name)
			VALUES ($1)
			RETURNING id, created_at
		`, name).Scan(&r.ID, &r.CreatedAt); err != nil {
			if isUniqueViolation(err) {
				return ErrNameTaken
			}
			return fmt.Errorf("insert recommendation: %w", err)
		}
		return linkSongs(ctx, tx, "recommendation_songs", "recommendation_id", r.ID, songIDs)
	})
	if err != nil {
		return Recommendation{}, err
	}

	if r.Songs, err = s.RecommendationSongs(ctx, r.ID); err != nil {
		return Recommendation{}, err
	}
	return r, nil
}

// GetOrCreateRecommendation returns the recommendation called name, creating
// it with songIDs attached when it does not exist. The bool reports whether
// a row was inserted.
func (s *Store) GetOrCreateRecommendation(ctx context.Context, name string, songIDs []int64) (Recommendation, bool, error) {
	name = strings.TrimSpace(name)

	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM recommendations WHERE name = $1`, name).Scan(&id)
	switch {
	case err == nil:
		r, err := s.RecommendationByID(ctx, id)
		return r, false, err
	case !errors.Is(err, sql.ErrNoRows):
		return Recommendation{}, false, fmt.Errorf("lookup recommendation: %w", err)
	}

	r, err := s.CreateRecommendation(ctx, name, songIDs)
	if err != nil {
		return Recommendation{}, false, err
	}
	return r, true, nil
}
