// Package catalog talks to the external music catalog used to look up and
// recommend tracks.
package catalog

import (
	"context"
	"errors"
	"fmt"
)

// MaxSeedTracks is the most seed tracks the catalog accepts for one
// recommendations call.
const MaxSeedTracks = 5

var (
	// ErrUnavailable wraps any non-success answer from the catalog.
	ErrUnavailable = errors.New("catalog unavailable")
	// ErrNoResults indicates the catalog answered with no tracks.
	ErrNoResults = errors.New("catalog returned no tracks")
)

// Track is one catalog track, already shaped for storage as a song.
type Track struct {
	ExternalID  string `json:"external_id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	CoverURL    string `json:"cover_url,omitempty"`
	DurationMS  int    `json:"duration_ms"`
	Duration    string `json:"duration"`
	ExternalURL string `json:"external_url,omitempty"`
}

// Client defines the catalog operations the application needs.
type Client interface {
	// SearchTracks returns up to limit tracks matching query.
	SearchTracks(ctx context.Context, query string, limit int) ([]Track, error)

	// Recommendations returns up to limit tracks seeded from the given
	// catalog track IDs.
	Recommendations(ctx context.Context, seedTrackIDs []string, limit int) ([]Track, error)
}

// FormatDuration renders a millisecond length as m:ss.
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
