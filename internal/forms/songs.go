package forms

import (
	"context"
	"net/http"
	"strings"

	"tunecrate/internal/catalog"
)

// SongLookup answers the catalog and cache questions of the search form.
type SongLookup interface {
	Lookup(ctx context.Context, query string) (catalog.Track, bool)
	Exists(ctx context.Context, title, artist string) (bool, error)
}

// Song is the "title, artist" search form on the home page.
type Song struct {
	Protected
	SearchQuery string `schema:"search_query" validate:"required"`
}

// ParseSong decodes a posted search form.
func ParseSong(r *http.Request) (Song, error) {
	var f Song
	if err := decode(r, &f); err != nil {
		return Song{}, err
	}
	f.SearchQuery = strings.TrimSpace(f.SearchQuery)
	return f, nil
}

// Validate requires a comma separated query whose top catalog hit is not
// cached yet.
func (f Song) Validate(ctx context.Context, csrf CSRFCheck, songs SongLookup) (Errors, error) {
	errs := newErrors(CSRFField, "search_query")
	f.checkCSRF(csrf, &errs)
	checkTags(f, &errs)
	if errs.Has("search_query") {
		return errs, nil
	}

	if !strings.Contains(f.SearchQuery, ",") {
		errs.Add("search_query", "Query not formatted correctly: <title>, <artist>")
		return errs, nil
	}

	track, found := songs.Lookup(ctx, f.SearchQuery)
	if !found {
		errs.Add("search_query", "Spotify did not return any data on your song")
		return errs, nil
	}

	exists, err := songs.Exists(ctx, track.Title, track.Artist)
	if err != nil {
		return errs, err
	}
	if exists {
		errs.Add("search_query", "Song already exists in database")
	}
	return errs, nil
}

// TitleArtist splits the query into its title and artist parts.
func (f Song) TitleArtist() (string, string) {
	parts := strings.Split(f.SearchQuery, ",")
	if len(parts) < 2 {
		return strings.TrimSpace(parts[0]), ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}
