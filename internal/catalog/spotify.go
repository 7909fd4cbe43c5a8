package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DefaultAPIURL is the Spotify Web API root.
	DefaultAPIURL = "https://api.spotify.com/v1"
	// DefaultTokenURL is the Spotify accounts token endpoint.
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// SpotifyConfig holds the credentials and endpoints for SpotifyClient.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	APIURL       string
	TokenURL     string
	Timeout      time.Duration
}

// SpotifyClient implements Client against the Spotify Web API using the
// client-credentials grant.
type SpotifyClient struct {
	httpClient *http.Client
	apiURL     string
}

var _ Client = (*SpotifyClient)(nil)

// NewSpotifyClient creates a Spotify client. Tokens are fetched lazily and
// refreshed by the oauth2 transport.
func NewSpotifyClient(cfg SpotifyConfig) *SpotifyClient {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}

	httpClient := creds.Client(context.Background())
	httpClient.Timeout = timeout

	return &SpotifyClient{
		httpClient: httpClient,
		apiURL:     strings.TrimRight(apiURL, "/"),
	}
}

type spotifySearchResponse struct {
	Tracks *spotifyTracksPage `json:"tracks,omitempty"`
}

type spotifyTracksPage struct {
	Items []spotifyTrack `json:"items"`
}

type spotifyRecommendationsResponse struct {
	Tracks []spotifyTrack `json:"tracks"`
}

type spotifyTrack struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Artists      []spotifySimpleArtist `json:"artists"`
	Album        *spotifySimpleAlbum   `json:"album,omitempty"`
	Duration     int                   `json:"duration_ms"`
	ExternalURLs spotifyExternalURLs   `json:"external_urls"`
}

type spotifySimpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifySimpleAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyExternalURLs struct {
	Spotify string `json:"spotify"`
}

// doRequest performs an authenticated GET against the API and decodes the
// JSON body into result.
func (c *SpotifyClient) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	apiURL := c.apiURL + "/" + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: spotify %s: %s", ErrUnavailable, resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// SearchTracks searches for tracks on Spotify
func (c *SpotifyClient) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	params := url.Values{
		"q":     []string{query},
		"type":  []string{"track"},
		"limit": []string{strconv.Itoa(limit)},
	}

	var result spotifySearchResponse
	if err := c.doRequest(ctx, "search", params, &result); err != nil {
		return nil, err
	}

	if result.Tracks == nil {
		return []Track{}, nil
	}

	tracks := make([]Track, 0, len(result.Tracks.Items))
	for _, st := range result.Tracks.Items {
		tracks = append(tracks, convertTrack(st))
	}
	return tracks, nil
}

// Recommendations asks Spotify for tracks similar to the seeds.
func (c *SpotifyClient) Recommendations(ctx context.Context, seedTrackIDs []string, limit int) ([]Track, error) {
	if len(seedTrackIDs) == 0 {
		return nil, fmt.Errorf("at least one seed track is required")
	}
	if len(seedTrackIDs) > MaxSeedTracks {
		return nil, fmt.Errorf("at most %d seed tracks are allowed, got %d", MaxSeedTracks, len(seedTrackIDs))
	}

	params := url.Values{
		"seed_tracks": []string{strings.Join(seedTrackIDs, ",")},
		"limit":       []string{strconv.Itoa(limit)},
	}

	var result spotifyRecommendationsResponse
	if err := c.doRequest(ctx, "recommendations", params, &result); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(result.Tracks))
	for _, st := range result.Tracks {
		tracks = append(tracks, convertTrack(st))
	}
	return tracks, nil
}

func convertTrack(st spotifyTrack) Track {
	artistName := ""
	if len(st.Artists) > 0 {
		artistName = st.Artists[0].Name
	}

	albumName := ""
	coverURL := ""
	if st.Album != nil {
		albumName = st.Album.Name
		coverURL = coverImage(st.Album.Images)
	}

	return Track{
		ExternalID:  st.ID,
		Title:       st.Name,
		Artist:      artistName,
		Album:       albumName,
		CoverURL:    coverURL,
		DurationMS:  st.Duration,
		Duration:    FormatDuration(st.Duration),
		ExternalURL: st.ExternalURLs.Spotify,
	}
}

// coverImage prefers the medium (second) album image Spotify returns.
func coverImage(images []spotifyImage) string {
	switch {
	case len(images) > 1:
		return images[1].URL
	case len(images) == 1:
		return images[0].URL
	default:
		return ""
	}
}
