package main

import (
	"database/sql"
	"net/http"

	"github.com/rs/zerolog"

	"tunecrate/internal/app/playlists"
	"tunecrate/internal/app/recommendations"
	"tunecrate/internal/app/songs"
	"tunecrate/internal/app/users"
	"tunecrate/internal/catalog"
	"tunecrate/internal/store"
	"tunecrate/internal/web"
)

func newHTTPHandler(cfg Config, db *sql.DB, logger zerolog.Logger) http.Handler {
	dataStore := store.New(db)

	spotify := catalog.NewSpotifyClient(catalog.SpotifyConfig{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		APIURL:       cfg.SpotifyAPIURL,
		TokenURL:     cfg.SpotifyTokenURL,
	})

	userSvc := users.New(dataStore)
	songSvc := songs.New(dataStore, spotify, logger)
	playlistSvc := playlists.New(dataStore)
	recommendationSvc := recommendations.New(dataStore, spotify, logger)

	srv := web.New(web.Config{
		SecretKey:     cfg.SecretKey,
		SecureCookies: cfg.Production,
	}, userSvc, songSvc, playlistSvc, recommendationSvc)
	return srv.Routes()
}
