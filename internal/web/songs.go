package web

import (
	"errors"
	"net/http"

	"tunecrate/internal/catalog"
	"tunecrate/internal/forms"
	"tunecrate/internal/store"
)

func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index", "Search", forms.Song{})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	form, err := forms.ParseSong(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	errs, err := form.Validate(r.Context(), s.csrfCheck(r), s.songs)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !errs.Valid() {
		s.invalid(w, r, "index", "Search", form, errs)
		return
	}

	title, artist := form.TitleArtist()
	if _, err := s.songs.GetOrCreate(r.Context(), title, artist); err != nil {
		if errors.Is(err, catalog.ErrNoResults) || errors.Is(err, catalog.ErrUnavailable) {
			s.render(w, r, http.StatusUnprocessableEntity, "index", "Search", form,
				forms.FlashPrefix+"Spotify did not return any data on your song")
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.redirectWith(w, r, "/", "Added song successfully")
}

func (s *Server) handleAllSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.songs.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "all_songs", "All songs", songs)
}

// songChoices offers songs keyed by their row id.
func songChoices(songs []store.Song) []forms.Choice {
	choices := make([]forms.Choice, 0, len(songs))
	for _, song := range songs {
		choices = append(choices, forms.Choice{Value: formatID(song.ID), Label: song.Label()})
	}
	return choices
}

// seedChoices offers songs keyed by catalog track id.
func seedChoices(songs []store.Song) []forms.Choice {
	choices := make([]forms.Choice, 0, len(songs))
	for _, song := range songs {
		if song.TrackID == "" {
			continue
		}
		choices = append(choices, forms.Choice{Value: song.TrackID, Label: song.Label()})
	}
	return choices
}
