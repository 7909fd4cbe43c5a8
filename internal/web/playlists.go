package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"tunecrate/internal/forms"
	"tunecrate/internal/logging"
	"tunecrate/internal/store"
)

type updateView struct {
	Name string
	Form forms.UpdatePlaylist
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (s *Server) handleCreatePlaylistPage(w http.ResponseWriter, r *http.Request) {
	songs, err := s.songs.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "create_playlist", "New playlist", forms.Playlist{Choices: songChoices(songs)})
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	songs, err := s.songs.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	form, err := forms.ParsePlaylist(r, songChoices(songs))
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	errs, err := form.Validate(r.Context(), s.csrfCheck(r), s.playlists)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !errs.Valid() {
		s.invalid(w, r, "create_playlist", "New playlist", form, errs)
		return
	}

	ids, err := form.SongIDs()
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	playlist, err := s.playlists.Create(r.Context(), user.ID, form.Name, ids)
	if err != nil {
		if errors.Is(err, store.ErrNameTaken) {
			s.render(w, r, http.StatusUnprocessableEntity, "create_playlist", "New playlist", form,
				forms.FlashPrefix+forms.MsgNameTaken)
			return
		}
		s.serverError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info().Int64("playlist_id", playlist.ID).Msg("created playlist")
	http.Redirect(w, r, "/view_playlist/"+url.PathEscape(playlist.Name), http.StatusSeeOther)
}

func (s *Server) handleAllPlaylists(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	playlists, err := s.playlists.List(r.Context(), user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "all_playlists", "My playlists", playlists)
}

func (s *Server) handleViewPlaylist(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	name, ok := pathVar(r, "name")
	if !ok {
		s.notFound(w, r)
		return
	}
	playlist, err := s.playlists.View(r.Context(), user.ID, name)
	if err != nil {
		if errors.Is(err, store.ErrNameTaken) || errors.Is(err, store.ErrPlaylistNotFound) {
			s.notFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "view_playlist", playlist.Name, playlist)
}

// updateChoices splits the catalog into songs that can be added to
// playlist and songs that can be removed from it.
func updateChoices(all []store.Song, playlist store.Playlist) (add, remove []forms.Choice) {
	in := make(map[int64]bool, len(playlist.Songs))
	for _, song := range playlist.Songs {
		in[song.ID] = true
	}
	var notIn []store.Song
	for _, song := range all {
		if !in[song.ID] {
			notIn = append(notIn, song)
		}
	}
	return songChoices(notIn), songChoices(playlist.Songs)
}

// loadForUpdate fetches the named playlist and every song, answering 404
// itself when the playlist is missing.
func (s *Server) loadForUpdate(w http.ResponseWriter, r *http.Request) (store.Playlist, []store.Song, bool) {
	user, _ := currentUser(r)

	name, ok := pathVar(r, "name")
	if !ok {
		s.notFound(w, r)
		return store.Playlist{}, nil, false
	}
	playlist, err := s.playlists.Get(r.Context(), user.ID, name)
	if err != nil {
		if errors.Is(err, store.ErrPlaylistNotFound) {
			s.notFound(w, r)
			return store.Playlist{}, nil, false
		}
		s.serverError(w, r, err)
		return store.Playlist{}, nil, false
	}
	songs, err := s.songs.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return store.Playlist{}, nil, false
	}
	return playlist, songs, true
}

func (s *Server) handleUpdatePlaylistPage(w http.ResponseWriter, r *http.Request) {
	playlist, songs, ok := s.loadForUpdate(w, r)
	if !ok {
		return
	}
	add, remove := updateChoices(songs, playlist)
	view := updateView{Name: playlist.Name, Form: forms.UpdatePlaylist{AddChoices: add, RemoveChoices: remove}}
	s.render(w, r, http.StatusOK, "update_playlist", "Update "+playlist.Name, view)
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	playlist, songs, ok := s.loadForUpdate(w, r)
	if !ok {
		return
	}

	add, remove := updateChoices(songs, playlist)
	form, err := forms.ParseUpdatePlaylist(r, add, remove)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	view := updateView{Name: playlist.Name, Form: form}

	errs, err := form.Validate(r.Context(), s.csrfCheck(r), s.playlists)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !errs.Valid() {
		s.invalid(w, r, "update_playlist", "Update "+playlist.Name, view, errs)
		return
	}

	addIDs, removeIDs, err := form.IDs()
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	updated, err := s.playlists.Update(r.Context(), user.ID, playlist.Name, form.Name, addIDs, removeIDs)
	if err != nil {
		if errors.Is(err, store.ErrNameTaken) {
			s.render(w, r, http.StatusUnprocessableEntity, "update_playlist", "Update "+playlist.Name, view,
				forms.FlashPrefix+forms.MsgNameTaken)
			return
		}
		s.serverError(w, r, err)
		return
	}

	msg := fmt.Sprintf("Updated playlist %s", playlist.Name)
	if updated.Name != playlist.Name {
		msg = fmt.Sprintf("Updated playlist %s to %s", playlist.Name, updated.Name)
	}
	s.redirectWith(w, r, "/all_playlists", msg)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	name, ok := pathVar(r, "name")
	if !ok {
		s.notFound(w, r)
		return
	}

	form, err := forms.ParseButton(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	if errs := form.Validate(s.csrfCheck(r)); !errs.Valid() {
		s.redirectWith(w, r, "/all_playlists", errs.Messages()...)
		return
	}

	if err := s.playlists.Delete(r.Context(), user.ID, name); err != nil {
		if errors.Is(err, store.ErrPlaylistNotFound) {
			s.notFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.redirectWith(w, r, "/all_playlists", "Deleted playlist: "+name)
}
