package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tunecrate/internal/app/recommendations"
	"tunecrate/internal/forms"
	"tunecrate/internal/store"
)

type recommendationView struct {
	Recommendation store.Recommendation
	AllSongs       []store.Song
}

func (s *Server) handleCreateRecommendationPage(w http.ResponseWriter, r *http.Request) {
	songs, err := s.songs.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "create_recommendation", "New recommendation",
		forms.Recommendation{Choices: seedChoices(songs)})
}

func (s *Server) handleCreateRecommendation(w http.ResponseWriter, r *http.Request) {
	songs, err := s.songs.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	form, err := forms.ParseRecommendation(r, seedChoices(songs))
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	errs, err := form.Validate(r.Context(), s.csrfCheck(r), s.recommendations)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !errs.Valid() {
		s.invalid(w, r, "create_recommendation", "New recommendation", form, errs)
		return
	}

	rec, err := s.recommendations.Generate(r.Context(), form.Name, form.Songs)
	if err != nil {
		switch {
		case errors.Is(err, recommendations.ErrNoTracks):
			s.render(w, r, http.StatusUnprocessableEntity, "create_recommendation", "New recommendation", form,
				forms.FlashPrefix+"Spotify did not return any recommendations")
		case errors.Is(err, store.ErrNameTaken):
			s.render(w, r, http.StatusUnprocessableEntity, "create_recommendation", "New recommendation", form,
				forms.FlashPrefix+forms.MsgNameTaken)
		default:
			s.serverError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/view_recommendation/"+strconv.FormatInt(rec.ID, 10), http.StatusSeeOther)
}

func (s *Server) handleViewRecommendation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.notFound(w, r)
		return
	}

	rec, err := s.recommendations.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRecommendationNotFound) {
			s.notFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}

	songs, err := s.songs.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "view_recommendation", rec.Name, recommendationView{Recommendation: rec, AllSongs: songs})
}

func (s *Server) handleAllRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.recommendations.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "all_recommendations", "Recommendations", recs)
}
