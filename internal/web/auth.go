package web

import (
	"errors"
	"net/http"

	"tunecrate/internal/app/users"
	"tunecrate/internal/forms"
	"tunecrate/internal/logging"
	"tunecrate/internal/store"
)

type loginView struct {
	Form forms.Login
	Next string
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "registration", "Register", forms.Registration{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	form, err := forms.ParseRegistration(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	errs, err := form.Validate(r.Context(), s.csrfCheck(r), s.users)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !errs.Valid() {
		s.invalid(w, r, "registration", "Register", form, errs)
		return
	}

	user, err := s.users.Register(r.Context(), form.Email, form.Username, form.Password)
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			s.render(w, r, http.StatusConflict, "registration", "Register", form,
				forms.FlashPrefix+"Username already taken")
			return
		}
		s.serverError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info().Int64("user_id", user.ID).Msg("registered user")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", "Log in", loginView{Next: r.URL.Query().Get("next")})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	form, err := forms.ParseLogin(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	view := loginView{Form: form, Next: next}

	if errs := form.Validate(s.csrfCheck(r)); !errs.Valid() {
		s.invalid(w, r, "login", "Log in", view, errs)
		return
	}

	user, token, err := s.users.Login(r.Context(), form.Email, form.Password, form.StaySignedIn)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			s.render(w, r, http.StatusOK, "login", "Log in", view, "Invalid username or password.")
			return
		}
		s.serverError(w, r, err)
		return
	}

	ttl := users.SessionTTL
	if form.StaySignedIn {
		ttl = users.RememberTTL
	}
	s.sessions.setLogin(w, token, ttl, form.StaySignedIn)

	logging.FromContext(r.Context()).Info().Int64("user_id", user.ID).Msg("user logged in")
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), loginToken(r)); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.sessions.clearLogin(w)
	s.redirectWith(w, r, "/", "You have been logged out")
}
