// Package web serves the HTML pages: song search, playlists and
// recommendations.
package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"

	"tunecrate/internal/catalog"
	"tunecrate/internal/forms"
	"tunecrate/internal/http/middleware"
	"tunecrate/internal/logging"
	"tunecrate/internal/store"
)

// UserService captures the account operations needed by the handlers.
type UserService interface {
	Register(ctx context.Context, email, username, password string) (store.User, error)
	Login(ctx context.Context, email, password string, remember bool) (store.User, string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (store.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// SongService coordinates song search and caching.
type SongService interface {
	List(ctx context.Context) ([]store.Song, error)
	Lookup(ctx context.Context, query string) (catalog.Track, bool)
	Exists(ctx context.Context, title, artist string) (bool, error)
	GetOrCreate(ctx context.Context, title, artist string) (store.Song, error)
}

// PlaylistService coordinates playlist workflows for the signed-in user.
type PlaylistService interface {
	List(ctx context.Context, userID int64) ([]store.Playlist, error)
	Get(ctx context.Context, userID int64, name string) (store.Playlist, error)
	View(ctx context.Context, userID int64, name string) (store.Playlist, error)
	Create(ctx context.Context, userID int64, name string, songIDs []int64) (store.Playlist, error)
	Update(ctx context.Context, userID int64, name, newName string, add, remove []int64) (store.Playlist, error)
	Delete(ctx context.Context, userID int64, name string) error
	NameTaken(ctx context.Context, name string) (bool, error)
}

// RecommendationService coordinates recommendation workflows.
type RecommendationService interface {
	List(ctx context.Context) ([]store.Recommendation, error)
	Get(ctx context.Context, id int64) (store.Recommendation, error)
	NameTaken(ctx context.Context, name string) (bool, error)
	Generate(ctx context.Context, name string, seedTrackIDs []string) (store.Recommendation, error)
}

// Config holds the web layer settings.
type Config struct {
	// SecretKey signs the flash cookie and CSRF tokens.
	SecretKey string
	// SecureCookies marks cookies Secure and enables HSTS.
	SecureCookies bool
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users           UserService
	songs           SongService
	playlists       PlaylistService
	recommendations RecommendationService

	pages    *Pages
	sessions *sessionManager
	csrf     *forms.CSRFGuard
	secure   bool
}

// New configures a Server.
func New(cfg Config, users UserService, songs SongService, playlists PlaylistService, recommendations RecommendationService) *Server {
	return &Server{
		users:           users,
		songs:           songs,
		playlists:       playlists,
		recommendations: recommendations,
		pages:           NewPages(),
		sessions:        newSessionManager(cfg.SecretKey, cfg.SecureCookies),
		csrf:            forms.NewCSRFGuard(cfg.SecretKey, 0),
		secure:          cfg.SecureCookies,
	}
}

// Routes exposes the HTML handlers wrapped in the middleware chain.
func (s *Server) Routes() http.Handler {
	router := mux.NewRouter().UseEncodedPath()
	router.NotFoundHandler = http.HandlerFunc(s.notFound)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	router.PathPrefix("/static/").Handler(s.pages.Static()).Methods(http.MethodGet)

	router.HandleFunc("/register", s.handleRegisterPage).Methods(http.MethodGet)
	router.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	router.HandleFunc("/login", s.handleLoginPage).Methods(http.MethodGet)
	router.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	router.Handle("/logout", s.requireLogin(s.handleLogout)).Methods(http.MethodGet)

	router.HandleFunc("/", s.handleIndexPage).Methods(http.MethodGet)
	router.HandleFunc("/", s.handleIndex).Methods(http.MethodPost)
	router.HandleFunc("/all_songs", s.handleAllSongs).Methods(http.MethodGet)

	router.Handle("/create_playlist", s.requireLogin(s.handleCreatePlaylistPage)).Methods(http.MethodGet)
	router.Handle("/create_playlist", s.requireLogin(s.handleCreatePlaylist)).Methods(http.MethodPost)
	router.Handle("/all_playlists", s.requireLogin(s.handleAllPlaylists)).Methods(http.MethodGet)
	router.Handle("/view_playlist/{name}", s.requireLogin(s.handleViewPlaylist)).Methods(http.MethodGet)
	router.Handle("/update_playlist/{name}", s.requireLogin(s.handleUpdatePlaylistPage)).Methods(http.MethodGet)
	router.Handle("/update_playlist/{name}", s.requireLogin(s.handleUpdatePlaylist)).Methods(http.MethodPost)
	router.Handle("/delete_playlist/{name}", s.requireLogin(s.handleDeletePlaylist)).Methods(http.MethodPost)

	router.HandleFunc("/create_recommendation", s.handleCreateRecommendationPage).Methods(http.MethodGet)
	router.HandleFunc("/create_recommendation", s.handleCreateRecommendation).Methods(http.MethodPost)
	router.HandleFunc("/view_recommendation/{id}", s.handleViewRecommendation).Methods(http.MethodGet)
	router.HandleFunc("/all_recommendations", s.handleAllRecommendations).Methods(http.MethodGet)

	return alice.New(
		logging.RequestLogging,
		logging.Recovery,
		middleware.SecureHeaders(s.secure),
		s.withUser,
	).Then(router)
}

type ctxKey int

const userKey ctxKey = 0

func currentUser(r *http.Request) (store.User, bool) {
	user, ok := r.Context().Value(userKey).(store.User)
	return user, ok
}

// withUser resolves the login cookie into the request context.
func (s *Server) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := loginToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.users.CurrentUser(r.Context(), token)
		switch {
		case err == nil:
			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = logging.WithUserID(ctx, user.ID)
			r = r.WithContext(ctx)
		case errors.Is(err, store.ErrUnauthorized), errors.Is(err, store.ErrUserNotFound):
			s.sessions.clearLogin(w)
		default:
			logging.FromContext(r.Context()).Error().Err(err).Msg("resolve session")
		}
		next.ServeHTTP(w, r)
	})
}

// requireLogin sends anonymous visitors to the login page, remembering
// where they were headed.
func (s *Server) requireLogin(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := currentUser(r); !ok {
			if err := s.sessions.addFlash(w, r, "Please log in to access this page."); err != nil {
				logging.FromContext(r.Context()).Warn().Err(err).Msg("save flash")
			}
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		h(w, r)
	})
}

// pathVar returns the decoded path variable key. Routes match the encoded
// path so an escaped "/" stays inside one segment.
func pathVar(r *http.Request, key string) (string, bool) {
	v, err := url.PathUnescape(mux.Vars(r)[key])
	if err != nil {
		return "", false
	}
	return v, true
}

// safeNext accepts only same-site absolute paths.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}

// render writes page name with status. extra flashes are shown alongside
// any queued ones without being stored.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any, extra ...string) {
	flashes, nonce, err := s.sessions.prepare(w, r)
	if err != nil {
		logging.FromContext(r.Context()).Warn().Err(err).Msg("save flash session")
	}
	token, err := s.csrf.Issue(nonce)
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("issue csrf token")
	}

	page := Page{
		Title:     title,
		Flashes:   append(flashes, extra...),
		CSRFToken: token,
		Data:      data,
	}
	if user, ok := currentUser(r); ok {
		page.Nav = NavBar{IsLoggedIn: true, Username: user.Username}
	}

	var buf bytes.Buffer
	if err := s.pages.Execute(name, &buf, page); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Str("page", name).Msg("render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// invalid re-renders a form page with its validation errors.
func (s *Server) invalid(w http.ResponseWriter, r *http.Request, name, title string, data any, errs forms.Errors) {
	s.render(w, r, http.StatusUnprocessableEntity, name, title, data, errs.Messages()...)
}

// redirectWith flashes msgs and redirects to target.
func (s *Server) redirectWith(w http.ResponseWriter, r *http.Request, target string, msgs ...string) {
	if len(msgs) > 0 {
		if err := s.sessions.addFlash(w, r, msgs...); err != nil {
			logging.FromContext(r.Context()).Warn().Err(err).Msg("save flash")
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) csrfCheck(r *http.Request) forms.CSRFCheck {
	return s.csrf.Check(s.sessions.nonce(r))
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "404", "Not found", nil)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	s.render(w, r, http.StatusInternalServerError, "500", "Error", nil)
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Warn().Err(err).Msg("malformed form")
	http.Error(w, "Bad Request", http.StatusBadRequest)
}
