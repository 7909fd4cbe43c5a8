package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"tunecrate/internal/app/recommendations"
	"tunecrate/internal/catalog"
	"tunecrate/internal/store"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubUserService struct {
	user       store.User
	loginErr   error
	registered []string
	remember   bool
	loggedOut  []string
}

func (s *stubUserService) Register(_ context.Context, email, username, _ string) (store.User, error) {
	s.registered = append(s.registered, username)
	return store.User{ID: 2, Email: email, Username: username}, nil
}

func (s *stubUserService) Login(_ context.Context, _, _ string, remember bool) (store.User, string, error) {
	if s.loginErr != nil {
		return store.User{}, "", s.loginErr
	}
	s.remember = remember
	return s.user, "tok", nil
}

func (s *stubUserService) Logout(_ context.Context, token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return nil
}

func (s *stubUserService) CurrentUser(_ context.Context, token string) (store.User, error) {
	if token != "tok" {
		return store.User{}, store.ErrUnauthorized
	}
	return s.user, nil
}

func (s *stubUserService) UsernameExists(context.Context, string) (bool, error) { return false, nil }
func (s *stubUserService) EmailExists(context.Context, string) (bool, error)    { return false, nil }

type stubSongService struct {
	songs   []store.Song
	track   catalog.Track
	found   bool
	created [][2]string
}

func (s *stubSongService) List(context.Context) ([]store.Song, error) { return s.songs, nil }

func (s *stubSongService) Lookup(context.Context, string) (catalog.Track, bool) { return s.track, s.found }

func (s *stubSongService) Exists(context.Context, string, string) (bool, error) { return false, nil }

func (s *stubSongService) GetOrCreate(_ context.Context, title, artist string) (store.Song, error) {
	s.created = append(s.created, [2]string{title, artist})
	return store.Song{ID: 1, Title: title, Artist: artist}, nil
}

type stubPlaylistService struct {
	playlists map[string]store.Playlist
	taken     map[string]bool
	updates   []string
	deleted   []string
	created   []int64
}

func (s *stubPlaylistService) List(context.Context, int64) ([]store.Playlist, error) {
	var out []store.Playlist
	for _, p := range s.playlists {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubPlaylistService) Get(_ context.Context, _ int64, name string) (store.Playlist, error) {
	p, ok := s.playlists[name]
	if !ok {
		return store.Playlist{}, store.ErrPlaylistNotFound
	}
	return p, nil
}

func (s *stubPlaylistService) View(_ context.Context, userID int64, name string) (store.Playlist, error) {
	if s.taken[name] {
		return store.Playlist{}, store.ErrNameTaken
	}
	if p, ok := s.playlists[name]; ok {
		return p, nil
	}
	return store.Playlist{ID: 9, Name: name, UserID: userID}, nil
}

func (s *stubPlaylistService) Create(_ context.Context, userID int64, name string, ids []int64) (store.Playlist, error) {
	s.created = ids
	return store.Playlist{ID: 5, Name: name, UserID: userID}, nil
}

func (s *stubPlaylistService) Update(_ context.Context, _ int64, name, newName string, _, _ []int64) (store.Playlist, error) {
	s.updates = append(s.updates, name+"->"+newName)
	p := s.playlists[name]
	if newName != "" {
		p.Name = newName
	}
	return p, nil
}

func (s *stubPlaylistService) Delete(_ context.Context, _ int64, name string) error {
	if _, ok := s.playlists[name]; !ok {
		return store.ErrPlaylistNotFound
	}
	s.deleted = append(s.deleted, name)
	return nil
}

func (s *stubPlaylistService) NameTaken(_ context.Context, name string) (bool, error) {
	return s.taken[name], nil
}

type stubRecommendationService struct {
	recs     map[int64]store.Recommendation
	err      error
	seeds    []string
	lastName string
}

func (s *stubRecommendationService) List(context.Context) ([]store.Recommendation, error) {
	var out []store.Recommendation
	for _, r := range s.recs {
		out = append(out, r)
	}
	return out, nil
}

func (s *stubRecommendationService) Get(_ context.Context, id int64) (store.Recommendation, error) {
	r, ok := s.recs[id]
	if !ok {
		return store.Recommendation{}, store.ErrRecommendationNotFound
	}
	return r, nil
}

func (s *stubRecommendationService) NameTaken(context.Context, string) (bool, error) { return false, nil }

func (s *stubRecommendationService) Generate(_ context.Context, name string, seeds []string) (store.Recommendation, error) {
	if s.err != nil {
		return store.Recommendation{}, s.err
	}
	s.lastName = name
	s.seeds = seeds
	return store.Recommendation{ID: 11, Name: name}, nil
}

type testEnv struct {
	server    *httptest.Server
	client    *http.Client
	users     *stubUserService
	songs     *stubSongService
	playlists *stubPlaylistService
	recs      *stubRecommendationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users: &stubUserService{user: store.User{ID: 1, Username: "ada"}},
		songs: &stubSongService{songs: []store.Song{
			{ID: 1, Title: "Yellow Submarine", Artist: "The Beatles", TrackID: "t1"},
			{ID: 2, Title: "Something", Artist: "The Beatles", TrackID: "t2"},
			{ID: 3, Title: "Local Only", Artist: "Nobody"},
		}},
		playlists: &stubPlaylistService{
			playlists: map[string]store.Playlist{
				"road trip": {ID: 3, Name: "road trip", UserID: 1, Songs: []store.Song{{ID: 1, Title: "Yellow Submarine", Artist: "The Beatles"}}},
			},
			taken: map[string]bool{},
		},
		recs: &stubRecommendationService{recs: map[int64]store.Recommendation{
			4: {ID: 4, Name: "mellow"},
		}},
	}

	srv := New(Config{SecretKey: testSecret}, env.users, env.songs, env.playlists, env.recs)
	env.server = httptest.NewServer(srv.Routes())
	t.Cleanup(env.server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	env.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return env
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	u, _ := url.Parse(e.server.URL)
	e.client.Jar.SetCookies(u, []*http.Cookie{{Name: loginCookie, Value: "tok", Path: "/"}})
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (e *testEnv) post(t *testing.T, path string, values url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, values)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

var csrfPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// csrfToken renders path and returns the token embedded in its form.
func (e *testEnv) csrfToken(t *testing.T, path string) string {
	t.Helper()
	_, body := e.get(t, path)
	m := csrfPattern.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no csrf token on %s", path)
	}
	return m[1]
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.get(t, "/health")
	if resp.StatusCode != http.StatusOK || body != "OK" {
		t.Fatalf("health = %d %q", resp.StatusCode, body)
	}
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/nope", "/view_recommendation/abc", "/view_recommendation/99"} {
		resp, body := env.get(t, path)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: status = %d, want 404", path, resp.StatusCode)
		}
		if !strings.Contains(body, "Page not found") {
			t.Fatalf("%s: expected 404 page", path)
		}
	}
}

func TestAuthRequiredRoutesRedirect(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/logout"},
		{http.MethodGet, "/create_playlist"},
		{http.MethodGet, "/all_playlists"},
		{http.MethodGet, "/view_playlist/road%20trip"},
		{http.MethodGet, "/update_playlist/road%20trip"},
		{http.MethodPost, "/delete_playlist/road%20trip"},
	}

	for _, tc := range tests {
		req, _ := http.NewRequest(tc.method, env.server.URL+tc.path, nil)
		resp, err := env.client.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusFound {
			t.Fatalf("%s %s: status = %d, want 302", tc.method, tc.path, resp.StatusCode)
		}
		loc := resp.Header.Get("Location")
		if !strings.HasPrefix(loc, "/login?next=") {
			t.Fatalf("%s %s: Location = %q", tc.method, tc.path, loc)
		}
	}

	if len(env.playlists.deleted) != 0 {
		t.Fatalf("anonymous delete must not reach the service")
	}

	_, body := env.get(t, "/login")
	if !strings.Contains(body, "Please log in to access this page.") {
		t.Fatalf("expected login flash on the login page")
	}
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	token := env.csrfToken(t, "/login?next=/all_playlists")
	resp, _ := env.post(t, "/login?next=/all_playlists", url.Values{
		"csrf_token":     {token},
		"email":          {"ada@example.com"},
		"password":       {"correct horse"},
		"stay_signed_in": {"on"},
	})

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/all_playlists" {
		t.Fatalf("Location = %q", loc)
	}
	if !env.users.remember {
		t.Fatalf("expected stay_signed_in to reach the service")
	}

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == loginCookie {
			session = c
		}
	}
	if session == nil || session.Value != "tok" || session.MaxAge <= 0 {
		t.Fatalf("expected persistent login cookie, got %+v", session)
	}

	_, body := env.get(t, "/")
	if !strings.Contains(body, "Signed in as ada") {
		t.Fatalf("expected signed-in nav")
	}
}

func TestLoginRejectsOffsiteNext(t *testing.T) {
	env := newTestEnv(t)

	token := env.csrfToken(t, "/login")
	resp, _ := env.post(t, "/login?next=//evil.example", url.Values{
		"csrf_token": {token},
		"email":      {"ada@example.com"},
		"password":   {"correct horse"},
	})
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("Location = %q, want /", loc)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.users.loginErr = store.ErrInvalidCredentials

	token := env.csrfToken(t, "/login")
	resp, body := env.post(t, "/login", url.Values{
		"csrf_token": {token},
		"email":      {"ada@example.com"},
		"password":   {"wrong horse"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Invalid username or password.") {
		t.Fatalf("expected invalid credentials flash")
	}
}

func TestMissingCSRFToken(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.post(t, "/login", url.Values{
		"email":    {"ada@example.com"},
		"password": {"correct horse"},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if !strings.Contains(body, "Error in form submission: The CSRF token is missing.") {
		t.Fatalf("expected csrf flash")
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	token := env.csrfToken(t, "/register")
	resp, _ := env.post(t, "/register", url.Values{
		"csrf_token":       {token},
		"email":            {"grace@example.com"},
		"username":         {"grace"},
		"password":         {"correct horse"},
		"confirm_password": {"correct horse"},
	})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("status = %d Location = %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if len(env.users.registered) != 1 || env.users.registered[0] != "grace" {
		t.Fatalf("expected one registration, got %v", env.users.registered)
	}
}

func TestSearchSong(t *testing.T) {
	env := newTestEnv(t)
	env.songs.track = catalog.Track{Title: "Come Together", Artist: "The Beatles"}
	env.songs.found = true

	token := env.csrfToken(t, "/")
	resp, body := env.post(t, "/", url.Values{"csrf_token": {token}, "search_query": {"Come Together Beatles"}})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if !strings.Contains(body, "Query not formatted correctly") {
		t.Fatalf("expected format error flash")
	}

	token = env.csrfToken(t, "/")
	resp, _ = env.post(t, "/", url.Values{"csrf_token": {token}, "search_query": {"Come Together, Beatles"}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("status = %d Location = %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if len(env.songs.created) != 1 || env.songs.created[0] != [2]string{"Come Together", "Beatles"} {
		t.Fatalf("unexpected GetOrCreate calls %v", env.songs.created)
	}

	_, body = env.get(t, "/")
	if !strings.Contains(body, "Added song successfully") {
		t.Fatalf("expected success flash after redirect")
	}
}

func TestCreatePlaylist(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	token := env.csrfToken(t, "/create_playlist")
	resp, _ := env.post(t, "/create_playlist", url.Values{
		"csrf_token": {token},
		"name":       {"long drive"},
		"songs":      {"1", "2"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/view_playlist/long%20drive" {
		t.Fatalf("Location = %q", loc)
	}
	if len(env.playlists.created) != 2 {
		t.Fatalf("expected two songs attached, got %v", env.playlists.created)
	}

	env.playlists.taken["road trip"] = true
	token = env.csrfToken(t, "/create_playlist")
	resp, body := env.post(t, "/create_playlist", url.Values{
		"csrf_token": {token},
		"name":       {"road trip"},
		"songs":      {"1"},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity || !strings.Contains(body, "Name already taken") {
		t.Fatalf("expected duplicate name rejection, got %d", resp.StatusCode)
	}
}

func TestViewPlaylistOwnedByOtherUser(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.playlists.taken["theirs"] = true

	resp, _ := env.get(t, "/view_playlist/theirs")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	resp, body := env.get(t, "/view_playlist/fresh")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "fresh") {
		t.Fatalf("expected new playlist page, got %d", resp.StatusCode)
	}
}

func TestUpdatePlaylist(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	token := env.csrfToken(t, "/update_playlist/road%20trip")
	resp, _ := env.post(t, "/update_playlist/road%20trip", url.Values{
		"csrf_token": {token},
		"name":       {"long drive"},
		"add_songs":  {"2"},
	})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/all_playlists" {
		t.Fatalf("status = %d Location = %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if len(env.playlists.updates) != 1 || env.playlists.updates[0] != "road trip->long drive" {
		t.Fatalf("unexpected updates %v", env.playlists.updates)
	}

	_, body := env.get(t, "/all_playlists")
	if !strings.Contains(body, "Updated playlist road trip to long drive") {
		t.Fatalf("expected rename flash")
	}

	token = env.csrfToken(t, "/update_playlist/road%20trip")
	_, body = env.post(t, "/update_playlist/road%20trip", url.Values{
		"csrf_token": {token},
		"add_songs":  {"1"},
	})
	if !strings.Contains(body, "&#39;1&#39; is not a valid choice for this field") {
		t.Fatalf("expected choice error for a song already in the playlist")
	}

	resp, _ = env.get(t, "/update_playlist/missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeletePlaylist(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	token := env.csrfToken(t, "/all_playlists")
	resp, _ := env.post(t, "/delete_playlist/road%20trip", url.Values{"csrf_token": {token}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/all_playlists" {
		t.Fatalf("status = %d Location = %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if len(env.playlists.deleted) != 1 || env.playlists.deleted[0] != "road trip" {
		t.Fatalf("unexpected deletes %v", env.playlists.deleted)
	}

	_, body := env.get(t, "/all_playlists")
	if !strings.Contains(body, "Deleted playlist: road trip") {
		t.Fatalf("expected delete flash")
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, _ := env.get(t, "/logout")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("status = %d Location = %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if len(env.users.loggedOut) != 1 || env.users.loggedOut[0] != "tok" {
		t.Fatalf("expected session deletion, got %v", env.users.loggedOut)
	}

	_, body := env.get(t, "/")
	if !strings.Contains(body, "You have been logged out") || strings.Contains(body, "Signed in as") {
		t.Fatalf("expected logged-out page with flash")
	}
}

func TestCreateRecommendation(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.get(t, "/create_recommendation")
	if strings.Contains(body, "Local Only") {
		t.Fatalf("songs without a catalog id must not be offered as seeds")
	}

	token := env.csrfToken(t, "/create_recommendation")
	resp, _ := env.post(t, "/create_recommendation", url.Values{
		"csrf_token": {token},
		"name":       {"sunny"},
		"songs":      {"t1", "t2"},
	})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/view_recommendation/11" {
		t.Fatalf("status = %d Location = %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if env.recs.lastName != "sunny" || len(env.recs.seeds) != 2 {
		t.Fatalf("unexpected Generate call %q %v", env.recs.lastName, env.recs.seeds)
	}

	env.recs.err = recommendations.ErrNoTracks
	token = env.csrfToken(t, "/create_recommendation")
	resp, body = env.post(t, "/create_recommendation", url.Values{
		"csrf_token": {token},
		"name":       {"gloomy"},
		"songs":      {"t1"},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity || !strings.Contains(body, "did not return any recommendations") {
		t.Fatalf("expected catalog failure flash, got %d", resp.StatusCode)
	}
}

func TestViewRecommendation(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/view_recommendation/4")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "mellow") {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Something") {
		t.Fatalf("expected all songs listed")
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/all_playlists":       "/all_playlists",
		"/view_playlist/a?b=1": "/view_playlist/a?b=1",
		"//evil.example":       "/",
		"https://evil.example": "/",
		"/\\evil.example":      "/",
		"relative":             "/",
	}
	for in, want := range tests {
		if got := safeNext(in); got != want {
			t.Fatalf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPlaylistNamesWithReservedCharacters(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.playlists.playlists["what"] = store.Playlist{ID: 20, Name: "what", UserID: 1}
	env.playlists.playlists["what?"] = store.Playlist{ID: 21, Name: "what?", UserID: 1}
	env.playlists.playlists["rock/pop"] = store.Playlist{ID: 22, Name: "rock/pop", UserID: 1}

	_, body := env.get(t, "/all_playlists")
	for _, link := range []string{
		`href="/view_playlist/what%3F"`,
		`href="/update_playlist/rock%2Fpop"`,
		`action="/delete_playlist/what%3F"`,
		`action="/delete_playlist/rock%2Fpop"`,
	} {
		if !strings.Contains(body, link) {
			t.Fatalf("expected %s in playlist list", link)
		}
	}

	resp, body := env.get(t, "/view_playlist/rock%2Fpop")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "rock/pop") {
		t.Fatalf("view rock/pop: status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `href="/update_playlist/rock%2Fpop"`) {
		t.Fatalf("expected escaped update link on the playlist page")
	}

	resp, body = env.get(t, "/update_playlist/what%3F")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `action="/update_playlist/what%3F"`) {
		t.Fatalf("update page for what?: status = %d", resp.StatusCode)
	}

	token := env.csrfToken(t, "/all_playlists")
	resp, _ = env.post(t, "/delete_playlist/what%3F", url.Values{"csrf_token": {token}})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("delete what?: status = %d, want 303", resp.StatusCode)
	}
	if len(env.playlists.deleted) != 1 || env.playlists.deleted[0] != "what?" {
		t.Fatalf("delete must hit what? only, got %v", env.playlists.deleted)
	}
	if _, ok := env.playlists.playlists["what"]; !ok {
		t.Fatalf("playlist what must survive")
	}

	token = env.csrfToken(t, "/create_playlist")
	resp, _ = env.post(t, "/create_playlist", url.Values{
		"csrf_token": {token},
		"name":       {"indie/folk"},
		"songs":      {"1"},
	})
	loc := resp.Header.Get("Location")
	if loc != "/view_playlist/indie%2Ffolk" {
		t.Fatalf("Location = %q", loc)
	}
	resp, body = env.get(t, loc)
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "indie/folk") {
		t.Fatalf("following create redirect: status = %d", resp.StatusCode)
	}
}

func TestListPagesRender(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	tests := []struct {
		path string
		want string
	}{
		{path: "/all_songs", want: "Yellow Submarine"},
		{path: "/all_playlists", want: "road trip"},
		{path: "/all_recommendations", want: "mellow"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			resp, body := env.get(t, tc.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if !strings.Contains(body, tc.want) {
				t.Fatalf("expected %q on %s", tc.want, tc.path)
			}
		})
	}
}
