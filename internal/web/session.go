package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	loginCookie  = "tunecrate_session"
	flashSession = "tunecrate_flash"
	nonceKey     = "csrf_nonce"
)

// sessionManager owns the two cookies: the opaque login token backed by
// the sessions table, and a signed gorilla session holding flashes and the
// CSRF nonce.
type sessionManager struct {
	store  *sessions.CookieStore
	secure bool
}

func newSessionManager(secret string, secure bool) *sessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &sessionManager{store: store, secure: secure}
}

// session returns the flash session, starting a fresh one when the cookie
// is missing or was signed with another key.
func (m *sessionManager) session(r *http.Request) *sessions.Session {
	sess, _ := m.store.Get(r, flashSession)
	return sess
}

// addFlash queues messages for the next rendered page.
func (m *sessionManager) addFlash(w http.ResponseWriter, r *http.Request, msgs ...string) error {
	sess := m.session(r)
	for _, msg := range msgs {
		sess.AddFlash(msg)
	}
	return sess.Save(r, w)
}

// prepare pops the pending flashes and returns the browser's CSRF nonce,
// minting one on first use.
func (m *sessionManager) prepare(w http.ResponseWriter, r *http.Request) ([]string, string, error) {
	sess := m.session(r)

	var flashes []string
	for _, f := range sess.Flashes() {
		if msg, ok := f.(string); ok {
			flashes = append(flashes, msg)
		}
	}

	nonce, _ := sess.Values[nonceKey].(string)
	if nonce == "" {
		nonce = uuid.NewString()
		sess.Values[nonceKey] = nonce
	}

	if err := sess.Save(r, w); err != nil {
		return nil, "", err
	}
	return flashes, nonce, nil
}

// nonce reads the CSRF nonce without minting one.
func (m *sessionManager) nonce(r *http.Request) string {
	nonce, _ := m.session(r).Values[nonceKey].(string)
	return nonce
}

// setLogin stores the login token. remember makes the cookie outlive the
// browser session.
func (m *sessionManager) setLogin(w http.ResponseWriter, token string, ttl time.Duration, remember bool) {
	c := &http.Cookie{
		Name:     loginCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		c.Expires = time.Now().Add(ttl)
		c.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, c)
}

func (m *sessionManager) clearLogin(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     loginCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func loginToken(r *http.Request) string {
	c, err := r.Cookie(loginCookie)
	if err != nil {
		return ""
	}
	return c.Value
}
