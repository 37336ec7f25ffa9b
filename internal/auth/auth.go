// Package auth implements the cookie-session login gate. Credentials
// are a static allowlist; the session only records which user is
// signed in.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "roster-session"
	sessionUser = "user"
)

// ErrInvalidCredentials reports a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Credentials is one allowlisted login.
type Credentials struct {
	Username string
	Password string
}

// DefaultUsers is the built-in allowlist, used when no credentials are
// configured.
var DefaultUsers = []Credentials{
	{Username: "admin", Password: "password"},
	{Username: "manager", Password: "password"},
}

// Manager validates logins against the allowlist and tracks the signed
// in user in a cookie session.
type Manager struct {
	store *sessions.CookieStore
	users []Credentials
}

// NewManager builds a Manager keyed with the given session secret. An
// empty user list falls back to DefaultUsers.
func NewManager(secret []byte, users []Credentials) *Manager {
	if len(users) == 0 {
		users = DefaultUsers
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, users: users}
}

// Login checks the credentials and, on success, writes the session
// cookie.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, username, password string) error {
	if !m.check(username, password) {
		return ErrInvalidCredentials
	}
	sess, _ := m.store.Get(r, sessionName)
	sess.Values[sessionUser] = username
	return sess.Save(r, w)
}

func (m *Manager) check(username, password string) bool {
	for _, u := range m.users {
		userOK := subtle.ConstantTimeCompare([]byte(u.Username), []byte(username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1
		if userOK && passOK {
			return true
		}
	}
	return false
}

// Logout clears the session cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, sessionName)
	delete(sess.Values, sessionUser)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// CurrentUser returns the signed-in username, or "" when the request
// carries no valid session.
func (m *Manager) CurrentUser(r *http.Request) string {
	sess, err := m.store.Get(r, sessionName)
	if err != nil {
		return ""
	}
	user, _ := sess.Values[sessionUser].(string)
	return user
}

// RequireAuth rejects unauthenticated requests with 401.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.CurrentUser(r) == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Not authenticated"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
