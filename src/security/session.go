package security

import (
	"encoding/gob"
	"fmt"
	"net/http"

	"webservicepoc/src/domain"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName  = "webservicepoc_session"
	principalKey = "principal"
	stateKey     = "oauth_state"
)

func init() {
	gob.Register(domain.Principal{})
}

// SessionStore keeps the logged in principal and the pending OAuth2 state
// in a signed cookie.
type SessionStore struct {
	store sessions.Store
}

func NewSessionStore(secret []byte, secure bool) *SessionStore {
	cookieStore := sessions.NewCookieStore(secret)
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionStore{store: cookieStore}
}

// session never fails: an unreadable cookie yields a fresh session.
func (s *SessionStore) session(r *http.Request) *sessions.Session {
	session, _ := s.store.Get(r, sessionName)
	return session
}

// Principal returns nil for anonymous requests.
func (s *SessionStore) Principal(r *http.Request) (*domain.Principal, error) {
	principal, ok := s.session(r).Values[principalKey].(domain.Principal)
	if !ok {
		return nil, nil
	}
	return &principal, nil
}

func (s *SessionStore) SetPrincipal(w http.ResponseWriter, r *http.Request, principal *domain.Principal) error {
	session := s.session(r)
	session.Values[principalKey] = *principal

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("SessionStore.SetPrincipal - failed to save session: %w", err)
	}
	return nil
}

// Clear drops every value and expires the cookie.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session := s.session(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("SessionStore.Clear - failed to save session: %w", err)
	}
	return nil
}

// NewState generates the anti-forgery state for an authorization redirect
// and saves it in the session.
func (s *SessionStore) NewState(w http.ResponseWriter, r *http.Request) (string, error) {
	state := uuid.NewString()

	session := s.session(r)
	session.Values[stateKey] = state

	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("SessionStore.NewState - failed to save session: %w", err)
	}
	return state, nil
}

// ConsumeState checks the state returned by the provider. The stored value
// is removed in memory; the caller must Save or Clear the session on every
// outcome so it is never accepted twice.
func (s *SessionStore) ConsumeState(r *http.Request, state string) error {
	session := s.session(r)
	expected, ok := session.Values[stateKey].(string)
	delete(session.Values, stateKey)

	if !ok || state == "" || state != expected {
		return fmt.Errorf("SessionStore.ConsumeState - state mismatch: %w", domain.ErrUnauthenticated)
	}
	return nil
}
