package security

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"webservicepoc/src/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Provider is one registered identity provider.
type Provider struct {
	Config      *oauth2.Config
	UserInfoURL string
}

func callbackURL(redirectBaseURL string, registrationID string) string {
	return strings.TrimRight(redirectBaseURL, "/") + "/login/oauth2/code/" + registrationID
}

func GoogleProvider(clientID string, clientSecret string, redirectBaseURL string) Provider {
	return Provider{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  callbackURL(redirectBaseURL, "google"),
			Scopes:       []string{"profile", "email"},
		},
		UserInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
	}
}

func NaverProvider(clientID string, clientSecret string, redirectBaseURL string) Provider {
	return Provider{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   "https://nid.naver.com/oauth2.0/authorize",
				TokenURL:  "https://nid.naver.com/oauth2.0/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: callbackURL(redirectBaseURL, "naver"),
			Scopes:      []string{"name", "email", "profile_image"},
		},
		UserInfoURL: "https://openapi.naver.com/v1/nid/me",
	}
}

// UserLoader is satisfied by OAuth2UserService.
type UserLoader interface {
	LoadUser(ctx context.Context, registrationID string, attributes map[string]any) (*domain.Principal, error)
}

// OAuth2Login serves the authorization-code flow and logout.
type OAuth2Login struct {
	logger     *slog.Logger
	sessions   *SessionStore
	users      UserLoader
	providers  map[string]Provider
	httpClient *http.Client
}

func NewOAuth2Login(logger *slog.Logger, sessions *SessionStore, users UserLoader, providers map[string]Provider) *OAuth2Login {
	return &OAuth2Login{
		logger:     logger,
		sessions:   sessions,
		users:      users,
		providers:  providers,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// LoginURL is the authorization route of a registered provider, google
// first, then the lowest registration id.
func (l *OAuth2Login) LoginURL() string {
	if _, ok := l.providers["google"]; ok {
		return authorizationPath("google")
	}

	ids := make([]string, 0, len(l.providers))
	for id := range l.providers {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ""
	}
	slices.Sort(ids)
	return authorizationPath(ids[0])
}

func authorizationPath(registrationID string) string {
	return "/oauth2/authorization/" + registrationID
}

func (l *OAuth2Login) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /oauth2/authorization/{registrationId}", l.Authorize)
	mux.HandleFunc("GET /login/oauth2/code/{registrationId}", l.Callback)
	mux.HandleFunc("GET /logout", l.Logout)
	mux.HandleFunc("POST /logout", l.Logout)
}

// Authorize redirects the browser to the provider's consent page.
func (l *OAuth2Login) Authorize(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationId")
	provider, ok := l.providers[registrationID]
	if !ok {
		http.Error(w, "Unknown OAuth2 provider", http.StatusNotFound)
		return
	}

	state, err := l.sessions.NewState(w, r)
	if err != nil {
		l.logger.Error("Failed to start OAuth2 login", "provider", registrationID, "error", err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, provider.Config.AuthCodeURL(state), http.StatusFound)
}

// Callback finishes the flow: checks state, exchanges the code, loads the
// profile and stores the principal in the session.
func (l *OAuth2Login) Callback(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationId")
	provider, ok := l.providers[registrationID]
	if !ok {
		http.Error(w, "Unknown OAuth2 provider", http.StatusNotFound)
		return
	}

	query := r.URL.Query()
	if providerErr := query.Get("error"); providerErr != "" {
		l.logger.Warn("OAuth2 provider refused login", "provider", registrationID, "error", providerErr)
		http.Error(w, domain.ErrUnauthenticated.Error(), http.StatusUnauthorized)
		return
	}

	if err := l.sessions.ConsumeState(r, query.Get("state")); err != nil {
		l.logger.Warn("OAuth2 state mismatch", "provider", registrationID)
		if clearErr := l.sessions.Clear(w, r); clearErr != nil {
			l.logger.Error("Failed to clear session", "error", clearErr)
		}
		http.Error(w, domain.ErrUnauthenticated.Error(), http.StatusUnauthorized)
		return
	}

	principal, err := l.loadPrincipal(r.Context(), registrationID, provider, query.Get("code"))
	if err != nil {
		l.logger.Error("OAuth2 login failed", "provider", registrationID, "error", err)
		status := http.StatusUnauthorized
		if !errors.Is(err, domain.ErrUnauthenticated) && !errors.Is(err, domain.ErrValidation) {
			status = http.StatusBadGateway
		}
		if clearErr := l.sessions.Clear(w, r); clearErr != nil {
			l.logger.Error("Failed to clear session", "error", clearErr)
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	if err := l.sessions.SetPrincipal(w, r, principal); err != nil {
		l.logger.Error("Failed to store principal", "error", err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (l *OAuth2Login) loadPrincipal(ctx context.Context, registrationID string, provider Provider, code string) (*domain.Principal, error) {
	if code == "" {
		return nil, fmt.Errorf("OAuth2Login.Callback - missing code: %w", domain.ErrUnauthenticated)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, l.httpClient)

	token, err := provider.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("OAuth2Login.Callback - code exchange failed: %w", err)
	}

	attributes, err := l.fetchUserInfo(ctx, provider, token)
	if err != nil {
		return nil, err
	}

	return l.users.LoadUser(ctx, registrationID, attributes)
}

func (l *OAuth2Login) fetchUserInfo(ctx context.Context, provider Provider, token *oauth2.Token) (map[string]any, error) {
	client := provider.Config.Client(ctx, token)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("OAuth2Login.fetchUserInfo - failed to build request: %w", err)
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("OAuth2Login.fetchUserInfo - request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return nil, fmt.Errorf("OAuth2Login.fetchUserInfo - status %d: %s", response.StatusCode, body)
	}

	var attributes map[string]any
	if err := json.NewDecoder(response.Body).Decode(&attributes); err != nil {
		return nil, fmt.Errorf("OAuth2Login.fetchUserInfo - invalid payload: %w", err)
	}

	return attributes, nil
}

// Logout always ends at the landing page.
func (l *OAuth2Login) Logout(w http.ResponseWriter, r *http.Request) {
	if err := l.sessions.Clear(w, r); err != nil {
		l.logger.Error("Failed to clear session", "error", err)
	}

	http.Redirect(w, r, "/", http.StatusFound)
}
