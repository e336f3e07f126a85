package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/dmitrijs2005/marketpulse/internal/server/config"
)

const stateCookieName = "oauth_state"

// oauthProvider is one configured federated login provider.
type oauthProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

// oauthProviders maps the provider path segment to its configuration.
// Providers with empty client credentials are not registered.
type oauthProviders struct {
	byName map[string]*oauthProvider
}

func newOAuthProviders(cfg *config.Config) *oauthProviders {
	p := &oauthProviders{byName: make(map[string]*oauthProvider)}

	register := func(name string, creds config.OAuthProvider, endpoint oauth2.Endpoint, scopes []string, userInfoURL string) {
		if creds.ClientID == "" || creds.ClientSecret == "" {
			return
		}
		p.byName[name] = &oauthProvider{
			config: &oauth2.Config{
				ClientID:     creds.ClientID,
				ClientSecret: creds.ClientSecret,
				Endpoint:     endpoint,
				RedirectURL:  fmt.Sprintf("%s/auth/%s/callback", cfg.PublicBaseURL, name),
				Scopes:       scopes,
			},
			userInfoURL: userInfoURL,
		}
	}

	register("google", cfg.Google, endpoints.Google,
		[]string{"openid", "email", "profile"},
		"https://www.googleapis.com/oauth2/v2/userinfo")
	register("facebook", cfg.Facebook, endpoints.Facebook,
		[]string{"email", "public_profile"},
		"https://graph.facebook.com/me?fields=id,name,email")
	register("linkedin", cfg.LinkedIn, endpoints.LinkedIn,
		[]string{"openid", "profile", "email"},
		"https://api.linkedin.com/v2/userinfo")
	register("github", cfg.GitHub, endpoints.GitHub,
		[]string{"read:user", "user:email"},
		"https://api.github.com/user")

	return p
}

func (p *oauthProviders) get(name string) (*oauthProvider, bool) {
	provider, ok := p.byName[name]
	return provider, ok
}

func newStateToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("state token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (h *Handler) handleFederatedStart(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.oauth.get(chi.URLParam(r, "provider"))
	if !ok {
		writeMessage(w, http.StatusNotFound, "Unknown provider")
		return
	}

	state, err := newStateToken()
	if err != nil {
		h.log.Error(r.Context(), "federated start failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, provider.config.AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) handleFederatedCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := chi.URLParam(r, "provider")
	provider, ok := h.oauth.get(name)
	if !ok {
		writeMessage(w, http.StatusNotFound, "Unknown provider")
		return
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeMessage(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Path: "/auth", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeMessage(w, http.StatusBadRequest, "Authorization code missing")
		return
	}

	token, err := provider.config.Exchange(ctx, code)
	if err != nil {
		h.log.Error(ctx, "oauth code exchange failed", "provider", name, "error", err)
		writeMessage(w, http.StatusBadGateway, "Provider login failed")
		return
	}

	email, displayName, err := fetchUserInfo(ctx, provider, token)
	if err != nil {
		h.log.Error(ctx, "oauth user info fetch failed", "provider", name, "error", err)
		writeMessage(w, http.StatusBadGateway, "Provider login failed")
		return
	}

	user, err := h.users.EnsureFederatedUser(ctx, email, displayName)
	if err != nil {
		h.log.Error(ctx, "federated user provisioning failed", "provider", name, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	accessToken, err := h.users.GenerateAccessToken(user.ID)
	if err != nil {
		h.log.Error(ctx, "access token generation failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.Redirect(w, r,
		fmt.Sprintf("%s/auth/callback?token=%s", h.frontendURL, accessToken),
		http.StatusFound)
}

// fetchUserInfo retrieves the email and display name from the provider's
// user info endpoint using the freshly exchanged token. LinkedIn and Google
// use OIDC-shaped payloads; Facebook and GitHub use the same field names.
func fetchUserInfo(ctx context.Context, provider *oauthProvider, token *oauth2.Token) (email, name string, err error) {
	client := provider.config.Client(ctx, token)
	resp, err := client.Get(provider.userInfoURL)
	if err != nil {
		return "", "", fmt.Errorf("user info request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("user info request: unexpected status %d", resp.StatusCode)
	}

	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", fmt.Errorf("user info decode: %w", err)
	}
	if info.Email == "" {
		return "", "", fmt.Errorf("provider did not return an email address")
	}
	if info.Name == "" {
		info.Name = info.Login
	}

	return info.Email, info.Name, nil
}
