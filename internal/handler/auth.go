package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/timedeposit/timedeposit/internal/config"
	"github.com/timedeposit/timedeposit/internal/ctxkeys"
	"github.com/timedeposit/timedeposit/internal/service"
	"github.com/timedeposit/timedeposit/internal/ui"
	"github.com/timedeposit/timedeposit/internal/ui/pages"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookie = "oauth_state"
	oauthFailed      = "Sign-in failed. Please try again."

	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	githubUserURL     = "https://api.github.com/user"
	githubEmailsURL   = "https://api.github.com/user/emails"
)

var errNoEmail = errors.New("provider returned no email")

type authHandler struct {
	authService       *service.AuthService
	googleOAuthConfig *oauth2.Config
	githubOAuthConfig *oauth2.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *authHandler {
	return &authHandler{
		authService: authService,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		githubOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/github/callback",
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	if ui.IsHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GoogleAuth redirects user to Google OAuth consent screen
func (h *authHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	h.redirectToProvider(w, r, h.googleOAuthConfig)
}

// GoogleCallback handles the OAuth callback from Google
func (h *authHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	h.callback(w, r, "google", h.googleOAuthConfig, fetchGoogleIdentity)
}

// GitHubAuth redirects user to GitHub OAuth consent screen
func (h *authHandler) GitHubAuth(w http.ResponseWriter, r *http.Request) {
	h.redirectToProvider(w, r, h.githubOAuthConfig)
}

// GitHubCallback handles the OAuth callback from GitHub
func (h *authHandler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	h.callback(w, r, "github", h.githubOAuthConfig, fetchGitHubIdentity)
}

func (h *authHandler) redirectToProvider(w http.ResponseWriter, r *http.Request, oc *oauth2.Config) {
	if oc.ClientID == "" {
		ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
		return
	}

	state, err := generateOAuthState()
	if err != nil {
		slog.Error("failed to generate oauth state", "error", err)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Landing(oauthFailed))
		return
	}

	cfg := ctxkeys.Config(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg != nil && cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	http.Redirect(w, r, oc.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

type identityFetcher func(ctx context.Context, client *http.Client) (service.OAuthIdentity, error)

func (h *authHandler) callback(w http.ResponseWriter, r *http.Request, provider string, oc *oauth2.Config, fetch identityFetcher) {
	ctx := r.Context()
	log := slog.With("provider", provider)

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		log.Warn("oauth state validation failed", "error", err)
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Landing(oauthFailed))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		log.Warn("oauth callback missing code", "error_param", r.URL.Query().Get("error"))
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Landing(oauthFailed))
		return
	}

	token, err := oc.Exchange(ctx, code)
	if err != nil {
		log.Error("oauth token exchange failed", "error", err)
		ui.RenderStatus(w, r, http.StatusBadGateway, pages.Landing(oauthFailed))
		return
	}

	identity, err := fetch(ctx, oc.Client(ctx, token))
	if errors.Is(err, errNoEmail) {
		log.Warn("oauth provider returned no email")
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Landing("Your account has no verified email address we can use."))
		return
	}
	if err != nil {
		log.Error("failed to fetch oauth identity", "error", err)
		ui.RenderStatus(w, r, http.StatusBadGateway, pages.Landing(oauthFailed))
		return
	}
	identity.Provider = provider

	user, err := h.authService.AuthenticateOAuth(ctx, identity)
	if err != nil {
		log.Error("oauth authentication failed", "error", err, "email", identity.Email)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Landing(oauthFailed))
		return
	}

	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		log.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Landing(oauthFailed))
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(h.authService.JWTExpiry()))

	log.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
}

func fetchGoogleIdentity(ctx context.Context, client *http.Client) (service.OAuthIdentity, error) {
	var info struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	err := getJSON(ctx, client, googleUserInfoURL, &info)
	if err != nil {
		return service.OAuthIdentity{}, err
	}
	if info.Email == "" {
		return service.OAuthIdentity{}, errNoEmail
	}

	return service.OAuthIdentity{Email: info.Email, Name: info.Name, AvatarURL: info.Picture}, nil
}

func fetchGitHubIdentity(ctx context.Context, client *http.Client) (service.OAuthIdentity, error) {
	var info struct {
		Email     string `json:"email"`
		Name      string `json:"name"`
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	}
	err := getJSON(ctx, client, githubUserURL, &info)
	if err != nil {
		return service.OAuthIdentity{}, err
	}

	// Private emails are only listed by the emails endpoint.
	if info.Email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		err = getJSON(ctx, client, githubEmailsURL, &emails)
		if err != nil {
			return service.OAuthIdentity{}, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				info.Email = e.Email
				break
			}
		}
	}
	if info.Email == "" {
		return service.OAuthIdentity{}, errNoEmail
	}

	name := info.Name
	if name == "" {
		name = info.Login
	}
	return service.OAuthIdentity{Email: info.Email, Name: name, AvatarURL: info.AvatarURL}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// generateOAuthState creates a random state token that ties the callback to this browser.
func generateOAuthState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
