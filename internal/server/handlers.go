package server

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"

	"soundscope/internal/auth"
	"soundscope/internal/shared"
)

// stateCookie carries the OAuth state between the login redirect and the
// provider callback.
const stateCookie = "oauth_state"

// Exchanger performs the confidential code-for-token exchange with the
// provider. Implemented by services.SpotifyService.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (string, error)
	ClientID() string
	RedirectURI() string
}

// Handlers contains the HTTP handlers for the auth backend.
type Handlers struct {
	exchanger   Exchanger
	frontendURL string
	logger      *log.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(exchanger Exchanger, frontendURL string, logger *log.Logger) *Handlers {
	return &Handlers{
		exchanger:   exchanger,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// Login redirects the browser to the provider's authorize endpoint
// (GET /api/spotify/login). A random state is set as a short-lived cookie
// and validated on the callback.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	state := shared.GenerateID()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})

	loginURL := auth.LoginURL(h.exchanger.ClientID(), h.exchanger.RedirectURI(), auth.Scopes, state)
	http.Redirect(w, r, loginURL, http.StatusFound)
}

// Callback exchanges the provider's authorization code for an access token
// and hands it to the frontend via URL fragment (GET /api/spotify/callback).
//
// Fragments are never sent to servers, so the token reaches the browser
// without a second network hop. Any failure is terminal for the attempt:
// a 500 with a plain-text body, no retry.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || r.URL.Query().Get("state") != cookie.Value {
		h.logger.Warn("callback state mismatch")
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.logger.Warn("callback received without authorization code",
			"error", r.URL.Query().Get("error"))
		h.fail(w)
		return
	}

	token, err := h.exchanger.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("token exchange failed", "error", err)
		h.fail(w)
		return
	}

	http.Redirect(w, r, h.frontendURL+"/#access_token="+token, http.StatusFound)
}

func (h *Handlers) fail(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte("Authentication failed."))
}
