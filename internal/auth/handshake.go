// Package auth implements the three-step OAuth code-exchange handshake.
//
// The flow is linear: the client is redirected to the provider's authorize
// endpoint, the provider calls back with a one-time code, and the backend
// exchanges the code for an access token using the confidential client
// secret. The token reaches the client embedded in a URL fragment, which
// browsers never transmit to servers. Failure at the exchange step is
// terminal for the attempt; there is no automatic retry and no refresh.
package auth

import (
	"fmt"
	"net/url"
	"strings"

	"soundscope/internal/shared"
)

// Scopes is the authorization scope set requested at login.
//
// A scope the user declines does not fail the handshake; calls needing it
// fail with an authorization error later, at request time.
var Scopes = []string{
	"user-read-private",
	"user-read-email",
	"user-read-recently-played",
	"user-read-playback-state",
	"user-read-currently-playing",
	"user-top-read",
	"playlist-read-private",
	"streaming",
}

// State identifies the current step of the handshake.
type State int

const (
	Unauthenticated State = iota
	AwaitingProviderRedirect
	AwaitingCallbackExchange
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AwaitingProviderRedirect:
		return "awaiting provider redirect"
	case AwaitingCallbackExchange:
		return "awaiting callback exchange"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Handshake tracks one login attempt through its linear state machine.
// Transitions only move forward; Failed is terminal.
type Handshake struct {
	state State
	err   error
}

// NewHandshake creates a handshake in the Unauthenticated state.
func NewHandshake() *Handshake {
	return &Handshake{state: Unauthenticated}
}

// State returns the current handshake state.
func (h *Handshake) State() State { return h.state }

// Err returns the failure recorded by Fail, if any.
func (h *Handshake) Err() error { return h.err }

// Begin moves the handshake to AwaitingProviderRedirect (the client has been
// handed the provider login URL).
func (h *Handshake) Begin() error {
	if h.state != Unauthenticated {
		return fmt.Errorf("%w: cannot begin handshake from state %q", shared.ErrInvalidInput, h.state)
	}
	h.state = AwaitingProviderRedirect
	return nil
}

// Callback moves the handshake to AwaitingCallbackExchange (the provider has
// redirected back with an authorization code).
func (h *Handshake) Callback() error {
	if h.state != AwaitingProviderRedirect {
		return fmt.Errorf("%w: unexpected callback in state %q", shared.ErrInvalidInput, h.state)
	}
	h.state = AwaitingCallbackExchange
	return nil
}

// Complete marks the code exchange successful.
func (h *Handshake) Complete() error {
	if h.state != AwaitingCallbackExchange {
		return fmt.Errorf("%w: cannot complete handshake from state %q", shared.ErrInvalidInput, h.state)
	}
	h.state = Authenticated
	return nil
}

// Fail records a terminal failure. The user must restart from the login step.
func (h *Handshake) Fail(err error) {
	h.state = Failed
	h.err = err
}

// ProviderAuthURL is Spotify's authorize endpoint.
const ProviderAuthURL = "https://accounts.spotify.com/authorize"

// LoginURL builds the provider authorize URL with the given scope set.
//
// Scopes are deduplicated preserving first occurrence, space-joined, and
// URL-encoded along with the redirect URI. A non-empty state is passed
// through for CSRF validation on the callback.
func LoginURL(clientID, redirectURI string, scopes []string, state string) string {
	params := url.Values{}
	params.Set("client_id", clientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", redirectURI)
	params.Set("scope", strings.Join(dedupe(scopes), " "))
	if state != "" {
		params.Set("state", state)
	}

	return ProviderAuthURL + "?" + params.Encode()
}

// CompleteLogin extracts the access token from a redirect URL fragment.
//
// The fragment has the form "#access_token=..." (the leading '#' is
// optional). This is the client-side capture step of the handshake, kept
// pure so it is testable without a browser location object.
func CompleteLogin(fragment string) (string, error) {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return "", shared.ErrNoToken
	}

	values, err := url.ParseQuery(fragment)
	if err != nil {
		return "", fmt.Errorf("%w: malformed fragment: %v", shared.ErrAuthFailed, err)
	}

	token := values.Get("access_token")
	if token == "" {
		return "", shared.ErrNoToken
	}

	return token, nil
}

// dedupe removes duplicate entries preserving first-occurrence order.
func dedupe(scopes []string) []string {
	seen := make(map[string]bool, len(scopes))
	out := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
