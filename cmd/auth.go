package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"soundscope/internal/auth"
	"soundscope/internal/server"
	"soundscope/internal/shared"
	"soundscope/internal/store"
)

// loginTimeout bounds how long 'auth login' waits for the browser round-trip.
const loginTimeout = 5 * time.Minute

// storingExchanger wraps the provider exchanger so that a successful code
// exchange also persists the token and wakes the waiting login command.
type storingExchanger struct {
	server.Exchanger
	tokens *store.TokenStore
	done   chan error
}

func (e *storingExchanger) Exchange(ctx context.Context, code string) (string, error) {
	token, err := e.Exchanger.Exchange(ctx, code)
	if err != nil {
		e.signal(err)
		return "", err
	}

	if err := e.tokens.Set(token); err != nil {
		e.signal(err)
		return "", err
	}

	e.signal(nil)
	return token, nil
}

func (e *storingExchanger) signal(err error) {
	select {
	case e.done <- err:
	default:
	}
}

// AuthLogin runs the full browser handshake against a short-lived local
// callback server and stores the resulting token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify credentials not configured; set client_id in config.toml or SPOTIFY_CLIENT_ID", shared.ErrServiceUnavailable)
	}
	if r.tokens == nil {
		return fmt.Errorf("%w: token store not initialized; run 'soundscope setup database' first", shared.ErrServiceUnavailable)
	}

	cfg := r.config.Server
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = port
	}

	handshake := auth.NewHandshake()
	exchanger := &storingExchanger{
		Exchanger: r.spotify,
		tokens:    r.tokens,
		done:      make(chan error, 1),
	}

	srv := server.NewServer(cfg, exchanger, r.logger)
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	loginURL := fmt.Sprintf("http://%s/api/spotify/login", cfg.Addr())
	if err := handshake.Begin(); err != nil {
		return err
	}

	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL in your browser to authenticate:\n  %s\n", loginURL)
	} else {
		r.logger.Info("opening browser for login", "url", loginURL)
		if err := shared.OpenBrowser(loginURL); err != nil {
			r.logger.Warnf("failed to open browser: %v", err)
			r.writePlain("Open this URL in your browser to authenticate:\n  %s\n", loginURL)
		}
	}

	var result error
	select {
	case err := <-exchanger.done:
		if cbErr := handshake.Callback(); cbErr != nil {
			r.logger.Warnf("unexpected handshake state on callback: %v", cbErr)
		}
		if err != nil {
			handshake.Fail(err)
			result = err
		} else {
			handshake.Complete()
		}
	case err := <-serveErr:
		handshake.Fail(err)
		result = fmt.Errorf("callback server failed: %w", err)
	case <-time.After(loginTimeout):
		err := fmt.Errorf("%w: no callback received within %v", shared.ErrTimeout, loginTimeout)
		handshake.Fail(err)
		result = err
	case <-ctx.Done():
		handshake.Fail(ctx.Err())
		result = ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		r.logger.Warnf("failed to shut down callback server: %v", err)
	}

	if result != nil {
		return result
	}

	r.logger.Info("handshake finished", "state", handshake.State())
	return r.writePlain("✓ Authentication successful; token stored\n")
}

// AuthToken stores a token pasted from a redirect URL fragment. Useful when
// the browser round-trip happened elsewhere (e.g. the web dashboard).
func (r *Runner) AuthToken(ctx context.Context, cmd *cli.Command) error {
	if r.tokens == nil {
		return fmt.Errorf("%w: token store not initialized; run 'soundscope setup database' first", shared.ErrServiceUnavailable)
	}

	fragment := cmd.StringArg("fragment")
	if fragment == "" {
		return fmt.Errorf("%w: expected a URL fragment like '#access_token=...'", shared.ErrMissingArgument)
	}

	token, err := auth.CompleteLogin(fragment)
	if err != nil {
		return err
	}

	if err := r.tokens.Set(token); err != nil {
		return err
	}

	return r.writePlain("✓ Token stored\n")
}

// AuthStatus reports whether a token is stored and whether the provider
// accepts it.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.tokens == nil {
		return fmt.Errorf("%w: token store not initialized; run 'soundscope setup database' first", shared.ErrServiceUnavailable)
	}

	if _, err := r.tokens.Get(); err != nil {
		if errors.Is(err, shared.ErrNoToken) {
			return r.writePlain("✗ Not authenticated; run 'soundscope auth login'\n")
		}
		return err
	}

	r.writePlainln("✓ Token stored")

	if r.spotify == nil {
		r.writePlainln("Spotify credentials not configured; cannot verify token")
		return nil
	}

	profile, err := r.spotify.Profile(ctx)
	if err != nil {
		r.writePlain("✗ Token rejected by provider: %v\n", err)
		return nil
	}

	name := profile.DisplayName
	if name == "" {
		name = profile.ID
	}
	return r.writePlain("✓ Authenticated as %s\n", name)
}

// AuthLogout clears the stored token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.tokens == nil {
		return fmt.Errorf("%w: token store not initialized; run 'soundscope setup database' first", shared.ErrServiceUnavailable)
	}

	if err := r.tokens.Clear(); err != nil {
		return err
	}

	return r.writePlainln("✓ Logged out")
}
