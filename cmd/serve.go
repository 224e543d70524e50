package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"soundscope/internal/server"
	"soundscope/internal/shared"
)

// Serve runs the OAuth backend until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify credentials not configured; set client_id in config.toml or SPOTIFY_CLIENT_ID", shared.ErrServiceUnavailable)
	}

	cfg := r.config.Server
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = port
	}

	srv := server.NewServer(cfg, r.spotify, r.logger)
	return srv.Run()
}
