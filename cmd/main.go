package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"soundscope/internal/services"
	"soundscope/internal/shared"
	"soundscope/internal/store"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}
	config.ApplyEnv()

	var tokens *store.TokenStore
	var spotify *services.SpotifyService

	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		tokens = store.NewTokenStore(db)
	} else {
		logger.Warn("database unavailable", "path", config.Database.Path, "error", err)
	}

	if tokens != nil {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify, tokens); err == nil {
			spotify = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotify,
		Tokens:  tokens,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "soundscope",
		Usage:    "Personal Spotify listening analytics",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
