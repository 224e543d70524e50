// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// serveCommand runs the OAuth backend for the browser dashboard.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the OAuth backend for the browser dashboard",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate via browser and store the access token",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port for the local callback server (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the login URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "token",
				Usage: "Store an access token from a pasted redirect URL fragment",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "fragment"},
				},
				Action: r.AuthToken,
			},
			{
				Name:   "status",
				Usage:  "Check the stored token against the provider",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored access token",
				Action: r.AuthLogout,
			},
		},
	}
}

// analyzeCommand runs analysis views against the provider.
func analyzeCommand(r *Runner) *cli.Command {
	views := []*cli.Command{
		{Name: "clock", Usage: "When in the day you listen", Action: r.AnalyzeClock},
		{Name: "genres", Usage: "Genre breakdown of your top artists", Action: r.AnalyzeGenres},
		{Name: "gems", Usage: "Favorites by under-the-radar artists", Action: r.AnalyzeGems},
		{Name: "demographics", Usage: "How your taste compares to cohorts", Action: r.AnalyzeDemographics},
		{Name: "personality", Usage: "Your listening archetype", Action: r.AnalyzePersonality},
		{Name: "lineup", Usage: "A festival poster from your top artists", Action: r.AnalyzeLineup},
		{Name: "timeline", Usage: "When you discovered your artists", Action: r.AnalyzeTimeline},
		{Name: "seasonal", Usage: "Listening activity through the year", Action: r.AnalyzeSeasonal},
		{Name: "mood", Usage: "The emotional shape of your rotation", Action: r.AnalyzeMood},
		{Name: "evolution", Usage: "Top artists across time ranges", Action: r.AnalyzeEvolution},
		{Name: "repetition", Usage: "Your most replayed tracks", Action: r.AnalyzeRepetition},
		{Name: "recommendations", Usage: "Top tracks from your favorite artist", Action: r.AnalyzeRecommendations},
		{
			Name:  "report",
			Usage: "Run every view and write a full report",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Usage:   "Output format: text, markdown, json",
					Value:   "text",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "Output file path (default: print to stdout)",
				},
				&cli.IntFlag{
					Name:  "seed",
					Usage: "Seed for simulated derivations (0 uses the clock)",
				},
			},
			Action: r.AnalyzeReport,
		},
	}

	return &cli.Command{
		Name:     "analyze",
		Aliases:  []string{"a"},
		Usage:    "Run listening analysis views",
		Commands: views,
	}
}

// tuiCommand returns the top-level TUI command for the interactive dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive analytics dashboard",
		Action:  r.TUI,
	}
}
