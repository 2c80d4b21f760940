// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the Spotify session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with Spotify using OAuth2",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "fresh",
						Usage: "Discard any cached token and authorize from scratch",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Inspect the cached token record",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Remove the cached token record",
				Action: r.AuthLogout,
			},
		},
	}
}

// trackCommand handles actions on the currently playing track
func trackCommand(r *Runner) *cli.Command {
	jsonFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}

	return &cli.Command{
		Name:    "track",
		Aliases: []string{"t"},
		Usage:   "Act on the currently playing track",
		Commands: []*cli.Command{
			{
				Name:    "current",
				Aliases: []string{"now"},
				Usage:   "Show the currently playing track",
				Flags:   jsonFlags,
				Action:  r.TrackCurrent,
			},
			{
				Name:   "like",
				Usage:  "Add the currently playing track to your library, verified",
				Flags:  jsonFlags,
				Action: r.TrackLike,
			},
			{
				Name:   "unlike",
				Usage:  "Remove the currently playing track from your library, verified",
				Flags:  jsonFlags,
				Action: r.TrackUnlike,
			},
			{
				Name:   "save",
				Usage:  "Save the currently playing track, verified (alias action for like)",
				Flags:  jsonFlags,
				Action: r.TrackSave,
			},
		},
	}
}

// historyCommand lists recorded action outcomes
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded library actions and their verification outcomes",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of entries to return",
				Value: 50,
			},
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "Output CSV instead of text",
			},
		},
		Action: r.History,
	}
}

// runCommand starts the headless now-playing watcher
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Watch playback and log now-playing transitions until interrupted",
		Action: r.Run,
	}
}

// uiCommand returns the interactive now-playing view command
func uiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "ui",
		Aliases: []string{"interactive", "tui"},
		Usage:   "Interactive now-playing view with single-key actions",
		Action:  r.UI,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a starter config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the history database",
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
