package main

import (
	"context"
	"errors"
	"os"

	"spotlike/internal/auth"
	"spotlike/internal/repositories"
	"spotlike/internal/services"
	"spotlike/internal/shared"

	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}

	var client services.Client
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			client = svc
		} else {
			logger.Warn("failed to create Spotify client", "error", err)
		}
	}

	cache, err := auth.DefaultTokenCache()
	if err != nil {
		logger.Warn("token cache unavailable, falling back to local file", "error", err)
		cache = auth.NewTokenCache("token.json")
	}

	prompter := newTerminalPrompter(config, logger, os.Stdout, os.Stdin)

	var authMgr *auth.Manager
	if client != nil {
		authMgr = auth.NewManager(client, cache, prompter, logger)
	}

	var history *repositories.HistoryRepository
	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		repo := repositories.NewHistoryRepository(db)
		if err := repo.Init(); err == nil {
			history = repo
		} else {
			logger.Warn("history schema init failed, history disabled", "error", err)
			db.Close()
		}
	} else {
		logger.Warn("history database unavailable, history disabled", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Client:  client,
		AuthMgr: authMgr,
		Cache:   cache,
		History: history,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "spotlike",
		Usage:    "Verified like/unlike quick actions for the Spotify track you are hearing",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrVerificationTimeout) {
			logger.Error(err.Error())
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
