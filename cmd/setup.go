package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"spotlike/internal/repositories"
	"spotlike/internal/shared"

	"github.com/urfave/cli/v3"
)

// SetupConfig writes a starter configuration file from the embedded template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		if errors.Is(err, os.ErrExist) {
			r.writePlain("✓ Config file already exists at %s\n", configPath)
			return nil
		}
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.writePlain("✓ Config file created at %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Fill in credentials.spotify.client_id and client_secret\n")
	r.writePlain("2. Run 'spotlike auth login' to authorize\n")
	return nil
}

// SetupDatabase initializes the history database schema.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	repo := repositories.NewHistoryRepository(db)
	if err := repo.Init(); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("✓ History database ready at %s\n", config.Database.Path)
}
