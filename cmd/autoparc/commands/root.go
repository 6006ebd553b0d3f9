// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package commands holds the cobra command tree of the autoparc binary.
package commands

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"autoparc/internal/config"
	"autoparc/internal/database"
)

var rootCmd = &cobra.Command{
	Use:   "autoparc",
	Short: "AutoParc vehicle marketplace API",
	Long: `AutoParc serves the JSON API of a vehicle classifieds marketplace:
listings, dealer showrooms, accounts with favorites and two-factor login,
news articles and image uploads.

Configuration is read from the environment (and a .env file when present).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		setupLogger(cfg)
		loaded = cfg
		return nil
	},
	// Running the bare binary starts the server.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// loaded is the configuration read by PersistentPreRunE.
var loaded *config.Config

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// setupLogger installs the default slog logger: JSON in production, text
// everywhere else.
func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.Env == "production" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

// openDB connects to PostgreSQL and, when migrate is set, applies pending
// migrations.
func openDB(cfg *config.Config, migrate bool) (*sql.DB, error) {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
