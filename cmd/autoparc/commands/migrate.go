// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"autoparc/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage the PostgreSQL schema. Migrations are embedded in the binary.

Without a subcommand pending migrations are applied.

Subcommands:
  up       - Apply pending migrations
  down     - Roll back the most recent migration
  version  - Print the current schema version`,
	RunE: migrateUp,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE:  migrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(loaded, false)
		if err != nil {
			return err
		}
		defer db.Close()
		return database.MigrateDown(db)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(loaded, false)
		if err != nil {
			return err
		}
		defer db.Close()

		v, err := database.MigrationVersion(db)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

func migrateUp(cmd *cobra.Command, args []string) error {
	db, err := openDB(loaded, true)
	if err != nil {
		return err
	}
	return db.Close()
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}
