// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package commands

import (
	"github.com/spf13/cobra"

	"autoparc/internal/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert development data",
	Long: `Create the development administrator, a sample dealer with its
showroom and listings, and a few news articles. Existing rows are left
untouched, so the command can be run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(loaded, true)
		if err != nil {
			return err
		}
		defer db.Close()
		return database.Seed(cmd.Context(), db)
	},
}
