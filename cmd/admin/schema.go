package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobly/internal/database"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the database schema",
}

var schemaApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create the companies, jobs, users and applications tables if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		pool, err := openPool(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.ApplySchema(cmd.Context(), pool); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema applied to %s\n", cfg.Database.Name)
		return nil
	},
}

func init() {
	schemaCmd.AddCommand(schemaApplyCmd)
	rootCmd.AddCommand(schemaCmd)
}
