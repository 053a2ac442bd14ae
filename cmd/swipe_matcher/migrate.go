package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	database, err := connectDB(cmd.Context())
	if err != nil {
		return err
	}
	defer database.Close()

	applied, err := database.Migrate(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if applied == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date")
		return nil
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", applied)
	return nil
}
